// Package fileutil provides file and path helpers shared by the converter
// and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// DefaultBaseName prefixes outputs that have no input file name.
const DefaultBaseName = "dialogue"

// WriteTempFile creates a chatlog-*.<extension> temporary file holding
// content and returns its path with a cleanup function. The file is removed
// again when writing fails.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "chatlog-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, writeErr := f.WriteString(content)
	if err := errors.Join(writeErr, f.Close()); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp file %s: %w", path, err)
	}
	return path, cleanup, nil
}

// ValidateExtension rejects empty extensions and extensions that could
// change the directory of a generated file.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath reports whether s contains a path separator, which
// distinguishes "./night.css" from the style name "night".
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// TimestampedName returns "dialogue_<unix seconds>.<extension>".
func TimestampedName(extension string, t time.Time) string {
	return DefaultBaseName + "_" + strconv.FormatInt(t.Unix(), 10) + "." + extension
}

// ReplaceExtension swaps the extension of path, adding one if path has none.
func ReplaceExtension(path, extension string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + extension
}
