package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/fileutil"
)

// stdinArg selects standard input as the transcript source.
const stdinArg = "-"

// transcriptExt is the extension of transcript files found in directories.
const transcriptExt = ".txt"

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("transcript must have a .txt extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrOverwriteInput     = errors.New("output would overwrite the input transcript")
)

// FileToConvert represents a single transcript to process.
type FileToConvert struct {
	InputPath  string // "-" for stdin
	OutputPath string
}

// discoverFiles finds the transcripts to convert and their output paths.
func discoverFiles(inputPath, outputDir string, format chatlog.Format, now time.Time) ([]FileToConvert, error) {
	ext := format.Extension()

	if inputPath == stdinArg {
		return []FileToConvert{{InputPath: stdinArg, OutputPath: stdinOutputPath(outputDir, ext, now)}}, nil
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateTranscriptExtension(inputPath); err != nil {
			return nil, err
		}
		f := FileToConvert{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "", ext)}
		if err := checkNoOverwrite(f); err != nil {
			return nil, err
		}
		return []FileToConvert{f}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || filepath.Ext(path) != transcriptExt {
			return nil
		}
		f := FileToConvert{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath, ext)}
		if err := checkNoOverwrite(f); err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})

	return files, err
}

// stdinOutputPath names the output of a stdin conversion dialogue_<unix>.<ext>,
// unless outputDir already names a file with the right extension.
func stdinOutputPath(outputDir, ext string, now time.Time) string {
	if strings.HasSuffix(outputDir, "."+ext) {
		return outputDir
	}
	return filepath.Join(outputDir, fileutil.TimestampedName(ext, now))
}

// resolveOutputPath determines the output path for a transcript. Outputs
// mirror the input tree below outputDir when converting a directory.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	name := fileutil.ReplaceExtension(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if baseInputDir == "" && strings.HasSuffix(outputDir, "."+ext) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// checkNoOverwrite rejects text conversions written over their source.
func checkNoOverwrite(f FileToConvert) error {
	if filepath.Clean(f.InputPath) == filepath.Clean(f.OutputPath) {
		return fmt.Errorf("%w: %s (choose another --output)", ErrOverwriteInput, f.InputPath)
	}
	return nil
}

// validateTranscriptExtension checks that the file has a .txt extension.
func validateTranscriptExtension(path string) error {
	if ext := filepath.Ext(path); !strings.EqualFold(ext, transcriptExt) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > chatlog.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, chatlog.MaxPoolSize)
	}
	return nil
}
