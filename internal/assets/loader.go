package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")

	// ErrInvalidAssetName rejects empty names and names with separators or dots.
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")

	// ErrPathTraversal reports a symlink leading out of the asset directory.
	ErrPathTraversal = errors.New("path traversal detected")
)

// Names of the built-in assets.
const (
	DefaultTemplateSetName = "default"
	DefaultStyleName       = "default"
)

// Layout shared by the embedded assets and custom directories.
const (
	stylesDir    = "styles"
	templatesDir = "templates"
	styleExt     = ".css"
	coverFile    = "cover.html"
	chapterFile  = "chapter.html"
)

// TemplateSet holds the templates rendering a chat document.
type TemplateSet struct {
	Name    string
	Cover   string
	Chapter string
}

// AssetLoader loads styles and template sets by name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// ValidateAssetName rejects names that are empty or could reach outside the
// asset directory: path separators and dots are not allowed.
func ValidateAssetName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, "/\\."):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// fsLoader reads assets laid out as styles/<name>.css and
// templates/<name>/{cover,chapter}.html. read is fs.ReadFile on some file
// system; read errors matching fs.ErrNotExist mean the asset is absent.
type fsLoader struct {
	read func(name string) ([]byte, error)
}

func (l fsLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	css, err := l.read(path.Join(stylesDir, name+styleExt))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	case err != nil:
		return "", err
	}
	return string(css), nil
}

func (l fsLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	dir := path.Join(templatesDir, name)
	cover, coverErr := l.read(path.Join(dir, coverFile))
	chapter, chapterErr := l.read(path.Join(dir, chapterFile))

	coverMissing := errors.Is(coverErr, fs.ErrNotExist)
	chapterMissing := errors.Is(chapterErr, fs.ErrNotExist)
	switch {
	case coverMissing && chapterMissing:
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	case coverErr != nil && !coverMissing:
		return nil, coverErr
	case chapterErr != nil && !chapterMissing:
		return nil, chapterErr
	case coverMissing:
		return nil, fmt.Errorf("%w: %q has no %s", ErrIncompleteTemplateSet, name, coverFile)
	case chapterMissing:
		return nil, fmt.Errorf("%w: %q has no %s", ErrIncompleteTemplateSet, name, chapterFile)
	}

	return &TemplateSet{Name: name, Cover: string(cover), Chapter: string(chapter)}, nil
}
