package assets

import (
	"embed"
	"io/fs"
	"slices"
	"strings"
)

//go:embed styles templates
var builtin embed.FS

// EmbeddedLoader loads the assets compiled into the binary.
type EmbeddedLoader struct {
	fsLoader
}

var _ AssetLoader = (*EmbeddedLoader)(nil)

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsLoader{read: func(name string) ([]byte, error) {
		return fs.ReadFile(builtin, name)
	}}}
}

// Styles lists the built-in style names, sorted.
func (e *EmbeddedLoader) Styles() []string {
	entries, err := fs.ReadDir(builtin, stylesDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), styleExt); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
