package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DirLoader loads assets from a user directory. Files are opened with
// os.OpenInRoot, so neither ".." nor symlinks can leave the directory.
type DirLoader struct {
	fsLoader
	base string
}

var _ AssetLoader = (*DirLoader)(nil)

// NewDirLoader creates a DirLoader for base, which must be a readable
// directory.
func NewDirLoader(base string) (*DirLoader, error) {
	if base == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: no such directory: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	d := &DirLoader{base: abs}
	d.fsLoader = fsLoader{read: d.read}
	return d, nil
}

// read opens name below the base directory. Failures other than a missing
// file are reported as ErrPathTraversal for symlinks and ErrAssetRead
// otherwise.
func (d *DirLoader) read(name string) ([]byte, error) {
	f, err := os.OpenInRoot(d.base, filepath.FromSlash(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if info, lerr := os.Lstat(filepath.Join(d.base, filepath.FromSlash(name))); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
			return nil, fmt.Errorf("%w: %s leaves %s", ErrPathTraversal, name, d.base)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return data, nil
}
