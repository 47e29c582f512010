package chatlog

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// Notes:
// - Loader tests go through the public API only; resolver internals are
//   covered in internal/assets.
// These are acceptable gaps: we test observable behavior, not implementation details.

// ---------------------------------------------------------------------------
// TestNewAssetLoader - Embedded and custom assets
// ---------------------------------------------------------------------------

func TestNewTemplateSet(t *testing.T) {
	t.Parallel()

	ts := NewTemplateSet("custom", "<h1>{{.Title}}</h1>", "<section id=\"chapter-{{.Number}}\"></section>")
	if ts.Name != "custom" || ts.Cover != "<h1>{{.Title}}</h1>" || !strings.Contains(ts.Chapter, "chapter-") {
		t.Errorf("NewTemplateSet() = %+v", ts)
	}
}

func TestNewAssetLoader_EmptyPath(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader(\"\") error = %v", err)
	}

	for _, name := range Styles() {
		css, err := loader.LoadStyle(name)
		if err != nil || css == "" {
			t.Errorf("LoadStyle(%q) = %d bytes, %v", name, len(css), err)
		}
	}

	ts, err := loader.LoadTemplateSet(DefaultTemplateSet)
	if err != nil {
		t.Fatalf("LoadTemplateSet(%q) error = %v", DefaultTemplateSet, err)
	}
	if ts.Cover == "" || ts.Chapter == "" {
		t.Error("default template set should have cover and chapter")
	}
}

func TestStyles(t *testing.T) {
	t.Parallel()

	got := Styles()
	for _, want := range []string{"default", "compact", "night"} {
		if !slices.Contains(got, want) {
			t.Errorf("Styles() = %v, missing %q", got, want)
		}
	}
}

func TestNewAssetLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	if _, err := NewAssetLoader("/nonexistent/chatlog/assets"); !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewAssetLoader() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestNewAssetLoader_CustomOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "styles", "default.css"), "body { color: teal; }")
	mustWrite(t, filepath.Join(dir, "templates", "default", "cover.html"), "<h1>{{.Title}}</h1>")
	mustWrite(t, filepath.Join(dir, "templates", "default", "chapter.html"), "<section>{{.Title}}</section>")

	loader, err := NewAssetLoader(dir)
	if err != nil {
		t.Fatalf("NewAssetLoader(%q) error = %v", dir, err)
	}

	if css, _ := loader.LoadStyle(DefaultStyle); css != "body { color: teal; }" {
		t.Errorf("LoadStyle() = %q, want custom CSS", css)
	}
	ts, err := loader.LoadTemplateSet(DefaultTemplateSet)
	if err != nil {
		t.Fatalf("LoadTemplateSet() error = %v", err)
	}
	if ts.Cover != "<h1>{{.Title}}</h1>" {
		t.Errorf("Cover = %q, want custom cover", ts.Cover)
	}

	// Unknown names still fall back to embedded assets.
	if css, err := loader.LoadStyle("night"); err != nil || css == "" {
		t.Errorf("LoadStyle(night) fallback = %v", err)
	}
}

func TestNewAssetLoader_IncompleteTemplateSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "templates", "half", "cover.html"), "<h1>{{.Title}}</h1>")

	loader, err := NewAssetLoader(dir)
	if err != nil {
		t.Fatalf("NewAssetLoader(%q) error = %v", dir, err)
	}
	if _, err := loader.LoadTemplateSet("half"); !errors.Is(err, ErrIncompleteTemplateSet) {
		t.Errorf("LoadTemplateSet(half) error = %v, want ErrIncompleteTemplateSet", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvertAssetError - Public sentinels
// ---------------------------------------------------------------------------

func TestAssetLoader_NotFoundErrors(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatalf("NewAssetLoader error = %v", err)
	}

	_, err = loader.LoadStyle("sepia")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
	if !strings.Contains(err.Error(), "sepia") {
		t.Errorf("error %q should name the style", err)
	}

	if _, err := loader.LoadTemplateSet("ornate"); !errors.Is(err, ErrTemplateSetNotFound) {
		t.Errorf("LoadTemplateSet() error = %v, want ErrTemplateSetNotFound", err)
	}
	if _, err := loader.LoadStyle("../etc/passwd"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(traversal) error = %v, want ErrStyleNotFound", err)
	}
}

func TestConvertAssetError_Passthrough(t *testing.T) {
	t.Parallel()

	if err := convertAssetError(nil); err != nil {
		t.Errorf("convertAssetError(nil) = %v, want nil", err)
	}
	other := errors.New("disk on fire")
	if err := convertAssetError(other); err != other {
		t.Errorf("convertAssetError(other) = %v, want unchanged", err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
