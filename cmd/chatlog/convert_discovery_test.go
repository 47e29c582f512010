package main

// Notes:
// - discoverFiles: tested for stdin, single files, directory walks with
//   mirrored output trees and the text overwrite guard.
// - WalkDir permission errors are not simulated.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	chatlog "github.com/alnah/go-chatlog"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Transcript discovery and output naming
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"a.txt":         chatTranscript,
		"notes.md":      "# not a transcript",
		"nested/b.txt":  chatTranscript,
		"nested/c.TXT":  chatTranscript,
		"nested/d.json": "{}",
		"deep/er/e.txt": chatTranscript,
	})

	t.Run("single file next to input", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(dir, "a.txt")
		files, err := discoverFiles(in, "", chatlog.FormatEPUB, fixedNow)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		want := []FileToConvert{{InputPath: in, OutputPath: filepath.Join(dir, "a.epub")}}
		if !slices.Equal(files, want) {
			t.Errorf("discoverFiles() = %v, want %v", files, want)
		}
	})

	t.Run("single file to explicit output file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "book.html")
		files, err := discoverFiles(filepath.Join(dir, "a.txt"), out, chatlog.FormatHTML, fixedNow)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if files[0].OutputPath != out {
			t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, out)
		}
	})

	t.Run("single file into output dir", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		files, err := discoverFiles(filepath.Join(dir, "a.txt"), out, chatlog.FormatPDF, fixedNow)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if want := filepath.Join(out, "a.pdf"); files[0].OutputPath != want {
			t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, want)
		}
	})

	t.Run("directory mirrors tree", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		files, err := discoverFiles(dir, out, chatlog.FormatEPUB, fixedNow)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}

		var outputs []string
		for _, f := range files {
			outputs = append(outputs, f.OutputPath)
		}
		want := []string{
			filepath.Join(out, "a.epub"),
			filepath.Join(out, "deep", "er", "e.epub"),
			filepath.Join(out, "nested", "b.epub"),
		}
		slices.Sort(outputs)
		if !slices.Equal(outputs, want) {
			t.Errorf("outputs = %v, want %v", outputs, want)
		}
	})

	t.Run("stdin gets timestamped name", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		files, err := discoverFiles(stdinArg, out, chatlog.FormatEPUB, fixedNow)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		want := filepath.Join(out, "dialogue_1710493507.epub")
		if files[0].InputPath != stdinArg || files[0].OutputPath != want {
			t.Errorf("discoverFiles() = %+v, want output %q", files[0], want)
		}
	})

	t.Run("stdin to explicit file", func(t *testing.T) {
		t.Parallel()

		files, err := discoverFiles(stdinArg, "chat.txt", chatlog.FormatText, fixedNow)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		if files[0].OutputPath != "chat.txt" {
			t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, "chat.txt")
		}
	})

	t.Run("text output over input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "a.txt"), "", chatlog.FormatText, fixedNow)
		if !errors.Is(err, ErrOverwriteInput) {
			t.Errorf("discoverFiles() error = %v, want ErrOverwriteInput", err)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "notes.md"), "", chatlog.FormatEPUB, fixedNow)
		if !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("discoverFiles() error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(dir, "missing.txt"), "", chatlog.FormatEPUB, fixedNow)
		if err == nil {
			t.Error("discoverFiles() expected error for missing input")
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output path rules
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inputPath    string
		outputDir    string
		baseInputDir string
		ext          string
		want         string
	}{
		{
			name:      "no output dir",
			inputPath: filepath.Join("chats", "day1.txt"),
			ext:       "epub",
			want:      filepath.Join("chats", "day1.epub"),
		},
		{
			name:      "output file with matching extension",
			inputPath: "day1.txt",
			outputDir: filepath.Join("out", "book.epub"),
			ext:       "epub",
			want:      filepath.Join("out", "book.epub"),
		},
		{
			name:      "output file with other extension is a dir",
			inputPath: "day1.txt",
			outputDir: filepath.Join("out", "book.epub"),
			ext:       "pdf",
			want:      filepath.Join("out", "book.epub", "day1.pdf"),
		},
		{
			name:         "mirrored subdirectory",
			inputPath:    filepath.Join("in", "2024", "day1.txt"),
			outputDir:    "out",
			baseInputDir: "in",
			ext:          "html",
			want:         filepath.Join("out", "2024", "day1.html"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.inputPath, tt.outputDir, tt.baseInputDir, tt.ext)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateTranscriptExtension / TestValidateWorkers
// ---------------------------------------------------------------------------

func TestValidateTranscriptExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"chat.txt", false},
		{"CHAT.TXT", false},
		{"chat.md", true},
		{"chat", true},
		{"chat.txt.bak", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			err := validateTranscriptExtension(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTranscriptExtension(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidExtension) {
				t.Errorf("error = %v, want ErrInvalidExtension", err)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"auto", 0, false},
		{"one", 1, false},
		{"maximum", chatlog.MaxPoolSize, false},
		{"negative", -1, true},
		{"above maximum", chatlog.MaxPoolSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateWorkers(tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
				t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
			}
		})
	}
}
