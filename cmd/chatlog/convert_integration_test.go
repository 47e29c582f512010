//go:build integration

package main

// Notes:
// - PDF output through the full CLI; needs Chrome or a Rod download.
// - Footers and page sizes are checked by the library's integration tests.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunConvert_PDF_Integration(t *testing.T) {
	t.Parallel()

	in := setupTestDir(t, map[string]string{
		"a.txt": chatTranscript,
		"b.txt": "您：第二份\nAI：好的\n",
	})
	out := t.TempDir()

	code, env := runCLI(t, "", in, "-f", "pdf", "-o", out, "-w", "2", "-t", "2m",
		"--footer-page-number", "-p", "letter")
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, env.stderr)
	}

	for _, name := range []string{"a.pdf", "b.pdf"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Errorf("%s is not a PDF", name)
		}
	}
	if !strings.Contains(env.stdout.String(), "2 succeeded, 0 failed") {
		t.Errorf("stdout = %q", env.stdout)
	}
}
