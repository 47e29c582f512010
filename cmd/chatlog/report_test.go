package main

// Notes:
// - errorHint: hint text itself is covered by the hints package; here we
//   check which errors receive one.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	chatlog "github.com/alnah/go-chatlog"
)

func TestErrorHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		prefixes []string
		want     string
	}{
		{"browser", fmt.Errorf("x: %w", chatlog.ErrBrowserConnect), nil, "ROD_"},
		{"timeout", context.DeadlineExceeded, nil, "--timeout"},
		{"unrecognized with prefixes", &chatlog.UnrecognizedFormatError{}, []string{"Q:"}, `"Q:"`},
		{"unrecognized without prefixes", &chatlog.UnrecognizedFormatError{}, nil, "roles.prefixes"},
		{"style", chatlog.ErrStyleNotFound, nil, "default"},
		{"output dir", ErrWriteOutput, nil, "writable"},
		{"none", errors.New("other"), nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := errorHint(tt.err, tt.prefixes)
			if tt.want == "" {
				if got != "" {
					t.Errorf("errorHint() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("errorHint() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		want      string
		wantHints int
	}{
		{"plain", errors.New("boom"), "error: boom\n", 0},
		{"hinted by printError", ErrWriteOutput, "error: failed to write output file", 1},
		{"batch error", &batchError{failed: 2, first: ErrWriteOutput}, "error: 2 conversion(s) failed\n", 0},
		{"carries own hint", &hintedError{err: &chatlog.UnrecognizedFormatError{}, hint: "\n  hint: try --role"}, "hint: try --role", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printError(&buf, tt.err)
			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("printError() = %q, want %q", out, tt.want)
			}
			if n := strings.Count(out, "hint:"); n != tt.wantHints {
				t.Errorf("hint count = %d, want %d in %q", n, tt.wantHints, out)
			}
		})
	}
}

func TestNewBatchError(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.txt"},
		{InputPath: "b.txt", Err: chatlog.ErrPDFGeneration},
		{InputPath: "c.txt", Err: ErrWriteOutput},
	}
	err := newBatchError(results, 2)

	if err.Error() != "2 conversion(s) failed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, chatlog.ErrPDFGeneration) {
		t.Error("batch error should unwrap to the first failure")
	}
	if errors.Is(err, ErrWriteOutput) {
		t.Error("batch error should not match later failures")
	}
}
