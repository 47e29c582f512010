package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/hints"
)

// batchError reports conversions that failed and were already printed.
// It unwraps to the first failure so the exit code reflects its cause.
type batchError struct {
	failed int
	first  error
}

func newBatchError(results []ConversionResult, failed int) *batchError {
	e := &batchError{failed: failed}
	for _, r := range results {
		if r.Err != nil {
			e.first = r.Err
			break
		}
	}
	return e
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d conversion(s) failed", e.failed)
}

func (e *batchError) Unwrap() error {
	return e.first
}

// hintedError carries its own hint so printError does not add another.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// printError writes a command error with an actionable hint.
func printError(w io.Writer, err error) {
	var be *batchError
	var he *hintedError
	if errors.As(err, &be) || errors.As(err, &he) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error: %v%s\n", err, errorHint(err, nil))
}

// errorHint returns the hint suffix matching err, or "".
func errorHint(err error, prefixes []string) string {
	switch {
	case errors.Is(err, chatlog.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, chatlog.ErrFormatNotRecognized):
		return hints.ForFormatNotRecognized(prefixes)
	case errors.Is(err, chatlog.ErrStyleNotFound):
		return hints.ForStyleNotFound(chatlog.Styles())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}
