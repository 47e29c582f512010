package main

import (
	"errors"
	"os"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/config"
)

// Exit codes for the chatlog CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or unrecognized transcript
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors (PDF output only)
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, chatlog.ErrBrowserConnect) ||
		errors.Is(err, chatlog.ErrPageCreate) ||
		errors.Is(err, chatlog.ErrPageLoad) ||
		errors.Is(err, chatlog.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadTranscript) ||
		errors.Is(err, ErrReadRoles) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrOverwriteInput) ||
		errors.Is(err, ErrConfigExists) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, chatlog.ErrFormatNotRecognized) ||
		errors.Is(err, chatlog.ErrUnknownFormat) ||
		errors.Is(err, chatlog.ErrInvalidChapterMode) ||
		errors.Is(err, chatlog.ErrInvalidChapterSize) ||
		errors.Is(err, chatlog.ErrInvalidMaxNewlines) ||
		errors.Is(err, chatlog.ErrInvalidPageSize) ||
		errors.Is(err, chatlog.ErrInvalidOrientation) ||
		errors.Is(err, chatlog.ErrInvalidMargin) ||
		errors.Is(err, chatlog.ErrInvalidFooterPosition) ||
		errors.Is(err, chatlog.ErrInvalidDateFormat) ||
		errors.Is(err, chatlog.ErrStyleNotFound) ||
		errors.Is(err, chatlog.ErrTemplateSetNotFound) ||
		errors.Is(err, chatlog.ErrIncompleteTemplateSet) ||
		errors.Is(err, chatlog.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidFlags) {
		return ExitUsage
	}

	return ExitGeneral
}
