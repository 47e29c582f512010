package chatlog

import (
	"errors"

	"github.com/alnah/go-chatlog/internal/chapter"
	"github.com/alnah/go-chatlog/internal/transcript"
)

// Sentinel errors for library operations.
var (
	// ErrFormatNotRecognized is matched by the *UnrecognizedFormatError
	// returned when no role prefix occurs in the transcript.
	ErrFormatNotRecognized = transcript.ErrFormatNotRecognized

	ErrUnknownFormat  = errors.New("unknown output format")
	ErrEPUBGeneration = errors.New("EPUB generation failed")
	ErrHTMLGeneration = errors.New("HTML generation failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Filter validation errors.
	ErrInvalidMaxNewlines = errors.New("invalid newline limit")

	// Book validation errors.
	ErrInvalidChapterMode = chapter.ErrUnknownMode
	ErrInvalidChapterSize = chapter.ErrInvalidSize

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)

// UnrecognizedFormatError reports a transcript in which no role prefix was
// found. Its Cause is the error of the last segmentation attempt.
type UnrecognizedFormatError = transcript.UnrecognizedFormatError
