package chatlog

import (
	"fmt"
	"strings"

	"github.com/alnah/go-chatlog/internal/chapter"
	"github.com/alnah/go-chatlog/internal/filter"
	"github.com/alnah/go-chatlog/internal/transcript"
)

// Message is one role-tagged turn of a transcript.
type Message = transcript.Message

// Format selects the output document type.
type Format string

// Output formats.
const (
	FormatText Format = "txt"
	FormatEPUB Format = "epub"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// DefaultFormat is used when Input.Format is empty.
const DefaultFormat = FormatEPUB

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatText, FormatEPUB, FormatHTML, FormatPDF}
}

func formatNames() string {
	names := make([]string, 0, 4)
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// ParseFormat maps a case-insensitive name (or file extension) to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if f == "text" {
		f = FormatText
	}
	if err := f.Validate(); err != nil || f == "" {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownFormat, s, formatNames())
	}
	return f, nil
}

// Validate reports whether f is supported. The empty format is valid and
// means DefaultFormat.
func (f Format) Validate() error {
	switch f {
	case "", FormatText, FormatEPUB, FormatHTML, FormatPDF:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	if f == "" {
		return string(DefaultFormat)
	}
	return string(f)
}

// MediaType returns the MIME type of documents in this format.
func (f Format) MediaType() string {
	switch f {
	case FormatText:
		return "text/plain"
	case FormatHTML:
		return "text/html"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/epub+zip"
	}
}

// IsBook reports whether the format is rendered from cover and chapter
// templates.
func (f Format) IsBook() bool {
	return f != FormatText
}

// Input contains conversion parameters.
type Input struct {
	Raw          []byte        // Transcript bytes in UTF-8, UTF-16 (with BOM), Big5 or Latin-1
	Text         string        // Decoded transcript, used when Raw is nil
	RolePrefixes []string      // nil = transcript.DefaultRolePrefixes
	Filters      *Filters      // nil = DefaultFilters()
	Format       Format        // "" = DefaultFormat
	TextOutput   *TextOptions  // FormatText only, nil = DefaultTextOptions()
	Book         *Book         // book formats only, nil = DefaultBook()
	CSS          string        // Appended to the converter style (book formats)
	Page         *PageSettings // FormatPDF only, nil = defaults
	Footer       *Footer       // FormatPDF only, nil = no footer
}

// Filters toggles the cleaning stages. They run in a fixed order:
// comments, details, HTML to Markdown, tags, newline cap.
type Filters struct {
	HTMLComments   bool // remove <!-- ... -->
	Details        bool // remove <details>...</details>
	HTMLToMarkdown bool // convert HTML markup to Markdown
	HTMLTags       bool // strip remaining tags (<br> and </p> become newlines)
	MaxNewlines    int  // cap newline runs, 0 = off
}

// DefaultFilters returns the filters enabled when Input.Filters is nil.
func DefaultFilters() *Filters {
	return &Filters{HTMLComments: true, Details: true}
}

// Validate checks filter settings. Returns nil if f is nil.
func (f *Filters) Validate() error {
	if f == nil {
		return nil
	}
	if f.MaxNewlines < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidMaxNewlines, f.MaxNewlines)
	}
	return nil
}

// TextOptions configures flat text output.
type TextOptions struct {
	Separators  bool // "---" line after every message
	MaxNewlines int  // cap newline runs, 0 = off
}

// DefaultTextOptions returns the text settings used when Input.TextOutput is nil.
func DefaultTextOptions() *TextOptions {
	return &TextOptions{Separators: true, MaxNewlines: filter.DefaultMaxNewlines}
}

// Validate checks text settings. Returns nil if t is nil.
func (t *TextOptions) Validate() error {
	if t == nil {
		return nil
	}
	if t.MaxNewlines < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidMaxNewlines, t.MaxNewlines)
	}
	return nil
}

// ChapterMode selects how messages are grouped into chapters.
type ChapterMode = chapter.Mode

// Chapter modes.
const (
	ChapterBatch      = chapter.ModeBatch
	ChapterPerMessage = chapter.ModePerMessage
	ChapterUserStart  = chapter.ModeUserStart
)

// DefaultChapterSize is the batch size used when Book.ChapterSize is zero.
const DefaultChapterSize = chapter.DefaultSize

// Book configures the book formats (EPUB, HTML, PDF).
type Book struct {
	Title       string
	Author      string
	Language    string // BCP 47 tag, e.g. "zh-TW"
	Description string
	Date        string // cover date: literal, "auto" or "auto:FORMAT"
	Identifier  string // EPUB identifier, "" = derived from content

	ChapterMode ChapterMode
	ChapterSize int      // batch mode, 0 = DefaultChapterSize
	UserMarker  string   // user-start mode and role styling
	UserTokens  []string // nil = built-in user tokens

	MaxNewlines int  // cap newline runs per message, 0 = off
	Markdown    bool // render message content as Markdown
}

// DefaultBook returns the book settings used when Input.Book is nil.
func DefaultBook() *Book {
	return &Book{
		Title:       "對話記錄",
		Author:      "Chatlog Tool",
		Language:    "zh-TW",
		Date:        "auto",
		ChapterMode: ChapterBatch,
		ChapterSize: DefaultChapterSize,
		MaxNewlines: filter.DefaultMaxNewlines,
	}
}

// Validate checks book settings. Returns nil if b is nil.
func (b *Book) Validate() error {
	if b == nil {
		return nil
	}
	if err := b.ChapterMode.Validate(); err != nil {
		return err
	}
	if b.ChapterSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChapterSize, b.ChapterSize)
	}
	if b.MaxNewlines < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidMaxNewlines, b.MaxNewlines)
	}
	return nil
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks page settings case-insensitively. Returns nil if p is nil.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Footer configures the PDF page footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Text           string
}

// Validate checks footer settings. Returns nil if f is nil.
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Transcript is the result of decoding, segmentation and filtering.
type Transcript struct {
	Encoding string    // encoding the input was decoded with
	Prefixes []string  // role prefixes the transcript was segmented with
	Roles    []string  // distinct roles, in order of first appearance
	Original []Message // messages as segmented
	Cleaned  []Message // messages after the filter chain
}

// ParseRolePrefixes reads role prefixes written one per line, as in a roles
// file. Lines are trimmed and blank lines skipped.
func ParseRolePrefixes(text string) []string {
	return transcript.ParseRolePrefixes(text)
}

// ConvertResult holds a converted document.
type ConvertResult struct {
	Format   Format
	Data     []byte
	Encoding string // input encoding
	Messages int    // messages after filtering
	Chapters int    // 0 for FormatText
}

// MediaType returns the MIME type of Data.
func (r *ConvertResult) MediaType() string {
	return r.Format.MediaType()
}

// Extension returns the file extension of Data without the dot.
func (r *ConvertResult) Extension() string {
	return r.Format.Extension()
}
