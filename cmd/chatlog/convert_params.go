package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/config"
)

// Sentinel errors for conversion parameters.
var (
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrReadRoles      = errors.New("failed to read roles file")
)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	format   chatlog.Format
	prefixes []string
	filters  *chatlog.Filters
	text     *chatlog.TextOptions
	book     *chatlog.Book
	page     *chatlog.PageSettings
	footer   *chatlog.Footer
	stdin    io.Reader
}

// input builds the library input for one transcript.
func (p *conversionParams) input(raw []byte) chatlog.Input {
	return chatlog.Input{
		Raw:          raw,
		RolePrefixes: p.prefixes,
		Filters:      p.filters,
		Format:       p.format,
		TextOutput:   p.text,
		Book:         p.book,
		Page:         p.page,
		Footer:       p.footer,
	}
}

// buildConversionParams turns the merged config into library options. The
// cover date is resolved once so every file of a batch shows the same value.
func buildConversionParams(cfg *config.Config, now time.Time) (*conversionParams, error) {
	format, err := chatlog.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	book, err := buildBook(cfg, now)
	if err != nil {
		return nil, err
	}

	page, err := buildPageSettings(cfg)
	if err != nil {
		return nil, err
	}

	return &conversionParams{
		format:   format,
		prefixes: cfg.Roles.Prefixes,
		filters:  buildFilters(cfg),
		text:     &chatlog.TextOptions{Separators: cfg.Text.Separators, MaxNewlines: cfg.Text.MaxNewlines},
		book:     book,
		page:     page,
		footer:   buildFooter(cfg),
	}, nil
}

// buildFilters creates chatlog.Filters from config.
func buildFilters(cfg *config.Config) *chatlog.Filters {
	return &chatlog.Filters{
		HTMLComments:   cfg.Filters.HTMLComments,
		Details:        cfg.Filters.Details,
		HTMLToMarkdown: cfg.Filters.HTMLToMarkdown,
		HTMLTags:       cfg.Filters.HTMLTags,
		MaxNewlines:    cfg.Filters.MaxNewlines,
	}
}

// buildBook creates chatlog.Book from config.
func buildBook(cfg *config.Config, now time.Time) (*chatlog.Book, error) {
	date, err := chatlog.ResolveDate(cfg.Book.Date, now)
	if err != nil {
		return nil, err
	}

	book := &chatlog.Book{
		Title:       cfg.Book.Title,
		Author:      cfg.Book.Author,
		Language:    cfg.Book.Language,
		Description: cfg.Book.Description,
		Date:        date,
		ChapterMode: chatlog.ChapterMode(cfg.Book.ChapterMode),
		ChapterSize: cfg.Book.ChapterSize,
		UserMarker:  cfg.Roles.UserMarker,
		UserTokens:  cfg.Roles.UserTokens,
		MaxNewlines: cfg.Book.MaxNewlines,
		Markdown:    cfg.Book.Markdown,
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// buildPageSettings creates chatlog.PageSettings from config, filling unset
// fields with the library defaults.
func buildPageSettings(cfg *config.Config) (*chatlog.PageSettings, error) {
	ps := chatlog.DefaultPageSettings()
	if cfg.Page.Size != "" {
		ps.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		ps.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin > 0 {
		ps.Margin = cfg.Page.Margin
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// buildFooter creates chatlog.Footer from config. Returns nil when disabled.
func buildFooter(cfg *config.Config) *chatlog.Footer {
	if !cfg.Footer.Enabled {
		return nil
	}
	return &chatlog.Footer{
		Position:       cfg.Footer.Position,
		ShowPageNumber: cfg.Footer.ShowPageNumber,
		Text:           cfg.Footer.Text,
	}
}

// converterOptions builds the options shared by every pooled converter.
func converterOptions(cfg *config.Config, timeout time.Duration, logger *slog.Logger) []chatlog.Option {
	opts := []chatlog.Option{
		chatlog.WithStyle(cfg.Style.Name),
		chatlog.WithAssetPath(cfg.Assets.BasePath),
		chatlog.WithLogger(logger),
	}
	if cfg.Style.Templates != "" {
		opts = append(opts, chatlog.WithTemplateSet(cfg.Style.Templates))
	}
	if timeout > 0 {
		opts = append(opts, chatlog.WithTimeout(timeout))
	}
	return opts
}

// resolveTimeout picks the PDF timeout. Priority: flag > environment > library default (0).
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	changed := flags.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if flags.format != "" {
		cfg.Output.Format = flags.format
	}

	mergeRoleFlags(&flags.roles, cfg)
	mergeFilterFlags(&flags.filters, changed, cfg)

	// Text flags
	if flags.text.noSeparators {
		cfg.Text.Separators = false
	}
	if changed("text-max-newlines") {
		cfg.Text.MaxNewlines = flags.text.maxNewlines
	}

	// Book flags
	if flags.book.title != "" {
		cfg.Book.Title = flags.book.title
	}
	if flags.book.author != "" {
		cfg.Book.Author = flags.book.author
	}
	if flags.book.language != "" {
		cfg.Book.Language = flags.book.language
	}
	if flags.book.description != "" {
		cfg.Book.Description = flags.book.description
	}
	if flags.book.date != "" {
		cfg.Book.Date = flags.book.date
	}
	if flags.book.chapterMode != "" {
		cfg.Book.ChapterMode = flags.book.chapterMode
	}
	if changed("chapter-size") {
		cfg.Book.ChapterSize = flags.book.chapterSize
	}
	if changed("book-max-newlines") {
		cfg.Book.MaxNewlines = flags.book.maxNewlines
	}
	if flags.book.markdown {
		cfg.Book.Markdown = true
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin > 0 {
		cfg.Page.Margin = flags.page.margin
	}

	// Footer flags
	if flags.footer.position != "" {
		cfg.Footer.Position = flags.footer.position
	}
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
		cfg.Footer.Enabled = true
	}
	if flags.footer.pageNumber {
		cfg.Footer.ShowPageNumber = true
		cfg.Footer.Enabled = true
	}
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}

	// Asset flags
	if flags.assets.style != "" {
		cfg.Style.Name = flags.assets.style
	}
	if flags.assets.template != "" {
		cfg.Style.Templates = flags.assets.template
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// loadRolesFile appends the prefixes listed in --roles-file to the --role
// values, so both flags can be combined.
func loadRolesFile(f *roleFlags) error {
	if f.file == "" {
		return nil
	}
	data, err := os.ReadFile(f.file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadRoles, err)
	}
	prefixes := chatlog.ParseRolePrefixes(string(data))
	if len(prefixes) == 0 {
		return fmt.Errorf("%w: %s lists no role prefixes", ErrReadRoles, f.file)
	}
	f.prefixes = append(f.prefixes, prefixes...)
	return nil
}

// mergeRoleFlags applies --role, --user-marker and --user-tokens.
func mergeRoleFlags(f *roleFlags, cfg *config.Config) {
	if len(f.prefixes) > 0 {
		cfg.Roles.Prefixes = f.prefixes
	}
	if f.userMarker != "" {
		cfg.Roles.UserMarker = f.userMarker
	}
	if len(f.userTokens) > 0 {
		cfg.Roles.UserTokens = f.userTokens
	}
}

// mergeFilterFlags applies the cleaning stage flags.
func mergeFilterFlags(f *filterFlags, changed func(string) bool, cfg *config.Config) {
	if f.keepComments {
		cfg.Filters.HTMLComments = false
	}
	if f.keepDetails {
		cfg.Filters.Details = false
	}
	if f.stripTags {
		cfg.Filters.HTMLTags = true
	}
	if f.htmlToMarkdown {
		cfg.Filters.HTMLToMarkdown = true
	}
	if changed("max-newlines") {
		cfg.Filters.MaxNewlines = f.maxNewlines
	}
}
