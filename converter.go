package chatlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-chatlog/internal/assets"
	"github.com/alnah/go-chatlog/internal/fileutil"
	"github.com/alnah/go-chatlog/internal/filter"
	"github.com/alnah/go-chatlog/internal/transcript"
)

// Compile-time interface implementation checks.
var (
	_ pdfConverter       = (*rodConverter)(nil)
	_ pdfRenderer        = (*rodRenderer)(nil)
	_ serializer         = textSerializer{}
	_ serializer         = (*epubSerializer)(nil)
	_ serializer         = (*htmlSerializer)(nil)
	_ serializer         = (*pdfSerializer)(nil)
	_ filter.Filter      = (*filter.MarkdownFilter)(nil)
	_ filter.Filter      = filter.Chain(nil)
	_ AssetLoader        = (*assetLoaderAdapter)(nil)
	_ assets.AssetLoader = (*publicToInternalAdapter)(nil)
)

// Converter runs the transcript conversion pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// A Converter is not safe for concurrent use; use ConverterPool for parallelism.
type Converter struct {
	cfg               converterConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	templates         *assets.TemplateSet
	markdownFilter    filter.Filter
	pdfConverter      pdfConverter
	logger            *slog.Logger
}

// NewConverter creates a Converter. Styles and templates are resolved here,
// so a missing asset fails early. The browser is only started by the first
// PDF conversion.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:         defaultTimeout,
			templateSetName: DefaultTemplateSet,
			now:             time.Now,
		},
		assetLoader: assets.NewEmbeddedLoader(),
		logger:      discardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, convertAssetError(err)
		}
		c.assetLoader = resolver
	}
	if c.publicAssetLoader != nil {
		c.assetLoader = &publicToInternalAdapter{pub: c.publicAssetLoader}
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	ts, err := c.assetLoader.LoadTemplateSet(c.cfg.templateSetName)
	if err != nil {
		return nil, fmt.Errorf("loading template set %q: %w", c.cfg.templateSetName, convertAssetError(err))
	}
	c.templates = ts

	if c.markdownFilter == nil {
		c.markdownFilter = filter.NewMarkdownFilter()
	}
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Prepare decodes, segments and filters the transcript without rendering.
// Returns an *UnrecognizedFormatError (ErrFormatNotRecognized) when no role
// prefix matches.
func (c *Converter) Prepare(ctx context.Context, input Input) (tr *Transcript, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Filters.Validate(); err != nil {
		return nil, err
	}
	return c.prepare(ctx, input)
}

func (c *Converter) prepare(ctx context.Context, input Input) (*Transcript, error) {
	start := time.Now()

	content, enc := input.Text, transcript.EncodingUTF8
	if input.Raw != nil {
		content, enc = transcript.Decode(input.Raw)
	}
	c.logger.Debug("decoded transcript", "encoding", enc, "bytes", len(content))

	prefixes := input.RolePrefixes
	if len(prefixes) == 0 {
		prefixes = transcript.DefaultRolePrefixes
	}
	unifier := transcript.NewPrefixUnifier(prefixes)
	messages, err := transcript.UnifyWith([]transcript.Unifier{unifier}, content)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chain := c.filterChain(input.Filters)
	cleaned := chain.Apply(messages)
	c.logger.Debug("cleaned transcript",
		"messages", len(cleaned),
		"filters", strings.Join(chain.Names(), ","),
		"duration", time.Since(start))

	return &Transcript{
		Encoding: string(enc),
		Prefixes: unifier.Prefixes(),
		Roles:    transcript.Roles(messages),
		Original: messages,
		Cleaned:  cleaned,
	}, nil
}

// Convert runs the full pipeline and returns the document in input.Format.
// The context is used for cancellation between stages and for PDF rendering.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	tr, err := c.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	format := input.Format
	if format == "" {
		format = DefaultFormat
	}

	start := time.Now()
	out, err := c.serializerFor(format).serialize(ctx, tr.Cleaned, input)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("serialized document",
		"format", string(format),
		"bytes", len(out.data),
		"chapters", out.chapters,
		"duration", time.Since(start))

	return &ConvertResult{
		Format:   format,
		Data:     out.data,
		Encoding: tr.Encoding,
		Messages: len(tr.Cleaned),
		Chapters: out.chapters,
	}, nil
}

// Close releases resources (headless Chrome browser, if started).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// filterChain builds the cleaning chain in its fixed order.
func (c *Converter) filterChain(f *Filters) filter.Chain {
	if f == nil {
		f = DefaultFilters()
	}
	var chain filter.Chain
	if f.HTMLComments {
		chain = append(chain, filter.CommentFilter{})
	}
	if f.Details {
		chain = append(chain, filter.DetailsFilter{})
	}
	if f.HTMLToMarkdown {
		chain = append(chain, c.markdownFilter)
	}
	if f.HTMLTags {
		chain = append(chain, filter.TagFilter{})
	}
	if f.MaxNewlines > 0 {
		chain = append(chain, filter.NewlineCapFilter{Max: f.MaxNewlines})
	}
	return chain
}

// serializerFor returns the serializer of a validated, non-empty format.
func (c *Converter) serializerFor(format Format) serializer {
	switch format {
	case FormatText:
		return textSerializer{}
	case FormatHTML:
		return &htmlSerializer{book: c}
	case FormatPDF:
		return &pdfSerializer{html: htmlSerializer{book: c}, pdf: c.pdfConverter}
	default:
		return &epubSerializer{book: c}
	}
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if strings.Contains(input, "{") {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks option types before any work is done. CLI users are
// validated earlier by the config layer; library users land here.
func (c *Converter) validateInput(input Input) error {
	if err := input.Format.Validate(); err != nil {
		return err
	}
	if err := input.Filters.Validate(); err != nil {
		return err
	}
	if err := input.TextOutput.Validate(); err != nil {
		return err
	}
	if err := input.Book.Validate(); err != nil {
		return err
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	return input.Footer.Validate()
}
