package chatlog

import (
	"context"
	"fmt"
	"html/template"

	"github.com/alnah/go-chatlog/internal/chapter"
	"github.com/alnah/go-chatlog/internal/dateutil"
	"github.com/alnah/go-chatlog/internal/epub"
	"github.com/alnah/go-chatlog/internal/pipeline"
)

// serializer renders cleaned messages into document bytes.
type serializer interface {
	serialize(ctx context.Context, messages []Message, input Input) (*serialized, error)
}

type serialized struct {
	data     []byte
	chapters int
}

// textSerializer emits "role：\ncontent" blocks.
type textSerializer struct{}

func (textSerializer) serialize(ctx context.Context, messages []Message, input Input) (*serialized, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := input.TextOutput
	if opts == nil {
		opts = DefaultTextOptions()
	}
	s := pipeline.TextSerializer{Separators: opts.Separators, MaxNewlines: opts.MaxNewlines}
	return &serialized{data: []byte(s.Serialize(messages))}, nil
}

// renderedBook is a cover plus chapter fragments ready for packaging.
type renderedBook struct {
	book     *Book
	css      string
	cover    string
	chapters []renderedChapter
}

type renderedChapter struct {
	number int
	title  string
	body   string
}

// renderBook partitions messages into chapters and executes the cover and
// chapter templates.
func (c *Converter) renderBook(ctx context.Context, messages []Message, input Input) (*renderedBook, error) {
	book := input.Book
	if book == nil {
		book = DefaultBook()
	}

	chapters, err := chapter.Partition(messages, chapter.Options{
		Mode:       book.ChapterMode,
		Size:       book.ChapterSize,
		UserMarker: book.UserMarker,
		UserTokens: book.UserTokens,
	})
	if err != nil {
		return nil, err
	}

	date, err := dateutil.ResolveDate(book.Date, c.cfg.now())
	if err != nil {
		return nil, err
	}

	var body pipeline.BodyRenderer = pipeline.PlainBody{MaxNewlines: book.MaxNewlines}
	if book.Markdown {
		body = pipeline.NewMarkdownBody(book.MaxNewlines)
	}
	classifier := pipeline.DefaultRoleClassifier()
	if book.UserTokens != nil {
		classifier.UserTokens = book.UserTokens
	}
	if book.UserMarker != "" {
		classifier.UserTokens = append([]string{book.UserMarker}, classifier.UserTokens...)
	}

	renderer, err := pipeline.NewFragmentRenderer(c.templates.Cover, c.templates.Chapter, body, classifier)
	if err != nil {
		return nil, err
	}

	cover, err := renderer.RenderCover(ctx, pipeline.CoverData{
		Title:        book.Title,
		Author:       book.Author,
		Description:  book.Description,
		Date:         date,
		MessageCount: len(messages),
		ChapterCount: len(chapters),
	})
	if err != nil {
		return nil, err
	}

	out := &renderedBook{
		book:     book,
		css:      c.cfg.resolvedStyle,
		cover:    cover,
		chapters: make([]renderedChapter, len(chapters)),
	}
	if book.Markdown {
		highlight, err := pipeline.HighlightCSS()
		if err != nil {
			return nil, err
		}
		out.css += "\n" + highlight
	}
	if input.CSS != "" {
		out.css += "\n" + input.CSS
	}
	for i, ch := range chapters {
		frag, err := renderer.RenderChapter(ctx, ch)
		if err != nil {
			return nil, err
		}
		out.chapters[i] = renderedChapter{number: ch.Number, title: ch.Title, body: frag}
	}
	return out, nil
}

// epubSerializer packages the rendered book with go-epub.
type epubSerializer struct {
	book *Converter
}

func (s *epubSerializer) serialize(ctx context.Context, messages []Message, input Input) (*serialized, error) {
	rb, err := s.book.renderBook(ctx, messages, input)
	if err != nil {
		return nil, wrapUnlessCanceled(ctx, ErrEPUBGeneration, err)
	}

	chapters := make([]epub.Chapter, len(rb.chapters))
	for i, ch := range rb.chapters {
		chapters[i] = epub.Chapter{Title: ch.title, Body: ch.body}
	}
	data, err := epub.Build(ctx, epub.Book{
		Metadata: epub.Metadata{
			Title:       rb.book.Title,
			Author:      rb.book.Author,
			Language:    rb.book.Language,
			Description: rb.book.Description,
			Identifier:  rb.book.Identifier,
		},
		CSS:      rb.css,
		Cover:    rb.cover,
		Chapters: chapters,
	})
	if err != nil {
		return nil, wrapUnlessCanceled(ctx, ErrEPUBGeneration, err)
	}
	return &serialized{data: data, chapters: len(chapters)}, nil
}

// htmlSerializer places the rendered book in one standalone page.
type htmlSerializer struct {
	book *Converter
}

func (s *htmlSerializer) serialize(ctx context.Context, messages []Message, input Input) (*serialized, error) {
	page, chapters, err := s.render(ctx, messages, input)
	if err != nil {
		return nil, wrapUnlessCanceled(ctx, ErrHTMLGeneration, err)
	}
	return &serialized{data: []byte(page), chapters: chapters}, nil
}

func (s *htmlSerializer) render(ctx context.Context, messages []Message, input Input) (string, int, error) {
	rb, err := s.book.renderBook(ctx, messages, input)
	if err != nil {
		return "", 0, err
	}

	doc := pipeline.Document{
		Title: rb.book.Title,
		Lang:  rb.book.Language,
		// #nosec G203 -- fragments come from html/template
		Cover:    template.HTML(rb.cover),
		Chapters: make([]pipeline.DocumentChapter, len(rb.chapters)),
		CSS:      rb.css,
	}
	for i, ch := range rb.chapters {
		doc.Chapters[i] = pipeline.DocumentChapter{
			Number: ch.number,
			Title:  ch.title,
			Body:   template.HTML(ch.body), // #nosec G203 -- rendered by html/template
		}
	}

	page, err := pipeline.RenderDocument(ctx, doc)
	if err != nil {
		return "", 0, err
	}
	return page, len(rb.chapters), nil
}

// pdfSerializer prints the HTML document with headless Chrome.
type pdfSerializer struct {
	html htmlSerializer
	pdf  pdfConverter
}

func (s *pdfSerializer) serialize(ctx context.Context, messages []Message, input Input) (*serialized, error) {
	page, chapters, err := s.html.render(ctx, messages, input)
	if err != nil {
		return nil, wrapUnlessCanceled(ctx, ErrPDFGeneration, err)
	}

	data, err := s.pdf.ToPDF(ctx, page, &pdfOptions{Page: input.Page, Footer: input.Footer})
	if err != nil {
		return nil, wrapUnlessCanceled(ctx, ErrPDFGeneration, err)
	}
	return &serialized{data: data, chapters: chapters}, nil
}

// wrapUnlessCanceled tags err with sentinel, except when the context ended,
// in which case the context error is returned as is.
func wrapUnlessCanceled(ctx context.Context, sentinel, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
