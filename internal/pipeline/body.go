package pipeline

import (
	"context"
	"html"
	"html/template"
	"strings"

	"github.com/alnah/go-chatlog/internal/filter"
)

// BodyRenderer renders a message's content as an XHTML fragment.
type BodyRenderer interface {
	RenderBody(ctx context.Context, content string) (template.HTML, error)
}

// Compile-time interface checks.
var (
	_ BodyRenderer = PlainBody{}
	_ BodyRenderer = (*MarkdownBody)(nil)
)

// PlainBody escapes content, caps newline runs at MaxNewlines (when > 0) and
// turns the remaining newlines into <br/>.
type PlainBody struct {
	MaxNewlines int
}

func (b PlainBody) RenderBody(_ context.Context, content string) (template.HTML, error) {
	escaped := html.EscapeString(filter.CapNewlines(content, b.MaxNewlines))
	// #nosec G203 -- content is escaped above
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>")), nil
}

// MarkdownBody renders content as Markdown.
type MarkdownBody struct {
	Converter   MarkdownConverter
	MaxNewlines int
}

// NewMarkdownBody creates a MarkdownBody backed by Goldmark.
func NewMarkdownBody(maxNewlines int) *MarkdownBody {
	return &MarkdownBody{Converter: NewGoldmarkConverter(), MaxNewlines: maxNewlines}
}

func (b *MarkdownBody) RenderBody(ctx context.Context, content string) (template.HTML, error) {
	out, err := b.Converter.ToFragment(ctx, filter.CapNewlines(content, b.MaxNewlines))
	if err != nil {
		return "", err
	}
	// #nosec G203 -- output is sanitized by the converter
	return template.HTML(out), nil
}
