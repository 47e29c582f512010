package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates Markdown to HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HighlightStyle is the chroma theme of code blocks in Markdown bodies.
const HighlightStyle = "github"

// MarkdownConverter abstracts Markdown to HTML fragment conversion.
type MarkdownConverter interface {
	ToFragment(ctx context.Context, content string) (string, error)
}

// Compile-time interface check.
var _ MarkdownConverter = (*GoldmarkConverter)(nil)

// classPattern restricts class attributes kept by the sanitizer to what the
// syntax highlighter emits.
var classPattern = regexp.MustCompile(`^[\w\s-]+$`)

// HighlightCSS returns the rules for the token classes the highlighter emits
// (.chroma, .kd, .nf, ...). Books with Markdown bodies append it to their
// stylesheet.
var HighlightCSS = sync.OnceValues(func() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(HighlightStyle)); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
})

// GoldmarkConverter converts Markdown message bodies to sanitized XHTML
// fragments.
type GoldmarkConverter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and
// class-based syntax highlighting. Raw HTML in messages is dropped by
// goldmark, images are kept only when embedded as data: URLs, and the output
// is passed through a bluemonday UGC policy.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(HighlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(remoteImageStripper{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(classPattern).OnElements("pre", "code", "span", "div")
	policy.AllowDataURIImages()

	return &GoldmarkConverter{md: md, policy: policy}
}

// ToFragment converts Markdown content to an XHTML fragment.
// Goldmark does not accept a context, so conversion runs in a goroutine and
// the caller returns early on cancellation.
func (c *GoldmarkConverter) ToFragment(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: c.policy.Sanitize(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// remoteImageStripper replaces images that are not data: URLs with their alt
// text. E-book readers refuse to fetch remote resources.
type remoteImageStripper struct{}

var dataScheme = []byte("data:")

func (remoteImageStripper) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var remote []*ast.Image
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := n.(*ast.Image); ok && entering &&
			!bytes.HasPrefix(bytes.ToLower(img.Destination), dataScheme) {
			remote = append(remote, img)
		}
		return ast.WalkContinue, nil
	})

	for _, img := range remote {
		parent := img.Parent()
		for child := img.FirstChild(); child != nil; {
			next := child.NextSibling()
			parent.InsertBefore(parent, img, child)
			child = next
		}
		parent.RemoveChild(parent, img)
	}
}
