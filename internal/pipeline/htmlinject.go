package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-chatlog/internal/chapter"
)

// Sentinel errors for template rendering.
var (
	ErrCoverRender   = errors.New("cover template rendering failed")
	ErrChapterRender = errors.New("chapter template rendering failed")
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + SanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// SanitizeCSS escapes "</" so the stylesheet cannot close its <style> block.
func SanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// CoverData holds the values shown on the cover page.
type CoverData struct {
	Title        string
	Author       string
	Description  string
	Date         string
	MessageCount int
	ChapterCount int
}

// MessageView is a message prepared for a chapter template.
type MessageView struct {
	Role  string
	Class string
	Body  template.HTML
}

// ChapterView is a chapter prepared for a chapter template.
type ChapterView struct {
	Number   int
	Title    string
	Messages []MessageView
}

// FragmentRenderer renders cover and chapter fragments from a template set.
type FragmentRenderer struct {
	cover      *template.Template
	chapter    *template.Template
	body       BodyRenderer
	classifier RoleClassifier
}

// NewFragmentRenderer parses the cover and chapter templates.
// A nil body renderer means PlainBody without a newline cap.
func NewFragmentRenderer(coverTmpl, chapterTmpl string, body BodyRenderer, classifier RoleClassifier) (*FragmentRenderer, error) {
	cover, err := template.New("cover").Parse(coverTmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing cover template: %w", err)
	}
	chap, err := template.New("chapter").Parse(chapterTmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing chapter template: %w", err)
	}
	if body == nil {
		body = PlainBody{}
	}
	return &FragmentRenderer{cover: cover, chapter: chap, body: body, classifier: classifier}, nil
}

// RenderCover executes the cover template.
func (r *FragmentRenderer) RenderCover(ctx context.Context, data CoverData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.cover.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCoverRender, err)
	}
	return buf.String(), nil
}

// RenderChapter renders every message body and executes the chapter template.
func (r *FragmentRenderer) RenderChapter(ctx context.Context, ch chapter.Chapter) (string, error) {
	view := ChapterView{
		Number:   ch.Number,
		Title:    ch.Title,
		Messages: make([]MessageView, len(ch.Messages)),
	}
	for i, m := range ch.Messages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		body, err := r.body.RenderBody(ctx, m.Content)
		if err != nil {
			return "", fmt.Errorf("%w: message %d: %v", ErrChapterRender, i+1, err)
		}
		view.Messages[i] = MessageView{
			Role:  m.Role,
			Class: r.classifier.Classify(m.Role),
			Body:  body,
		}
	}

	var buf bytes.Buffer
	if err := r.chapter.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChapterRender, err)
	}
	return buf.String(), nil
}
