package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

// ErrDocumentRender indicates the standalone HTML document could not be built.
var ErrDocumentRender = errors.New("document rendering failed")

// DocumentChapter is a rendered chapter placed in a document.
type DocumentChapter struct {
	Number int
	Title  string
	Body   template.HTML
}

// Document holds the parts of a standalone HTML page.
type Document struct {
	Title    string
	Lang     string
	Cover    template.HTML
	Chapters []DocumentChapter
	CSS      string
}

// documentTemplate wraps rendered fragments in a complete XHTML-compatible
// page. A table of contents is emitted when there is more than one chapter.
var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8"/>
<title>{{.Title}}</title>
</head>
<body>
{{.Cover}}
{{if gt (len .Chapters) 1}}<nav class="toc">
<ol>
{{range .Chapters}}<li><a href="#chapter-{{.Number}}">{{.Title}}</a></li>
{{end}}</ol>
</nav>
{{end}}{{range .Chapters}}{{.Body}}
{{end}}</body>
</html>
`))

// RenderDocument assembles the document and injects its CSS into the head.
func RenderDocument(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc.Lang == "" {
		doc.Lang = "en"
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}

	injector := &CSSInjection{}
	return injector.InjectCSS(ctx, buf.String(), doc.CSS), nil
}
