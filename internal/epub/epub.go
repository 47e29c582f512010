// Package epub packages rendered chat fragments into an EPUB book.
//
// Container layout, manifest, navigation documents and zipping are handled by
// go-epub; this package maps a cover, a stylesheet and chapter fragments onto
// its sections in reading order.
package epub

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	goepub "github.com/go-shiori/go-epub"
	"github.com/google/uuid"
)

// ErrPackaging indicates the EPUB container could not be produced.
var ErrPackaging = errors.New("EPUB packaging failed")

// CoverTitle is the navigation label of the cover section.
const CoverTitle = "封面"

const (
	cssFile   = "chatlog.css"
	coverFile = "cover.xhtml"
)

// Metadata describes the book.
type Metadata struct {
	Title       string
	Author      string
	Language    string
	Description string
	// Identifier defaults to a name-based UUID derived from the book content.
	Identifier string
}

// Chapter is a rendered chapter fragment.
type Chapter struct {
	Title string
	Body  string
}

// Book is everything placed in the container. The spine is the cover
// followed by the chapters in order.
type Book struct {
	Metadata Metadata
	CSS      string
	Cover    string
	Chapters []Chapter
}

// Build writes the book to memory and returns the EPUB bytes.
func Build(ctx context.Context, book Book) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, err := goepub.NewEpub(book.Metadata.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	e.SetAuthor(book.Metadata.Author)
	if book.Metadata.Language != "" {
		e.SetLang(book.Metadata.Language)
	}
	if book.Metadata.Description != "" {
		e.SetDescription(book.Metadata.Description)
	}
	id := book.Metadata.Identifier
	if id == "" {
		id = Identifier(book)
	}
	e.SetIdentifier(id)

	cssPath := ""
	if book.CSS != "" {
		cssPath, err = e.AddCSS(cssDataURL(book.CSS), cssFile)
		if err != nil {
			return nil, fmt.Errorf("%w: adding stylesheet: %v", ErrPackaging, err)
		}
	}

	if _, err := e.AddSection(book.Cover, CoverTitle, coverFile, cssPath); err != nil {
		return nil, fmt.Errorf("%w: adding cover: %v", ErrPackaging, err)
	}

	for i, ch := range book.Chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := fmt.Sprintf("chapter_%04d.xhtml", i+1)
		if _, err := e.AddSection(ch.Body, ch.Title, name, cssPath); err != nil {
			return nil, fmt.Errorf("%w: adding chapter %d: %v", ErrPackaging, i+1, err)
		}
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPackaging, err)
	}
	return buf.Bytes(), nil
}

// Identifier returns a stable urn:uuid for the book so that re-exporting the
// same transcript yields the same identifier.
func Identifier(book Book) string {
	var seed strings.Builder
	seed.WriteString(book.Metadata.Title)
	seed.WriteByte(0)
	seed.WriteString(book.Metadata.Author)
	for _, ch := range book.Chapters {
		seed.WriteByte(0)
		seed.WriteString(ch.Body)
	}
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed.String())).String()
}

func cssDataURL(css string) string {
	return "data:text/css;base64," + base64.StdEncoding.EncodeToString([]byte(css))
}
