package filter

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/alnah/go-chatlog/internal/transcript"
)

// MarkdownFilter rewrites HTML found in message content as Markdown.
// Content without any tag is left untouched, and content that fails to
// convert is kept as is.
type MarkdownFilter struct {
	converter *md.Converter
}

// NewMarkdownFilter creates a MarkdownFilter using GitHub-flavoured output.
func NewMarkdownFilter() *MarkdownFilter {
	conv := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		CodeBlockStyle:   "fenced",
		BulletListMarker: "-",
	})
	return &MarkdownFilter{converter: conv}
}

func (*MarkdownFilter) Name() string { return "html-to-markdown" }

func (f *MarkdownFilter) Apply(messages []transcript.Message) []transcript.Message {
	return mapContent(messages, f.convert)
}

func (f *MarkdownFilter) convert(s string) string {
	if !anyTagPattern.MatchString(s) {
		return s
	}
	out, err := f.converter.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(out)
}
