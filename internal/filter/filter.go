// Package filter provides stateless content transforms applied to transcript
// messages between segmentation and serialization.
//
// Filters never modify their input slice: each returns a new slice with the
// same roles in the same order.
package filter

import (
	"regexp"
	"strings"

	"github.com/alnah/go-chatlog/internal/transcript"
)

// Filter transforms message content.
type Filter interface {
	Name() string
	Apply(messages []transcript.Message) []transcript.Message
}

// Compile-time interface checks.
var (
	_ Filter = CommentFilter{}
	_ Filter = TagFilter{}
	_ Filter = DetailsFilter{}
	_ Filter = NewlineCapFilter{}
	_ Filter = (*MarkdownFilter)(nil)
	_ Filter = Chain(nil)
)

var (
	commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
	detailsPattern = regexp.MustCompile(`(?s)<details>.*?</details>`)
	brPattern      = regexp.MustCompile(`(?i)<br\s*/?>`)
	paraEndPattern = regexp.MustCompile(`(?i)</p>`)
	anyTagPattern  = regexp.MustCompile(`<[^>]+>`)
)

// CommentFilter removes HTML comments, including multi-line ones.
type CommentFilter struct{}

func (CommentFilter) Name() string { return "html-comments" }

func (CommentFilter) Apply(messages []transcript.Message) []transcript.Message {
	return mapContent(messages, func(s string) string {
		return commentPattern.ReplaceAllString(s, "")
	})
}

// DetailsFilter removes <details> blocks together with their contents.
// Matching is case-sensitive.
type DetailsFilter struct{}

func (DetailsFilter) Name() string { return "details" }

func (DetailsFilter) Apply(messages []transcript.Message) []transcript.Message {
	return mapContent(messages, func(s string) string {
		return detailsPattern.ReplaceAllString(s, "")
	})
}

// TagFilter turns <br> and </p> into line breaks and strips every other tag.
type TagFilter struct{}

func (TagFilter) Name() string { return "html-tags" }

func (TagFilter) Apply(messages []transcript.Message) []transcript.Message {
	return mapContent(messages, StripTags)
}

// StripTags applies the TagFilter transform to a single string.
func StripTags(s string) string {
	s = brPattern.ReplaceAllString(s, "\n")
	s = paraEndPattern.ReplaceAllString(s, "\n")
	return anyTagPattern.ReplaceAllString(s, "")
}

// NewlineCapFilter collapses runs of more than Max newlines to exactly Max.
// The zero value caps at DefaultMaxNewlines; a negative Max leaves content
// unchanged.
type NewlineCapFilter struct {
	Max int
}

// DefaultMaxNewlines is the cap used when none is configured.
const DefaultMaxNewlines = 2

func (NewlineCapFilter) Name() string { return "newline-cap" }

func (f NewlineCapFilter) Apply(messages []transcript.Message) []transcript.Message {
	limit := f.Max
	if limit == 0 {
		limit = DefaultMaxNewlines
	}
	return mapContent(messages, func(s string) string {
		return CapNewlines(s, limit)
	})
}

// CapNewlines replaces every run of more than max consecutive '\n' with
// exactly max of them. max <= 0 returns s unchanged.
func CapNewlines(s string, max int) string {
	if max <= 0 || !strings.Contains(s, strings.Repeat("\n", max+1)) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	run := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			run++
			if run > max {
				continue
			}
		} else {
			run = 0
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Chain applies filters in order, feeding each one's output to the next.
type Chain []Filter

func (Chain) Name() string { return "chain" }

func (c Chain) Apply(messages []transcript.Message) []transcript.Message {
	out := mapContent(messages, func(s string) string { return s })
	for _, f := range c {
		out = f.Apply(out)
	}
	return out
}

// Names returns the names of the chained filters.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, f := range c {
		names[i] = f.Name()
	}
	return names
}

func mapContent(messages []transcript.Message, fn func(string) string) []transcript.Message {
	out := make([]transcript.Message, len(messages))
	for i, m := range messages {
		out[i] = transcript.Message{Role: m.Role, Content: fn(m.Content)}
	}
	return out
}
