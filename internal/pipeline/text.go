package pipeline

import (
	"strings"

	"github.com/alnah/go-chatlog/internal/filter"
	"github.com/alnah/go-chatlog/internal/transcript"
)

// RoleSeparator follows the role name in text output.
const RoleSeparator = "："

// TextSerializer renders messages as flat text:
//
//	role：
//	content
//
// with an optional "---" line after each message.
type TextSerializer struct {
	Separators  bool
	MaxNewlines int
}

// Serialize renders messages, caps newline runs when MaxNewlines > 0 and
// trims the result.
func (s TextSerializer) Serialize(messages []transcript.Message) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.Role)
		b.WriteString(RoleSeparator)
		b.WriteString("\n")
		b.WriteString(m.Content)
		b.WriteString("\n\n")
		if s.Separators {
			b.WriteString("---\n\n")
		}
	}
	return strings.TrimSpace(filter.CapNewlines(b.String(), s.MaxNewlines))
}
