// Package chapter groups transcript messages into e-book chapters.
package chapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-chatlog/internal/transcript"
)

// Mode selects how messages are grouped.
type Mode string

// Chapter modes.
const (
	// ModeBatch groups a fixed number of messages per chapter.
	ModeBatch Mode = "batch"
	// ModePerMessage makes every message its own chapter.
	ModePerMessage Mode = "per-message"
	// ModeUserStart opens a new chapter at every user message.
	ModeUserStart Mode = "user-start"
)

// Defaults and limits.
const (
	DefaultSize   = 50
	PreviewLength = 20
)

// DefaultUserTokens identify user roles in ModeUserStart when no marker is
// configured.
var DefaultUserTokens = []string{"您", "你", "玩家", "使用者", "User", "user", "Player"}

var (
	ErrUnknownMode = errors.New("unknown chapter mode")
	ErrInvalidSize = errors.New("chapter size must be positive")
)

// Modes lists every supported mode.
func Modes() []Mode {
	return []Mode{ModeBatch, ModePerMessage, ModeUserStart}
}

// Validate reports whether m is a supported mode. The empty mode is valid
// and means ModeBatch.
func (m Mode) Validate() error {
	switch m {
	case "", ModeBatch, ModePerMessage, ModeUserStart:
		return nil
	}
	names := make([]string, 0, 3)
	for _, mode := range Modes() {
		names = append(names, string(mode))
	}
	return fmt.Errorf("%w: %q (available: %s)", ErrUnknownMode, string(m), strings.Join(names, ", "))
}

// Chapter is a numbered, titled group of consecutive messages.
type Chapter struct {
	Number   int
	Title    string
	Messages []transcript.Message
}

// Options configures Partition.
type Options struct {
	Mode Mode
	// Size is the number of messages per chapter in ModeBatch.
	// Zero means DefaultSize.
	Size int
	// UserMarker matches a user role by prefix in ModeUserStart.
	UserMarker string
	// UserTokens match a user role by substring in ModeUserStart.
	// Nil means DefaultUserTokens.
	UserTokens []string
}

// Partition splits messages into chapters. Concatenating the chapters'
// messages always yields the input in order. An empty input yields no
// chapters.
func Partition(messages []transcript.Message, opts Options) ([]Chapter, error) {
	if err := opts.Mode.Validate(); err != nil {
		return nil, err
	}
	if opts.Size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, opts.Size)
	}
	if len(messages) == 0 {
		return nil, nil
	}

	switch opts.Mode {
	case ModePerMessage:
		return perMessage(messages), nil
	case ModeUserStart:
		tokens := opts.UserTokens
		if tokens == nil {
			tokens = DefaultUserTokens
		}
		return userStart(messages, opts.UserMarker, tokens), nil
	default:
		size := opts.Size
		if size == 0 {
			size = DefaultSize
		}
		return batch(messages, size), nil
	}
}

func batch(messages []transcript.Message, size int) []Chapter {
	chapters := make([]Chapter, 0, (len(messages)+size-1)/size)
	for start := 0; start < len(messages); start += size {
		end := min(start+size, len(messages))
		n := len(chapters) + 1
		chapters = append(chapters, Chapter{
			Number:   n,
			Title:    fmt.Sprintf("第 %d 章（%d-%d）", n, start+1, end),
			Messages: messages[start:end:end],
		})
	}
	return chapters
}

func perMessage(messages []transcript.Message) []Chapter {
	chapters := make([]Chapter, len(messages))
	for i := range messages {
		m := messages[i]
		chapters[i] = Chapter{
			Number:   i + 1,
			Title:    fmt.Sprintf("%d. %s：%s", i+1, m.Role, Preview(m.Content, PreviewLength)),
			Messages: messages[i : i+1 : i+1],
		}
	}
	return chapters
}

func userStart(messages []transcript.Message, marker string, tokens []string) []Chapter {
	var chapters []Chapter
	start := 0
	emit := func(end int) {
		n := len(chapters) + 1
		chapters = append(chapters, Chapter{
			Number:   n,
			Title:    fmt.Sprintf("第 %d 章", n),
			Messages: messages[start:end:end],
		})
		start = end
	}

	for i, m := range messages {
		if i > start && IsUserRole(m.Role, marker, tokens) {
			emit(i)
		}
	}
	emit(len(messages))
	return chapters
}

// IsUserRole reports whether role starts with marker or contains any of
// tokens.
func IsUserRole(role, marker string, tokens []string) bool {
	if marker != "" && strings.HasPrefix(role, marker) {
		return true
	}
	for _, t := range tokens {
		if t != "" && strings.Contains(role, t) {
			return true
		}
	}
	return false
}

// Preview returns the first n runes of s on a single line, followed by
// "..." when s was longer.
func Preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
