package transcript

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for segmentation.
var (
	ErrFormatNotRecognized = errors.New("transcript format not recognized")
	ErrNoRolePrefixes      = errors.New("no role prefixes configured")
	ErrNoMessages          = errors.New("no line starts with a role prefix")
)

// DefaultRolePrefixes are used when no prefixes are configured.
var DefaultRolePrefixes = []string{
	"你：", "AI：", "玩家：", "系統：",
	"User:", "Assistant:", "Player:", "System:", "AI:",
}

// Unifier segments decoded transcript text into messages.
type Unifier interface {
	Unify(content string) ([]Message, error)
}

// UnrecognizedFormatError reports that no unifier produced any message.
// Cause holds the last underlying failure, if any.
type UnrecognizedFormatError struct {
	Cause error
}

func (e *UnrecognizedFormatError) Error() string {
	if e.Cause == nil {
		return ErrFormatNotRecognized.Error()
	}
	return fmt.Sprintf("%s: last error: %v", ErrFormatNotRecognized, e.Cause)
}

// Is makes errors.Is(err, ErrFormatNotRecognized) succeed.
func (e *UnrecognizedFormatError) Is(target error) bool {
	return target == ErrFormatNotRecognized
}

func (e *UnrecognizedFormatError) Unwrap() error {
	return e.Cause
}

// Compile-time interface check.
var _ Unifier = (*PrefixUnifier)(nil)

// PrefixUnifier starts a new message on every line that begins with one of
// its prefixes. The first matching prefix wins.
type PrefixUnifier struct {
	prefixes []string
}

// NewPrefixUnifier creates a unifier for the given prefixes.
// Empty prefixes are ignored since they would match every line.
func NewPrefixUnifier(prefixes []string) *PrefixUnifier {
	kept := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return &PrefixUnifier{prefixes: kept}
}

// Prefixes returns the prefixes the unifier matches, in order.
func (u *PrefixUnifier) Prefixes() []string {
	return append([]string(nil), u.prefixes...)
}

// Unify splits content into messages. Lines before the first prefixed line
// are dropped. The role is the matched prefix without its final character;
// the content is the rest of the first line plus all following lines,
// trimmed of surrounding whitespace.
func (u *PrefixUnifier) Unify(content string) ([]Message, error) {
	if len(u.prefixes) == 0 {
		return nil, ErrNoRolePrefixes
	}

	var (
		messages []Message
		role     string
		buf      []string
	)
	flush := func() {
		if role != "" {
			messages = append(messages, Message{
				Role:    role,
				Content: strings.TrimSpace(strings.Join(buf, "\n")),
			})
		}
	}

	for _, line := range splitLines(content) {
		prefix, ok := u.match(line)
		if !ok {
			if role != "" {
				buf = append(buf, line)
			}
			continue
		}
		flush()
		role = trimLastRune(prefix)
		buf = []string{strings.TrimSpace(line[len(prefix):])}
	}
	flush()

	if len(messages) == 0 {
		return nil, ErrNoMessages
	}
	return messages, nil
}

func (u *PrefixUnifier) match(line string) (string, bool) {
	for _, p := range u.prefixes {
		if strings.HasPrefix(line, p) {
			return p, true
		}
	}
	return "", false
}

// UnifyWith tries each unifier in order and returns the first non-empty
// result. A unifier that errors or panics is skipped; if none succeeds the
// returned *UnrecognizedFormatError carries the last failure.
func UnifyWith(unifiers []Unifier, content string) ([]Message, error) {
	var last error
	for _, u := range unifiers {
		messages, err := safeUnify(u, content)
		if err != nil {
			last = err
			continue
		}
		if len(messages) > 0 {
			return messages, nil
		}
	}
	return nil, &UnrecognizedFormatError{Cause: last}
}

func safeUnify(u Unifier, content string) (messages []Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unifier panic: %v", r)
		}
	}()
	return u.Unify(content)
}

// ParseRolePrefixes reads one prefix per line. Lines are trimmed and empty
// lines skipped.
func ParseRolePrefixes(text string) []string {
	var prefixes []string
	for _, line := range splitLines(text) {
		if p := strings.TrimSpace(line); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// splitLines splits s at every line boundary: \n, \r\n, \r, \v, \f, the
// file/group/record separators \x1c-\x1e, NEL (U+0085), and the Unicode
// line and paragraph separators (U+2028, U+2029). A trailing boundary does
// not produce an extra empty line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isLineBoundary(r) {
			i += size
			continue
		}
		lines = append(lines, s[start:i])
		i += size
		if r == '\r' && i < len(s) && s[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
