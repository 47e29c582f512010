// Package dateutil resolves user-facing date values such as "auto" and
// "auto:YYYY-MM-DD HH:mm" into formatted timestamps.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD HH:mm:ss"

type dateToken struct {
	token  string
	layout string
}

// dateTokens maps format tokens to Go layout components, longest first so
// that matching is greedy. Tokens are case-sensitive: MM is the month and mm
// the minute.
var dateTokens = []dateToken{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets are named formats accepted after "auto:".
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"datetime": "YYYY-MM-DD HH:mm:ss",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"zh":       "YYYY[年]M[月]D[日]",
}

// ParseDateFormat converts a token format into a Go time layout.
// Tokens: YYYY YY MMMM MMM MM M DD D HH mm ss. Text in brackets is copied
// literally, so "[Date]" stays "Date"; any other character is kept as is.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	layout.Grow(len(format) + 10)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			layout.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		if tok, ok := matchToken(format[i:]); ok {
			layout.WriteString(tok.layout)
			i += len(tok.token)
			continue
		}

		layout.WriteByte(format[i])
		i++
	}

	return layout.String(), nil
}

func matchToken(s string) (dateToken, bool) {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			return t, true
		}
	}
	return dateToken{}, false
}

// ResolveDate formats t according to value:
//   - "auto": DefaultDateFormat
//   - "auto:FORMAT": a token format or a preset name (case-insensitive)
//   - anything else is returned unchanged
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)

	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	format := DefaultDateFormat
	if lower != "auto" {
		rest, ok := strings.CutPrefix(value, value[:4]+":")
		if !ok {
			return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		if rest == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		format = rest
		if preset, ok := DatePresets[strings.ToLower(rest)]; ok {
			format = preset
		}
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
