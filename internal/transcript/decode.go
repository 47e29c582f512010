package transcript

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names the character set a transcript was decoded from.
type Encoding string

// Encodings tried by Decode, in order.
const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingBig5   Encoding = "big5"
	EncodingLatin1 Encoding = "latin-1"
)

// Decode converts raw transcript bytes to text.
//
// A leading byte-order mark selects UTF-8 or UTF-16 and is stripped. Without
// one, the bytes are accepted as UTF-8 when valid, then as Big5 when every
// byte sequence maps to a character, and finally as ISO-8859-1, which maps
// every byte. Decode therefore always succeeds.
func Decode(data []byte) (string, Encoding) {
	if text, ok := decodeUnicode(data); ok {
		return text, EncodingUTF8
	}
	if text, ok := decodeStrict(traditionalchinese.Big5, data); ok {
		return text, EncodingBig5
	}
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(out), EncodingLatin1
}

// decodeUnicode honours a UTF-8 or UTF-16 BOM and otherwise passes the bytes
// through, accepting the result only if it is valid UTF-8.
func decodeUnicode(data []byte) (string, bool) {
	dec := unicode.BOMOverride(encoding.Nop.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil || !utf8.Valid(out) {
		return "", false
	}
	return string(out), true
}

// decodeStrict decodes with enc and rejects output containing replacement
// characters, which x/text substitutes for undecodable sequences.
func decodeStrict(enc encoding.Encoding, data []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	text := string(out)
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", false
	}
	return text, true
}
