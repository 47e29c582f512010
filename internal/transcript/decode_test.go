package transcript

import (
	"testing"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	big5, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte("您：你好"))
	if err != nil {
		t.Fatalf("encoding Big5 fixture: %v", err)
	}
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("User: hi"))
	if err != nil {
		t.Fatalf("encoding UTF-16 fixture: %v", err)
	}

	tests := []struct {
		name         string
		data         []byte
		want         string
		wantEncoding Encoding
	}{
		{
			name:         "plain UTF-8",
			data:         []byte("您：你好"),
			want:         "您：你好",
			wantEncoding: EncodingUTF8,
		},
		{
			name:         "UTF-8 BOM is stripped",
			data:         append([]byte{0xEF, 0xBB, 0xBF}, "User: hi"...),
			want:         "User: hi",
			wantEncoding: EncodingUTF8,
		},
		{
			name:         "UTF-16 with BOM",
			data:         utf16,
			want:         "User: hi",
			wantEncoding: EncodingUTF8,
		},
		{
			name:         "Big5",
			data:         big5,
			want:         "您：你好",
			wantEncoding: EncodingBig5,
		},
		{
			name:         "latin-1 fallback maps every byte",
			data:         []byte{'c', 'a', 'f', 0xE9, 0xFF},
			want:         "caféÿ",
			wantEncoding: EncodingLatin1,
		},
		{
			name:         "empty input",
			data:         nil,
			want:         "",
			wantEncoding: EncodingUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, enc := Decode(tt.data)
			if got != tt.want {
				t.Errorf("Decode() text = %q, want %q", got, tt.want)
			}
			if enc != tt.wantEncoding {
				t.Errorf("Decode() encoding = %q, want %q", enc, tt.wantEncoding)
			}
		})
	}
}
