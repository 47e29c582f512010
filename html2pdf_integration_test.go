//go:build integration

package chatlog

import (
	"bytes"
	"context"
	"testing"
)

func assertValidPDF(t *testing.T, data []byte) {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("data does not have PDF magic bytes, got prefix: %q", data[:min(10, len(data))])
	}
	if len(data) < 100 {
		t.Errorf("PDF data suspiciously small: %d bytes", len(data))
	}
}

// TestRodConverter_ToPDF_Integration renders through a real browser.
// Rod downloads Chromium on first run if none is found.
func TestRodConverter_ToPDF_Integration(t *testing.T) {
	t.Parallel()

	conv := newRodConverter(testTimeout)
	t.Cleanup(func() { _ = conv.Close() })

	html := `<!DOCTYPE html><html lang="zh-TW"><head><meta charset="utf-8"/></head>
<body><div class="message user"><p class="role">您</p><div class="content">你好</div></div></body></html>`

	data, err := conv.ToPDF(context.Background(), html, &pdfOptions{
		Page:   &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 1},
		Footer: &Footer{ShowPageNumber: true, Text: "對話記錄"},
	})
	if err != nil {
		t.Fatalf("ToPDF() unexpected error: %v", err)
	}
	assertValidPDF(t, data)
}

func TestConvert_PDF_Integration(t *testing.T) {
	t.Parallel()

	conv := acquireConverter(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	result, err := conv.Convert(ctx, Input{
		Text:         "您：你好\nAI：哈囉，有什麼可以幫忙的嗎？\n您：請整理成 PDF",
		RolePrefixes: []string{"您：", "AI："},
		Format:       FormatPDF,
		Book:         &Book{Title: "測試", ChapterMode: ChapterUserStart},
	})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}
	assertValidPDF(t, result.Data)
	if result.Chapters != 2 {
		t.Errorf("Chapters = %d, want 2", result.Chapters)
	}
}

func TestConvert_PDF_CanceledDuringRender_Integration(t *testing.T) {
	t.Parallel()

	conv := acquireConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, Input{Text: "您：嗨", RolePrefixes: []string{"您："}, Format: FormatPDF})
	if err == nil {
		t.Fatal("Convert() with canceled context should fail")
	}
}
