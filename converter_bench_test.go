//go:build bench

package chatlog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// newBenchConverter returns a converter whose PDF backend does no work.
func newBenchConverter(b *testing.B) *Converter {
	b.Helper()
	conv, err := NewConverter(withPDFConverter(&mockPDFConverter{}), withClock(fixedTime))
	if err != nil {
		b.Fatalf("NewConverter() error = %v", err)
	}
	b.Cleanup(func() { _ = conv.Close() })
	return conv
}

// noisyTranscriptOf adds comments, details and markup to every message so the
// filter chain has work to do.
func noisyTranscriptOf(n int) string {
	var b strings.Builder
	for i := range n {
		if i%2 == 0 {
			fmt.Fprintf(&b, "您：問題 %d<!-- note -->\n", i+1)
		} else {
			fmt.Fprintf(&b, "AI：<details>推理</details><p>回答 %d</p><br>第二行\n\n\n\n結尾\n", i+1)
		}
	}
	return b.String()
}

// BenchmarkPrepare measures decoding, segmentation and filtering.
func BenchmarkPrepare(b *testing.B) {
	conv := newBenchConverter(b)
	ctx := context.Background()

	for _, n := range []int{10, 100, 1000} {
		raw := []byte(noisyTranscriptOf(n))
		filters := &Filters{HTMLComments: true, Details: true, HTMLTags: true, MaxNewlines: 2}

		b.Run(fmt.Sprintf("messages_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(raw)))
			for b.Loop() {
				if _, err := conv.Prepare(ctx, Input{Raw: raw, Filters: filters}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkConvert measures each output format over the same transcript.
// PDF uses the mock backend to isolate the pipeline from the browser.
func BenchmarkConvert(b *testing.B) {
	conv := newBenchConverter(b)
	ctx := context.Background()
	raw := []byte(transcriptOf(200))

	for _, format := range Formats() {
		b.Run(string(format), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := conv.Convert(ctx, Input{Raw: raw, Format: format}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkConvert_MarkdownBodies compares plain and Markdown message bodies.
func BenchmarkConvert_MarkdownBodies(b *testing.B) {
	conv := newBenchConverter(b)
	ctx := context.Background()
	raw := []byte(strings.Repeat("您：**粗體** 與 `code`\nAI：- 一\n- 二\n\n```go\nfmt.Println(1)\n```\n", 50))

	for _, markdown := range []bool{false, true} {
		b.Run(fmt.Sprintf("markdown_%v", markdown), func(b *testing.B) {
			book := DefaultBook()
			book.Markdown = markdown
			b.ReportAllocs()
			for b.Loop() {
				if _, err := conv.Convert(ctx, Input{Raw: raw, Format: FormatHTML, Book: book}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkResolvePoolSize benchmarks pool size calculation.
func BenchmarkResolvePoolSize(b *testing.B) {
	for _, w := range []int{0, 1, 4, MaxPoolSize} {
		b.Run(fmt.Sprintf("workers_%d", w), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = ResolvePoolSize(w)
			}
		})
	}
}

// BenchmarkConverterPoolContention measures acquire/release with more
// goroutines than converters.
func BenchmarkConverterPoolContention(b *testing.B) {
	const poolSize = 4

	for _, g := range []int{4, 16} {
		b.Run(fmt.Sprintf("goroutines_%d", g), func(b *testing.B) {
			pool := NewConverterPool(poolSize, withPDFConverter(&mockPDFConverter{}))
			b.Cleanup(func() { _ = pool.Close() })

			b.ReportAllocs()
			b.ResetTimer()

			var wg sync.WaitGroup
			per := b.N / g
			for range g {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range per {
						conv, err := pool.Acquire()
						if err != nil {
							b.Error(err)
							return
						}
						pool.Release(conv)
					}
				}()
			}
			wg.Wait()
		})
	}
}
