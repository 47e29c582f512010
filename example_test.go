package chatlog_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	chatlog "github.com/alnah/go-chatlog"
)

// Example converts a transcript to flat text.
func Example() {
	conv, err := chatlog.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), chatlog.Input{
		Text:         "您：今天天氣如何？\nAI：晴朗。\n適合散步。",
		RolePrefixes: []string{"您：", "AI："},
		Format:       chatlog.FormatText,
		TextOutput:   &chatlog.TextOptions{},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(string(result.Data))
	// Output:
	// 您：
	// 今天天氣如何？
	//
	// AI：
	// 晴朗。
	// 適合散步。
}

// Example_epub builds an e-book with one chapter per user turn.
func Example_epub() {
	conv, err := chatlog.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	book := chatlog.DefaultBook()
	book.ChapterMode = chatlog.ChapterUserStart

	result, err := conv.Convert(context.Background(), chatlog.Input{
		Text:         "您：第一個問題\nAI：回答一\n您：第二個問題\nAI：回答二",
		RolePrefixes: []string{"您：", "AI："},
		Format:       chatlog.FormatEPUB,
		Book:         book,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%s, %d messages, %d chapters\n", result.MediaType(), result.Messages, result.Chapters)
	// Output: application/epub+zip, 4 messages, 2 chapters
}

// Example_filters shows the cleaning stages on their own.
func Example_filters() {
	conv, err := chatlog.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	tr, err := conv.Prepare(context.Background(), chatlog.Input{
		Text:         "AI：答案<!-- hidden -->是<b>四十二</b><details>推理過程</details>",
		RolePrefixes: []string{"AI："},
		Filters:      &chatlog.Filters{HTMLComments: true, Details: true, HTMLTags: true},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(tr.Cleaned[0].Content)
	// Output: 答案是四十二
}

// Example_unrecognizedFormat shows the error for text without role prefixes.
func Example_unrecognizedFormat() {
	conv, err := chatlog.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	_, err = conv.Convert(context.Background(), chatlog.Input{
		Text:         "no speakers in this file",
		RolePrefixes: []string{"您：", "AI："},
	})
	fmt.Println(errors.Is(err, chatlog.ErrFormatNotRecognized))
	// Output: true
}

// ExampleConverterPool demonstrates parallel batch processing.
func ExampleConverterPool() {
	pool := chatlog.NewConverterPool(2)

	transcripts := []string{
		"您：第一份\nAI：收到",
		"您：第二份\nAI：收到",
	}

	results := make(chan bool, len(transcripts))
	var wg sync.WaitGroup

	for _, text := range transcripts {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				results <- false
				return
			}
			defer pool.Release(conv)

			result, err := conv.Convert(context.Background(), chatlog.Input{
				Text:         text,
				RolePrefixes: []string{"您：", "AI："},
				Format:       chatlog.FormatHTML,
			})
			results <- err == nil && strings.Contains(string(result.Data), "收到")
		}(text)
	}

	wg.Wait()
	_ = pool.Close()

	success := 0
	for range transcripts {
		if <-results {
			success++
		}
	}
	fmt.Printf("Processed %d transcripts\n", success)
	// Output: Processed 2 transcripts
}

// ExampleNewAssetLoader demonstrates loading custom assets.
func ExampleNewAssetLoader() {
	// An empty path uses the embedded assets only.
	loader, err := chatlog.NewAssetLoader("")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	conv, err := chatlog.NewConverter(
		chatlog.WithAssetLoader(loader),
		chatlog.WithStyle("night"),
		chatlog.WithTemplateSet("minimal"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), chatlog.Input{
		Text:   "AI：晚安",
		Format: chatlog.FormatHTML,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(string(result.Data), "晚安"))
	// Output: true
}
