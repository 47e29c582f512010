// Package chatlog converts plain-text chat transcripts into flat text,
// EPUB e-books, standalone HTML pages and PDF documents.
//
// # Quick Start
//
// Create a converter, convert a transcript, and close when done:
//
//	conv, err := chatlog.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, chatlog.Input{
//	    Raw:          data,
//	    RolePrefixes: []string{"您：", "AI："},
//	    Format:       chatlog.FormatEPUB,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("dialogue.epub", result.Data, 0644)
//
// # Conversion Pipeline
//
//  1. Decoding: UTF-8 (with or without BOM), then Big5, then Latin-1
//  2. Segmentation: lines starting with a role prefix open a new message
//  3. Filtering: HTML comments, <details> blocks, HTML to Markdown, HTML tags,
//     newline runs
//  4. Serialization: text, or a cover plus chapters rendered from templates
//     and packaged as EPUB, HTML or PDF (headless Chrome via go-rod)
//
// Converter.Prepare runs the first three stages only and returns the
// messages before and after filtering.
//
// # Chapters
//
// Book formats group messages into chapters. Book.ChapterMode selects one of:
//
//   - batch: fixed windows of Book.ChapterSize messages (default 50)
//   - per-message: one chapter per message
//   - user-start: a new chapter at every user message
//
// # Custom Assets
//
// Override built-in styles and templates using AssetLoader:
//
//	loader, err := chatlog.NewAssetLoader("/path/to/assets")
//	conv, err := chatlog.NewConverter(chatlog.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── custom/
//	        ├── cover.html
//	        └── chapter.html
//
// # Browser Requirements
//
// Only FormatPDF needs Chrome/Chromium. The go-rod library downloads a
// managed Chromium instance on first use (~/.cache/rod/browser/).
// Set ROD_BROWSER_BIN to use a specific binary; containers and CI usually
// need the sandbox disabled, which happens automatically when CI=true or
// ROD_BROWSER_BIN is set.
package chatlog
