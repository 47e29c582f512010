// Package pipeline renders cleaned transcript messages into documents.
//
// It covers every output representation short of packaging:
//   - flat text serialization
//   - message bodies, either escaped plain text or Markdown via Goldmark
//     sanitized with bluemonday
//   - role classification for styling
//   - cover and chapter fragments from html/template sets
//   - standalone HTML documents with injected CSS
//
// EPUB packaging lives in internal/epub and PDF printing in the root chatlog
// package, which drives headless Chrome (go-rod) over the HTML document.
package pipeline
