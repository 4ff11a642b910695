// Package http provides the HTTP client used for probing pages and
// downloading side files (subtitles, cover art).
//
// The Client in this package handles:
//   - User-Agent headers
//   - Streaming bodies for the probe step
//   - File downloads with progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient("")
//
//	// Open a page for probing
//	body, err := client.Open(ctx, "https://www.youtube.com/watch?v=abc123")
//
//	// Download file with progress callback
//	client.DownloadFile(ctx, subURL, "/path/to/abc123_vtt.vtt", func(written, total int64) {
//	    fmt.Printf("%d bytes\n", written)
//	})
package http
