// Package resolve provides the orchestration that turns a page URL into
// playlist items.
//
// # Manager
//
// The Manager coordinates the entire resolution:
//
//  1. Reject non-http(s) input, then probe the page
//  2. Run the extractor tool, falling back from yt-dlp to youtube-dl
//  3. Select a playable stream per entry
//  4. Download subtitles (optional, failures are non-fatal)
//  5. Assemble playlist items and cache artwork (optional)
//
// # Basic Usage
//
//	manager := resolve.NewManager(settings, func(event resolve.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	items, err := manager.Resolve(ctx, "https://www.youtube.com/watch?v=abc123")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	content, err := manager.CreatePlaylist(items)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(content)
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Without a callback, events go to a log/slog text logger on stderr.
// GetProgress returns the processed and total entry counts and is safe to
// poll from another goroutine.
package resolve
