// Package extractor runs the external video-extraction tool (yt-dlp or
// youtube-dl) and decodes its JSON-lines output.
//
// The package handles three concerns:
//
//  1. Invoking the tool with a fixed argument set, falling back to the
//     next tool name when one is unavailable
//  2. Reading the output line by line, stopping silently at the first
//     empty or malformed line
//  3. Modelling each entry as a typed Record with explicit optional fields
//
// # Invocation
//
//	inv := extractor.NewInvoker(extractor.DefaultTools, extractor.NewYtdlpRunner(""))
//	res, err := inv.Invoke(ctx, url)
//	if errors.Is(err, extractor.ErrUnavailable) {
//	    // neither yt-dlp nor youtube-dl could be run
//	}
//	for _, rec := range res.Records {
//	    fmt.Println(rec.EntryID(), rec.Title)
//	}
//
// The tool is run as:
//
//	<tool> --flat-playlist --dump-json \
//	    --format "bestvideo[height<=1080]+bestaudio/best[height<=1080]" \
//	    --write-subs --write-auto-subs -- "<url>"
//
// The argument vector actually used is reported in Invocation.Args.
package extractor
