// Package subtitle downloads the selected subtitle track to local disk so
// the player can load it with a sub-file option.
//
// # Directory
//
// DirResolver picks the first writable directory among the user's
// Documents folder and the OS temporary directory:
//
//	dirs := subtitle.NewDirResolver("")
//	dir, err := dirs.Resolve()
//
// # Downloaders
//
// CurlDownloader runs an external curl process and waits for its exit
// status; HTTPDownloader uses the in-process HTTP client.
//
// # Fetching
//
//	f := subtitle.NewFetcher(dirs, subtitle.NewCurlDownloader(""))
//	path, err := f.Fetch(ctx, rec.EntryID(), sub)
//	if err != nil {
//	    // non-fatal: emit the item without subtitles
//	}
package subtitle
