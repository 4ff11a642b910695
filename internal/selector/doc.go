// Package selector chooses what to play for an extractor record: the main
// stream URL, an optional separate audio stream, and a subtitle track.
//
//	stream, ok := selector.SelectStream(rec)
//	if !ok {
//	    // nothing playable, skip the entry
//	}
//	sub, ok := selector.SelectSubtitle(rec, "en")
package selector
