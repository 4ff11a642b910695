// Package probe implements the player's probe step: a cheap look at the
// first bytes of a resource to decide whether the extractor should handle it.
//
// Web pages (documents starting with "<!doctype", ignoring case and
// whitespace) served over http or https are claimed; media streams and
// other schemes are left to the player.
//
//	r := bufio.NewReaderSize(resp.Body, probe.MaxPeek)
//	if probe.Probe("https", r) {
//	    // hand the URL to the extractor
//	}
package probe
