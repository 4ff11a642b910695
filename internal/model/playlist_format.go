package model

import (
	"strings"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS

	// PlaylistFormatXSPF creates .xspf playlist files (VLC's native format).
	PlaylistFormatXSPF

	// PlaylistFormatJSON creates .json dumps of the resolved items.
	PlaylistFormatJSON
)

// ParsePlaylistFormat maps a format name ("m3u", "pls", "xspf", "json") to a
// PlaylistFormat. Unknown names fall back to M3U.
func ParsePlaylistFormat(name string) PlaylistFormat {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "pls":
		return PlaylistFormatPLS
	case "xspf":
		return PlaylistFormatXSPF
	case "json":
		return PlaylistFormatJSON
	default:
		return PlaylistFormatM3U
	}
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatPLS:
		return ".pls"
	case PlaylistFormatXSPF:
		return ".xspf"
	case PlaylistFormatJSON:
		return ".json"
	default:
		return ".m3u"
	}
}

// ContentType returns the MIME type served for the playlist format.
func (pf PlaylistFormat) ContentType() string {
	switch pf {
	case PlaylistFormatPLS:
		return "audio/x-scpls"
	case PlaylistFormatXSPF:
		return "application/xspf+xml"
	case PlaylistFormatJSON:
		return "application/json"
	default:
		return "audio/x-mpegurl"
	}
}

func (pf PlaylistFormat) String() string {
	return strings.TrimPrefix(pf.Extension(), ".")
}
