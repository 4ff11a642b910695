// Package playlist turns extractor records into playlist items and renders
// them as playlist files.
//
// # Item Assembly
//
// Assemble is a pure mapping from a decoded record and its selected stream:
//
//	stream, ok := selector.SelectStream(rec)
//	item := playlist.Assemble(rec, stream, subtitlePath, pageURL)
//
// Derived fields:
//   - date: release_year, else the first four characters of release_date,
//     else of upload_date
//   - genre: genre, else the first category
//   - arturl: thumbnail, else the last entry of thumbnails
//
// # Playlist Generation
//
//	creator := playlist.NewPlaylistCreator(model.PlaylistFormatXSPF, false)
//	content, err := creator.CreatePlaylist(items)
//
// Supported formats:
//   - M3U (with optional extended info and #EXTVLCOPT options)
//   - PLS
//   - XSPF (options as vlc:option extensions)
//   - JSON (full items including metadata)
package playlist
