// Package model defines the core data structures used throughout
// ytdl-playlist.
//
// # Item
//
// Item is one playlist entry handed to the media player. Its fields mirror
// the player's playlist-item schema (path, name, title, artist, ...), plus
// a list of player options and a text-only metadata map:
//
//	item := &model.Item{Path: "https://example.com/video.mp4", Name: "Video"}
//	item.AddOption("start-time=0")
//
// # Stream
//
// Stream is the result of format selection: the main media URL and, when
// the extractor returned separate video and audio streams, the URL of the
// audio stream to attach as an input slave.
//
// # Subtitle
//
// Subtitle is a selected subtitle track (language, extension and remote URL).
package model
