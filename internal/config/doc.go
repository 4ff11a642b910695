// Package config provides configuration management for ytdl-playlist.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to a PlaylistFormat for the playlist writer
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Tries yt-dlp, then youtube-dl
//	// English subtitles downloaded with curl
//	// Extended M3U output
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// The format follows the extension: ".yaml" and ".yml" are YAML, anything
// else is JSON.
//
// # Saving Settings
//
//	settings.SubtitleLanguage = "de"
//	err := settings.Save("/path/to/config.json")
package config
