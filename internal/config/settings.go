package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/ytdl-playlist/internal/extractor"
	"github.com/handiism/ytdl-playlist/internal/model"
	"gopkg.in/yaml.v3"
)

// Subtitle downloader names.
const (
	SubtitleDownloaderCurl = "curl"
	SubtitleDownloaderHTTP = "http"
)

// Settings holds all configuration options.
type Settings struct {
	// Extractor settings
	ExtractorTools []string `json:"extractor_tools" yaml:"extractor_tools"`
	FormatSelector string   `json:"format_selector" yaml:"format_selector"`
	SkipProbe      bool     `json:"skip_probe" yaml:"skip_probe"`

	// Subtitle settings
	Subtitles          bool   `json:"subtitles" yaml:"subtitles"`
	SubtitleLanguage   string `json:"subtitle_language" yaml:"subtitle_language"`
	SubtitleDownloader string `json:"subtitle_downloader" yaml:"subtitle_downloader"` // curl, http
	CurlPath           string `json:"curl_path" yaml:"curl_path"`
	SubtitleDir        string `json:"subtitle_dir" yaml:"subtitle_dir"`

	// Playlist settings
	PlaylistFormat string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls, xspf, json
	M3UExtended    bool   `json:"m3u_extended" yaml:"m3u_extended"`

	// Cover art settings
	CacheArtwork   bool `json:"cache_artwork" yaml:"cache_artwork"`
	ArtworkMaxSize int  `json:"artwork_max_size" yaml:"artwork_max_size"`

	// Network settings
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Server settings
	ServerAddress           string `json:"server_address" yaml:"server_address"`
	ServerRequestsPerMinute int    `json:"server_requests_per_minute" yaml:"server_requests_per_minute"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ExtractorTools: append([]string(nil), extractor.DefaultTools...),
		FormatSelector: extractor.DefaultFormatSelector,
		SkipProbe:      false,

		Subtitles:          true,
		SubtitleLanguage:   "en",
		SubtitleDownloader: SubtitleDownloaderCurl,
		CurlPath:           "curl",

		PlaylistFormat: "m3u",
		M3UExtended:    true,

		CacheArtwork:   false,
		ArtworkMaxSize: 600,

		ServerAddress:           "127.0.0.1:8089",
		ServerRequestsPerMinute: 30,
	}
}

// isYAML reports whether path should be read and written as YAML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads settings from a JSON or YAML file, chosen by extension.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks values that would otherwise fail much later.
func (s *Settings) Validate() error {
	if len(s.ExtractorTools) == 0 {
		return fmt.Errorf("extractor_tools must not be empty")
	}
	switch s.SubtitleDownloader {
	case SubtitleDownloaderCurl, SubtitleDownloaderHTTP:
	default:
		return fmt.Errorf("unknown subtitle_downloader %q", s.SubtitleDownloader)
	}
	if s.ArtworkMaxSize <= 0 {
		return fmt.Errorf("artwork_max_size must be positive, got %d", s.ArtworkMaxSize)
	}
	if s.ServerRequestsPerMinute <= 0 {
		return fmt.Errorf("server_requests_per_minute must be positive, got %d", s.ServerRequestsPerMinute)
	}
	return nil
}

// ToPlaylistFormat converts the playlist_format name to a PlaylistFormat.
func (s *Settings) ToPlaylistFormat() model.PlaylistFormat {
	return model.ParsePlaylistFormat(s.PlaylistFormat)
}
