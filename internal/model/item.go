package model

import (
	"math"
	"strings"
)

// Player option keys understood by the media player.
const (
	OptionStartTime  = "start-time"
	OptionInputSlave = "input-slave"
	OptionSubFile    = "sub-file"
)

// Item represents a single playlist entry produced for the media player.
//
// All descriptive fields are text: the player expects strings, and the
// extractor's values are coerced to text before they are attached. Empty
// strings mean "unset".
//
// Example:
//
//	item := &Item{
//	    Path:  "https://www.youtube.com/watch?v=abc123",
//	    Name:  "Some Video",
//	    Title: "Some Video",
//	}
//	item.AddOption(OptionStartTime + "=0")
type Item struct {
	// Path is the playable media URL (or watch URL for platform references).
	Path string `json:"path"`

	// Name is the display name shown in the playlist.
	Name string `json:"name,omitempty"`

	// Duration is the length in seconds. Nil when unknown.
	Duration *float64 `json:"duration,omitempty"`

	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Album       string `json:"album,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
	Description string `json:"description,omitempty"`
	Rating      string `json:"rating,omitempty"`

	// Date is the release year (four digits) when it could be derived.
	Date string `json:"date,omitempty"`

	// URL is the web page the item was resolved from.
	URL string `json:"url,omitempty"`

	// ArtURL points at the cover art (remote URL or local file URL).
	ArtURL string `json:"arturl,omitempty"`

	TrackID    string `json:"trackid,omitempty"`
	TrackTotal string `json:"tracktotal,omitempty"`
	Season     string `json:"season,omitempty"`
	Episode    string `json:"episode,omitempty"`
	ShowName   string `json:"showname,omitempty"`

	// Options holds player directives such as "start-time=0",
	// "input-slave=<url>" or "sub-file=<path>", in insertion order.
	Options []string `json:"options,omitempty"`

	// Meta is the extractor record with every value rendered as text.
	Meta map[string]string `json:"meta,omitempty"`
}

// AddOption appends a player option in "key=value" form.
func (i *Item) AddOption(option string) {
	i.Options = append(i.Options, option)
}

// Option returns the value of the first option with the given key.
func (i *Item) Option(key string) (string, bool) {
	prefix := key + "="
	for _, opt := range i.Options {
		if strings.HasPrefix(opt, prefix) {
			return strings.TrimPrefix(opt, prefix), true
		}
	}
	return "", false
}

// DurationSeconds returns the duration rounded to whole seconds, or -1 if unknown.
func (i *Item) DurationSeconds() int {
	if i.Duration == nil {
		return -1
	}
	return int(math.Round(*i.Duration))
}

// DisplayName returns the name, the title, or the path in that order of preference.
func (i *Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Title != "" {
		return i.Title
	}
	return i.Path
}

// Stream is the outcome of format selection for one extractor record.
type Stream struct {
	// URL is the main media URL.
	URL string

	// AudioURL is a separate audio stream to attach as an input slave.
	// Empty when the main stream already carries audio.
	AudioURL string
}

// HasAudioSlave reports whether a separate audio stream must be attached.
func (s Stream) HasAudioSlave() bool {
	return s.AudioURL != "" && s.AudioURL != s.URL
}

// Subtitle is a selected subtitle track.
type Subtitle struct {
	// Language is the track language code, e.g. "en".
	Language string

	// Ext is the subtitle format extension ("vtt" or "srt").
	Ext string

	// URL is the remote location of the subtitle file.
	URL string

	// Automatic is true for auto-generated captions.
	Automatic bool
}

// FileName returns the local file name for the subtitle of the given entry:
// "<id>_<ext>.<ext>". The id must already be safe to use in a file name.
func (s Subtitle) FileName(id string) string {
	return id + "_" + s.Ext + "." + s.Ext
}
