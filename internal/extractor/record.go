package extractor

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Record is one entry printed by the extractor tool (one JSON object per line).
//
// Fields the pipeline depends on structurally (URLs, formats, subtitles) are
// typed; descriptive metadata uses Scalar so that any JSON scalar is accepted
// and absence is explicit. Raw keeps the full object for the text-only
// metadata map attached to playlist items.
type Record struct {
	Type        *string `json:"_type"`
	IEKey       *string `json:"ie_key"`
	ID          *string `json:"id"`
	URL         *string `json:"url"`
	ManifestURL *string `json:"manifest_url"`

	RequestedFormats []Format `json:"requested_formats"`
	Formats          []Format `json:"formats"`

	Subtitles         map[string][]SubtitleFormat `json:"subtitles"`
	AutomaticCaptions map[string][]SubtitleFormat `json:"automatic_captions"`

	Thumbnails []Thumbnail `json:"thumbnails"`
	Categories []Scalar    `json:"categories"`

	Title            Scalar `json:"title"`
	Track            Scalar `json:"track"`
	Artist           Scalar `json:"artist"`
	Creator          Scalar `json:"creator"`
	Uploader         Scalar `json:"uploader"`
	PlaylistUploader Scalar `json:"playlist_uploader"`
	Genre            Scalar `json:"genre"`
	Album            Scalar `json:"album"`
	License          Scalar `json:"license"`
	Description      Scalar `json:"description"`
	AverageRating    Scalar `json:"average_rating"`
	Duration         Scalar `json:"duration"`
	StartTime        Scalar `json:"start_time"`
	ReleaseYear      Scalar `json:"release_year"`
	ReleaseDate      Scalar `json:"release_date"`
	UploadDate       Scalar `json:"upload_date"`
	WebpageURL       Scalar `json:"webpage_url"`
	Thumbnail        Scalar `json:"thumbnail"`
	TrackNumber      Scalar `json:"track_number"`
	EpisodeNumber    Scalar `json:"episode_number"`
	NEntries         Scalar `json:"n_entries"`
	Season           Scalar `json:"season"`
	SeasonNumber     Scalar `json:"season_number"`
	SeasonID         Scalar `json:"season_id"`
	Episode          Scalar `json:"episode"`
	Series           Scalar `json:"series"`

	Raw map[string]json.RawMessage `json:"-"`
}

// Format is one stream variant of an entry.
type Format struct {
	FormatID    string  `json:"format_id"`
	Ext         string  `json:"ext"`
	Protocol    string  `json:"protocol"`
	URL         *string `json:"url"`
	ManifestURL *string `json:"manifest_url"`
	VCodec      *string `json:"vcodec"`
	ACodec      *string `json:"acodec"`
}

// SubtitleFormat is one downloadable rendition of a subtitle track.
type SubtitleFormat struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Thumbnail is one thumbnail variant; the extractor lists them in
// ascending preference.
type Thumbnail struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ParseRecord decodes a single line of extractor output.
func ParseRecord(line []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(line, &rec.Raw); err != nil {
		return nil, err
	}
	return &rec, nil
}

// EntryID returns the entry id, or "" when absent.
func (r *Record) EntryID() string {
	return deref(r.ID)
}

// DirectURL returns the record's own url, falling back to manifest_url.
func (r *Record) DirectURL() string {
	if u := deref(r.URL); u != "" {
		return u
	}
	return deref(r.ManifestURL)
}

// IsYoutubeReference reports whether the record is an unresolved reference
// to a YouTube video, in which case its url holds a video id.
func (r *Record) IsYoutubeReference() bool {
	t := deref(r.Type)
	return (t == "url" || t == "url_transparent") && deref(r.IEKey) == "Youtube"
}

// TextMeta renders every non-null top-level field as text.
func (r *Record) TextMeta() map[string]string {
	meta := make(map[string]string, len(r.Raw))
	for key, raw := range r.Raw {
		var s Scalar
		if err := s.UnmarshalJSON(raw); err != nil || !s.Valid() {
			continue
		}
		meta[key] = s.String()
	}
	return meta
}

// Location returns the format url, falling back to manifest_url.
func (f Format) Location() string {
	if u := deref(f.URL); u != "" {
		return u
	}
	return deref(f.ManifestURL)
}

// HasVideo reports whether the format carries a video stream.
func (f Format) HasVideo() bool {
	return codecPresent(f.VCodec)
}

// HasAudio reports whether the format carries an audio stream.
func (f Format) HasAudio() bool {
	return codecPresent(f.ACodec)
}

// codecPresent treats a missing, empty or "none" codec as absent.
func codecPresent(codec *string) bool {
	return codec != nil && *codec != "" && *codec != "none"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Scalar is an optional JSON value kept as text.
//
// Strings are stored unquoted, numbers and booleans as their JSON literal,
// objects and arrays as compact JSON. A missing key or null leaves the
// Scalar invalid.
type Scalar struct {
	text  string
	valid bool
}

// Text returns a valid Scalar holding s.
func Text(s string) Scalar {
	return Scalar{text: s, valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Scalar{}
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar{text: str, valid: true}
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*s = Scalar{text: buf.String(), valid: true}
	return nil
}

// Valid reports whether the value was present and not null.
func (s Scalar) Valid() bool {
	return s.valid
}

// String returns the text form, "" when invalid.
func (s Scalar) String() string {
	return s.text
}

// Float parses the value as a number.
func (s Scalar) Float() (float64, bool) {
	if !s.valid {
		return 0, false
	}
	f, err := strconv.ParseFloat(s.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
