package playlist

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/handiism/ytdl-playlist/internal/extractor"
	"github.com/handiism/ytdl-playlist/internal/model"
	"github.com/handiism/ytdl-playlist/internal/selector"
)

func mustParse(t *testing.T, line string) *extractor.Record {
	t.Helper()
	rec, err := extractor.ParseRecord([]byte(line))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	return rec
}

func TestAssemble_Fields(t *testing.T) {
	rec := mustParse(t, `{
		"id": "abc123",
		"title": "Some Video",
		"uploader": "Channel",
		"categories": ["Music", "Live"],
		"license": "CC-BY",
		"description": "desc",
		"average_rating": 4.5,
		"duration": 212.6,
		"release_date": "20230615",
		"webpage_url": "https://www.youtube.com/watch?v=abc123",
		"thumbnails": [{"url": "https://i/small.jpg"}, {"url": "https://i/large.webp"}],
		"episode_number": 7,
		"season_number": 2,
		"series": "Show",
		"n_entries": 10,
		"album": null
	}`)

	item := Assemble(rec, model.Stream{URL: "https://cdn/v"}, "", "https://page")

	tests := []struct {
		field string
		got   string
		want  string
	}{
		{"path", item.Path, "https://cdn/v"},
		{"name", item.Name, "Some Video"},
		{"title", item.Title, "Some Video"},
		{"artist", item.Artist, "Channel"},
		{"genre", item.Genre, "Music"},
		{"copyright", item.Copyright, "CC-BY"},
		{"description", item.Description, "desc"},
		{"rating", item.Rating, "4.5"},
		{"date", item.Date, "2023"},
		{"url", item.URL, "https://www.youtube.com/watch?v=abc123"},
		{"arturl", item.ArtURL, "https://i/large.webp"},
		{"trackid", item.TrackID, "7"},
		{"tracktotal", item.TrackTotal, "10"},
		{"season", item.Season, "2"},
		{"episode", item.Episode, "7"},
		{"showname", item.ShowName, "Show"},
		{"album", item.Album, ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}

	if item.DurationSeconds() != 213 {
		t.Errorf("DurationSeconds() = %d, want 213", item.DurationSeconds())
	}
	if want := []string{"start-time=0"}; !reflect.DeepEqual(item.Options, want) {
		t.Errorf("Options = %v, want %v", item.Options, want)
	}
	if item.Meta["id"] != "abc123" || item.Meta["duration"] != "212.6" {
		t.Errorf("Meta = %v", item.Meta)
	}
	if _, ok := item.Meta["album"]; ok {
		t.Error("null fields should not appear in Meta")
	}
}

func TestAssemble_Date(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"release year", `{"release_year": 1999, "release_date": "20230615"}`, "1999"},
		{"release date", `{"release_date": "20230615"}`, "2023"},
		{"upload date", `{"upload_date": "20210101"}`, "2021"},
		{"short release date wins", `{"release_date": "20", "upload_date": "20210101"}`, "20"},
		{"empty release date", `{"release_date": "", "upload_date": "20210101"}`, "2021"},
		{"none", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Assemble(mustParse(t, tt.line), model.Stream{URL: "u"}, "", "")
			if item.Date != tt.want {
				t.Errorf("Date = %q, want %q", item.Date, tt.want)
			}
		})
	}
}

func TestAssemble_Fallbacks(t *testing.T) {
	rec := mustParse(t, `{"track": "Song", "title": "Video", "creator": "Maker", "uploader": "Up", "genre": "Jazz", "categories": ["Music"], "thumbnail": "https://i/t.jpg", "thumbnails": [{"url": "https://i/x.jpg"}]}`)
	item := Assemble(rec, model.Stream{URL: "u"}, "", "https://page")

	if item.Title != "Song" {
		t.Errorf("Title = %q, want track", item.Title)
	}
	if item.Artist != "Maker" {
		t.Errorf("Artist = %q, want creator", item.Artist)
	}
	if item.Genre != "Jazz" {
		t.Errorf("Genre = %q", item.Genre)
	}
	if item.ArtURL != "https://i/t.jpg" {
		t.Errorf("ArtURL = %q", item.ArtURL)
	}
	if item.URL != "https://page" {
		t.Errorf("URL = %q, want source url", item.URL)
	}
	if item.Duration != nil {
		t.Errorf("Duration = %v, want nil", *item.Duration)
	}
}

func TestAssemble_OptionOrder(t *testing.T) {
	rec := mustParse(t, `{"id": "x", "start_time": 42}`)
	stream := model.Stream{URL: "https://cdn/v", AudioURL: "https://cdn/a"}

	item := Assemble(rec, stream, "/tmp/x_vtt.vtt", "")

	want := []string{
		"start-time=42",
		"input-slave=https://cdn/a",
		"sub-file=/tmp/x_vtt.vtt",
	}
	if !reflect.DeepEqual(item.Options, want) {
		t.Errorf("Options = %v, want %v", item.Options, want)
	}
}

func TestAssemble_SeparateStreams(t *testing.T) {
	rec := mustParse(t, `{"id": "v1", "requested_formats": [
		{"url": "https://cdn/X", "vcodec": "avc1", "acodec": "none"},
		{"url": "https://cdn/Y", "vcodec": "none", "acodec": "mp4a"}
	]}`)

	stream, ok := selector.SelectStream(rec)
	if !ok {
		t.Fatal("no stream selected")
	}
	item := Assemble(rec, stream, "", "")

	if item.Path != "https://cdn/X" {
		t.Errorf("Path = %q, want X", item.Path)
	}
	if slave, ok := item.Option(model.OptionInputSlave); !ok || slave != "https://cdn/Y" {
		t.Errorf("input-slave = %q, %v, want Y", slave, ok)
	}
}

func TestAssemble_YoutubeReference(t *testing.T) {
	rec := mustParse(t, `{"_type": "url_transparent", "ie_key": "Youtube", "id": "abc123", "url": "abc123"}`)

	stream, ok := selector.SelectStream(rec)
	if !ok {
		t.Fatal("no stream selected")
	}
	if item := Assemble(rec, stream, "", ""); item.Path != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("Path = %q", item.Path)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	rec := mustParse(t, `{"id": "a", "title": "T", "duration": 10, "categories": ["C"], "requested_formats": [
		{"url": "https://cdn/X", "vcodec": "vp9", "acodec": "none"},
		{"url": "https://cdn/Y", "vcodec": "none", "acodec": "opus"}
	]}`)

	build := func() *model.Item {
		stream, _ := selector.SelectStream(rec)
		return Assemble(rec, stream, "/subs/a_vtt.vtt", "https://page")
	}

	first, second := build(), build()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Assemble is not idempotent:\n%+v\n%+v", first, second)
	}
}

func createTestItems() []*model.Item {
	d := 180.4
	return []*model.Item{
		{
			Path:     "https://cdn/v1",
			Name:     "First & <Best>",
			Title:    "First & <Best>",
			Artist:   "Channel",
			Duration: &d,
			Options:  []string{"start-time=0", "input-slave=https://cdn/a1"},
		},
		{
			Path:    "https://cdn/v2",
			Options: []string{"start-time=0"},
		},
	}
}

func TestPlaylistCreator_M3U(t *testing.T) {
	content := render(t, model.PlaylistFormatM3U, false, createTestItems())

	if content != "https://cdn/v1\nhttps://cdn/v2\n" {
		t.Errorf("M3U = %q", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	content := render(t, model.PlaylistFormatM3U, true, createTestItems())

	want := "#EXTM3U\n" +
		"#EXTINF:180,Channel - First & <Best>\n" +
		"#EXTVLCOPT:start-time=0\n" +
		"#EXTVLCOPT:input-slave=https://cdn/a1\n" +
		"https://cdn/v1\n" +
		"#EXTINF:-1,https://cdn/v2\n" +
		"#EXTVLCOPT:start-time=0\n" +
		"https://cdn/v2\n"
	if content != want {
		t.Errorf("extended M3U =\n%s\nwant\n%s", content, want)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	content := render(t, model.PlaylistFormatPLS, false, createTestItems())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	for _, want := range []string{"File1=https://cdn/v1", "Length1=180", "Length2=-1", "NumberOfEntries=2", "Version=2"} {
		if !strings.Contains(content, want) {
			t.Errorf("PLS should contain %q", want)
		}
	}
}

func TestPlaylistCreator_XSPF(t *testing.T) {
	content := render(t, model.PlaylistFormatXSPF, false, createTestItems())

	for _, want := range []string{
		"<?xml",
		"<location>https://cdn/v1</location>",
		"<title>First &amp; &lt;Best&gt;</title>",
		"<duration>180400</duration>",
		"<vlc:option>input-slave=https://cdn/a1</vlc:option>",
		"<vlc:id>1</vlc:id>",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("XSPF should contain %q", want)
		}
	}
	if strings.Contains(content, "<Best>") {
		t.Error("XSPF should escape < and >")
	}
}

func TestPlaylistCreator_JSON(t *testing.T) {
	content := render(t, model.PlaylistFormatJSON, false, createTestItems())

	var got []model.Item
	if err := json.Unmarshal([]byte(content), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 || got[0].Path != "https://cdn/v1" || got[0].Options[1] != "input-slave=https://cdn/a1" {
		t.Errorf("decoded = %+v", got)
	}

	if empty := render(t, model.PlaylistFormatJSON, false, nil); empty != "[]\n" {
		t.Errorf("empty JSON = %q", empty)
	}
}

func TestPlaylistCreator_JSONError(t *testing.T) {
	nan := math.NaN()
	items := []*model.Item{{Path: "https://cdn/v", Duration: &nan}}

	content, err := NewPlaylistCreator(model.PlaylistFormatJSON, false).CreatePlaylist(items)
	if err == nil {
		t.Fatalf("expected an encoding error, got %q", content)
	}
	if content != "" {
		t.Errorf("content = %q, want empty on error", content)
	}

	// Formats without an encoder never fail.
	if _, err := NewPlaylistCreator(model.PlaylistFormatM3U, true).CreatePlaylist(items); err != nil {
		t.Errorf("M3U: %v", err)
	}
}

func render(t *testing.T, format model.PlaylistFormat, extended bool, items []*model.Item) string {
	t.Helper()
	content, err := NewPlaylistCreator(format, extended).CreatePlaylist(items)
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}
	return content
}

func TestEscapeXML(t *testing.T) {
	if got := escapeXML(`a&b<c>"d'`); got != "a&amp;b&lt;c&gt;&quot;d&apos;" {
		t.Errorf("escapeXML = %q", got)
	}
}
