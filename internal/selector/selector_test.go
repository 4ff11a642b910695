package selector

import (
	"testing"

	"github.com/handiism/ytdl-playlist/internal/extractor"
)

func mustRecord(t *testing.T, line string) *extractor.Record {
	t.Helper()
	rec, err := extractor.ParseRecord([]byte(line))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	return rec
}

func TestSelectStream(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantOK    bool
		wantURL   string
		wantAudio string
	}{
		{
			name:    "direct url",
			line:    `{"id":"a","url":"https://cdn.example.com/v.mp4"}`,
			wantOK:  true,
			wantURL: "https://cdn.example.com/v.mp4",
		},
		{
			name:    "manifest url",
			line:    `{"id":"a","manifest_url":"https://cdn.example.com/master.m3u8"}`,
			wantOK:  true,
			wantURL: "https://cdn.example.com/master.m3u8",
		},
		{
			name: "separate video and audio",
			line: `{"id":"a","requested_formats":[
				{"url":"https://cdn.example.com/X","vcodec":"vp9","acodec":"none"},
				{"url":"https://cdn.example.com/Y","vcodec":"none","acodec":"opus"}]}`,
			wantOK:    true,
			wantURL:   "https://cdn.example.com/X",
			wantAudio: "https://cdn.example.com/Y",
		},
		{
			name: "requested format already muxed",
			line: `{"id":"a","requested_formats":[
				{"url":"https://cdn.example.com/M","vcodec":"avc1","acodec":"mp4a"}]}`,
			wantOK:  true,
			wantURL: "https://cdn.example.com/M",
		},
		{
			name: "last video wins",
			line: `{"id":"a","requested_formats":[
				{"url":"https://cdn.example.com/V1","vcodec":"avc1","acodec":"none"},
				{"url":"https://cdn.example.com/V2","vcodec":"vp9","acodec":"none"},
				{"url":"https://cdn.example.com/A","vcodec":"none","acodec":"opus"}]}`,
			wantOK:    true,
			wantURL:   "https://cdn.example.com/V2",
			wantAudio: "https://cdn.example.com/A",
		},
		{
			name: "audio only selection",
			line: `{"id":"a","requested_formats":[
				{"url":"https://cdn.example.com/A","vcodec":"none","acodec":"opus"}]}`,
			wantOK:  true,
			wantURL: "https://cdn.example.com/A",
		},
		{
			name: "formats fallback prefers last muxed",
			line: `{"id":"a","formats":[
				{"url":"https://cdn.example.com/F1","vcodec":"avc1","acodec":"mp4a"},
				{"url":"https://cdn.example.com/F2","vcodec":"avc1","acodec":"mp4a"},
				{"url":"https://cdn.example.com/F3","vcodec":"vp9","acodec":"none"}]}`,
			wantOK:  true,
			wantURL: "https://cdn.example.com/F2",
		},
		{
			name: "formats fallback baseline is last",
			line: `{"id":"a","formats":[
				{"url":"https://cdn.example.com/F1","vcodec":"none","acodec":"opus"},
				{"url":"https://cdn.example.com/F2","vcodec":"vp9","acodec":"none"}]}`,
			wantOK:  true,
			wantURL: "https://cdn.example.com/F2",
		},
		{
			name:    "youtube reference rewritten",
			line:    `{"_type":"url_transparent","ie_key":"Youtube","url":"abc123","id":"abc123"}`,
			wantOK:  true,
			wantURL: "https://www.youtube.com/watch?v=abc123",
		},
		{
			name:    "youtube url type rewritten",
			line:    `{"_type":"url","ie_key":"Youtube","url":"xyz"}`,
			wantOK:  true,
			wantURL: "https://www.youtube.com/watch?v=xyz",
		},
		{
			name:    "youtube absolute url kept",
			line:    `{"_type":"url","ie_key":"Youtube","url":"https://www.youtube.com/watch?v=xyz"}`,
			wantOK:  true,
			wantURL: "https://www.youtube.com/watch?v=xyz",
		},
		{
			name:    "other extractor not rewritten",
			line:    `{"_type":"url","ie_key":"Vimeo","url":"12345"}`,
			wantOK:  true,
			wantURL: "12345",
		},
		{
			name:   "nothing playable",
			line:   `{"id":"a","title":"no formats"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, ok := SelectStream(mustRecord(t, tt.line))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if stream.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", stream.URL, tt.wantURL)
			}
			if stream.AudioURL != tt.wantAudio {
				t.Errorf("AudioURL = %q, want %q", stream.AudioURL, tt.wantAudio)
			}
		})
	}
}

func TestSelectStream_SameAudioURLNotSlaved(t *testing.T) {
	rec := mustRecord(t, `{"requested_formats":[
		{"url":"https://cdn.example.com/S","vcodec":"vp9","acodec":"none"},
		{"url":"https://cdn.example.com/S","vcodec":"none","acodec":"opus"}]}`)

	stream, ok := SelectStream(rec)
	if !ok {
		t.Fatal("expected a stream")
	}
	if stream.AudioURL != "" {
		t.Errorf("AudioURL = %q, want empty when equal to main URL", stream.AudioURL)
	}
}

func TestSelectSubtitle(t *testing.T) {
	tests := []struct {
		name          string
		line          string
		wantOK        bool
		wantExt       string
		wantURL       string
		wantAutomatic bool
	}{
		{
			name: "manual vtt beats srt and automatic",
			line: `{"subtitles":{"en":[
					{"ext":"srt","url":"https://s.example.com/m.srt"},
					{"ext":"vtt","url":"https://s.example.com/m.vtt"}]},
				"automatic_captions":{"en":[{"ext":"vtt","url":"https://s.example.com/a.vtt"}]}}`,
			wantOK:  true,
			wantExt: "vtt",
			wantURL: "https://s.example.com/m.vtt",
		},
		{
			name: "first vtt wins",
			line: `{"subtitles":{"en":[
					{"ext":"vtt","url":"https://s.example.com/1.vtt"},
					{"ext":"vtt","url":"https://s.example.com/2.vtt"}]}}`,
			wantOK:  true,
			wantExt: "vtt",
			wantURL: "https://s.example.com/1.vtt",
		},
		{
			name: "first srt kept without vtt",
			line: `{"subtitles":{"en":[
					{"ext":"json3","url":"https://s.example.com/m.json3"},
					{"ext":"srt","url":"https://s.example.com/1.srt"},
					{"ext":"srt","url":"https://s.example.com/2.srt"}]}}`,
			wantOK:  true,
			wantExt: "srt",
			wantURL: "https://s.example.com/1.srt",
		},
		{
			name:          "automatic captions fallback",
			line:          `{"subtitles":{"de":[{"ext":"vtt","url":"https://s.example.com/de.vtt"}]},"automatic_captions":{"en":[{"ext":"vtt","url":"https://s.example.com/a.vtt"}]}}`,
			wantOK:        true,
			wantExt:       "vtt",
			wantURL:       "https://s.example.com/a.vtt",
			wantAutomatic: true,
		},
		{
			name:          "manual without usable format falls through",
			line:          `{"subtitles":{"en":[{"ext":"ttml","url":"https://s.example.com/m.ttml"}]},"automatic_captions":{"en":[{"ext":"srt","url":"https://s.example.com/a.srt"}]}}`,
			wantOK:        true,
			wantExt:       "srt",
			wantURL:       "https://s.example.com/a.srt",
			wantAutomatic: true,
		},
		{
			name:   "only unsupported formats",
			line:   `{"subtitles":{"en":[{"ext":"ttml","url":"https://s.example.com/m.ttml"}]}}`,
			wantOK: false,
		},
		{
			name:   "no subtitles",
			line:   `{"id":"a"}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, ok := SelectSubtitle(mustRecord(t, tt.line), "en")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if sub.Ext != tt.wantExt {
				t.Errorf("Ext = %q, want %q", sub.Ext, tt.wantExt)
			}
			if sub.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", sub.URL, tt.wantURL)
			}
			if sub.Automatic != tt.wantAutomatic {
				t.Errorf("Automatic = %v, want %v", sub.Automatic, tt.wantAutomatic)
			}
			if sub.Language != "en" {
				t.Errorf("Language = %q, want en", sub.Language)
			}
		})
	}
}
