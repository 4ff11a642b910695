package selector

import (
	"strings"

	"github.com/handiism/ytdl-playlist/internal/extractor"
	"github.com/handiism/ytdl-playlist/internal/model"
)

// YouTubeWatchURLTemplate turns a bare video id into a playable page URL.
const YouTubeWatchURLTemplate = "https://www.youtube.com/watch?v="

// Subtitle extensions understood by the player, in order of preference.
const (
	ExtVTT = "vtt"
	ExtSRT = "srt"
)

// SelectStream picks the playable URL for an extractor record.
//
// Selection order:
//  1. The record's own url (or manifest_url)
//  2. requested_formats: the last format with video becomes the main URL,
//     the last format with audio becomes the audio candidate
//  3. formats: the last format is the baseline, replaced by the last
//     format carrying both video and audio
//
// When several formats match, the last one wins; the extractor already
// orders them by preference. A YouTube reference whose url is a bare id is
// rewritten to a watch URL. The audio candidate is returned only when the
// main stream has no audio of its own and the URLs differ.
//
// The second return value is false when no playable URL exists.
func SelectStream(rec *extractor.Record) (model.Stream, bool) {
	var (
		mainURL       string
		audioURL      string
		includesAudio = true
	)

	switch {
	case rec.DirectURL() != "":
		mainURL = rec.DirectURL()

	case len(rec.RequestedFormats) > 0:
		for _, f := range rec.RequestedFormats {
			if f.HasVideo() {
				mainURL = f.Location()
				includesAudio = f.HasAudio()
			}
			if f.HasAudio() {
				audioURL = f.Location()
			}
		}
		if mainURL == "" && audioURL != "" {
			// audio-only selection
			mainURL = audioURL
			includesAudio = true
		}

	default:
		if n := len(rec.Formats); n > 0 {
			mainURL = rec.Formats[n-1].Location()
		}
		for _, f := range rec.Formats {
			if f.HasVideo() && f.HasAudio() && f.Location() != "" {
				mainURL = f.Location()
			}
		}
	}

	if mainURL == "" {
		return model.Stream{}, false
	}

	if rec.IsYoutubeReference() && !isAbsoluteURL(mainURL) {
		mainURL = YouTubeWatchURLTemplate + mainURL
	}

	stream := model.Stream{URL: mainURL}
	if !includesAudio && audioURL != "" && audioURL != mainURL {
		stream.AudioURL = audioURL
	}

	return stream, true
}

// SelectSubtitle picks a subtitle track in the given language.
//
// Manual subtitles are preferred over automatic captions. Within a track
// list the first WebVTT rendition wins immediately; otherwise the first
// SubRip rendition is used. Other formats are ignored. When the manual
// list has neither, the automatic captions are tried.
func SelectSubtitle(rec *extractor.Record, lang string) (model.Subtitle, bool) {
	if sub, ok := pickRendition(rec.Subtitles[lang]); ok {
		sub.Language = lang
		return sub, true
	}

	if sub, ok := pickRendition(rec.AutomaticCaptions[lang]); ok {
		sub.Language = lang
		sub.Automatic = true
		return sub, true
	}

	return model.Subtitle{}, false
}

func pickRendition(formats []extractor.SubtitleFormat) (model.Subtitle, bool) {
	var (
		srt   model.Subtitle
		found bool
	)

	for _, f := range formats {
		if f.URL == "" {
			continue
		}
		switch strings.ToLower(f.Ext) {
		case ExtVTT:
			return model.Subtitle{Ext: ExtVTT, URL: f.URL}, true
		case ExtSRT:
			if !found {
				srt = model.Subtitle{Ext: ExtSRT, URL: f.URL}
				found = true
			}
		}
	}

	return srt, found
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
