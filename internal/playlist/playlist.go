package playlist

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/handiism/ytdl-playlist/internal/model"
)

// PlaylistCreator generates playlist files in various formats.
//
// PlaylistCreator takes resolved items and renders a playlist the media
// player can open directly. Player options (start time, input slave,
// subtitle file) are carried in each format's extension mechanism where one
// exists.
//
// Example:
//
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content, err := creator.CreatePlaylist(items)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("video.m3u", []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:212,Uploader - Some Video
//	// #EXTVLCOPT:start-time=0
//	// #EXTVLCOPT:input-slave=https://.../audio
//	// https://.../video
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF and EXTVLCOPT lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF and #EXTVLCOPT
//     lines (ignored for other formats)
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the playlist format the creator renders.
func (p *PlaylistCreator) Format() model.PlaylistFormat {
	return p.format
}

// CreatePlaylist generates playlist content for the items, in order.
//
// Only the JSON format can fail, for values JSON cannot represent.
func (p *PlaylistCreator) CreatePlaylist(items []*model.Item) (string, error) {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(items), nil
	case model.PlaylistFormatXSPF:
		return p.createXSPF(items), nil
	case model.PlaylistFormatJSON:
		return p.createJSON(items)
	default:
		return p.createM3U(items), nil
	}
}

// createM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	https://host/video1
//	https://host/video2
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:180,Artist - Title
//	#EXTVLCOPT:start-time=0
//	https://host/video1
func (p *PlaylistCreator) createM3U(items []*model.Item) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, item := range items {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", item.DurationSeconds(), extinfTitle(item)))
			for _, opt := range item.Options {
				sb.WriteString("#EXTVLCOPT:" + opt + "\n")
			}
		}
		sb.WriteString(item.Path + "\n")
	}

	return sb.String()
}

// extinfTitle renders "Artist - Title", or just the display name.
func extinfTitle(item *model.Item) string {
	name := oneLine(item.DisplayName())
	if item.Artist == "" {
		return name
	}
	return oneLine(item.Artist) + " - " + name
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=https://host/video1
//	Title1=Video Title
//	Length1=180
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(items []*model.Item) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, item := range items {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, item.Path))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, oneLine(item.DisplayName())))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, item.DurationSeconds()))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(items)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createXSPF generates an XSPF playlist with VLC extensions for options.
func (p *PlaylistCreator) createXSPF(items []*model.Item) string {
	var sb strings.Builder

	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<playlist xmlns=\"http://xspf.org/ns/0/\" xmlns:vlc=\"http://www.videolan.org/vlc/playlist/ns/0/\" version=\"1\">\n")
	sb.WriteString("  <trackList>\n")

	for i, item := range items {
		sb.WriteString("    <track>\n")
		sb.WriteString(fmt.Sprintf("      <location>%s</location>\n", escapeXML(item.Path)))
		writeXMLElement(&sb, "title", item.DisplayName())
		writeXMLElement(&sb, "creator", item.Artist)
		writeXMLElement(&sb, "album", item.Album)
		writeXMLElement(&sb, "annotation", item.Description)
		writeXMLElement(&sb, "info", item.URL)
		writeXMLElement(&sb, "image", item.ArtURL)
		if item.TrackID != "" {
			writeXMLElement(&sb, "trackNum", item.TrackID)
		}
		if item.Duration != nil {
			sb.WriteString(fmt.Sprintf("      <duration>%d</duration>\n", int64(math.Round(*item.Duration*1000))))
		}
		sb.WriteString("      <extension application=\"http://www.videolan.org/vlc/playlist/0\">\n")
		sb.WriteString(fmt.Sprintf("        <vlc:id>%d</vlc:id>\n", i))
		for _, opt := range item.Options {
			sb.WriteString(fmt.Sprintf("        <vlc:option>%s</vlc:option>\n", escapeXML(opt)))
		}
		sb.WriteString("      </extension>\n")
		sb.WriteString("    </track>\n")
	}

	sb.WriteString("  </trackList>\n")
	sb.WriteString("</playlist>\n")

	return sb.String()
}

// writeXMLElement writes a track child element, skipping empty values.
func writeXMLElement(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("      <%s>%s</%s>\n", name, escapeXML(value), name))
}

// createJSON generates a JSON array of the items, including their metadata.
func (p *PlaylistCreator) createJSON(items []*model.Item) (string, error) {
	if items == nil {
		items = []*model.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON playlist: %w", err)
	}
	return string(data) + "\n", nil
}

// oneLine folds line breaks so a value fits a single playlist line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
