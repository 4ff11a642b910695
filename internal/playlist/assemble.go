package playlist

import (
	"math"

	"github.com/handiism/ytdl-playlist/internal/extractor"
	"github.com/handiism/ytdl-playlist/internal/model"
)

// Assemble maps an extractor record onto a playlist item.
//
// The mapping is pure: the same record, stream and subtitle path always
// produce an equal item. sourceURL is used for the item URL when the record
// carries no webpage_url. An empty subtitlePath adds no sub-file option.
//
// Options are added in a fixed order:
//
//	start-time=<start_time or 0>
//	input-slave=<audio url>   (only for a separate audio stream)
//	sub-file=<subtitle path>  (only when a subtitle was downloaded)
func Assemble(rec *extractor.Record, stream model.Stream, subtitlePath, sourceURL string) *model.Item {
	title := firstText(rec.Track, rec.Title)

	item := &model.Item{
		Path:        stream.URL,
		Name:        title,
		Title:       title,
		Artist:      firstText(rec.Artist, rec.Creator, rec.Uploader, rec.PlaylistUploader),
		Genre:       genre(rec),
		Album:       rec.Album.String(),
		Copyright:   rec.License.String(),
		Description: rec.Description.String(),
		Rating:      rec.AverageRating.String(),
		Date:        year(rec),
		URL:         firstText(rec.WebpageURL, extractor.Text(sourceURL)),
		ArtURL:      artURL(rec),
		TrackID:     firstText(rec.TrackNumber, rec.EpisodeNumber),
		TrackTotal:  rec.NEntries.String(),
		Season:      firstText(rec.Season, rec.SeasonNumber, rec.SeasonID),
		Episode:     firstText(rec.Episode, rec.EpisodeNumber),
		ShowName:    rec.Series.String(),
		Meta:        rec.TextMeta(),
	}

	if d, ok := rec.Duration.Float(); ok && !math.IsNaN(d) && !math.IsInf(d, 0) {
		item.Duration = &d
	}

	start := "0"
	if rec.StartTime.Valid() && rec.StartTime.String() != "" {
		start = rec.StartTime.String()
	}
	item.AddOption(model.OptionStartTime + "=" + start)

	if stream.HasAudioSlave() {
		item.AddOption(model.OptionInputSlave + "=" + stream.AudioURL)
	}
	if subtitlePath != "" {
		item.AddOption(model.OptionSubFile + "=" + subtitlePath)
	}

	return item
}

// firstText returns the first present, non-empty value.
func firstText(values ...extractor.Scalar) string {
	for _, v := range values {
		if v.Valid() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func genre(rec *extractor.Record) string {
	if g := rec.Genre.String(); g != "" {
		return g
	}
	if len(rec.Categories) > 0 {
		return rec.Categories[0].String()
	}
	return ""
}

// year returns release_year, else the first four characters of
// release_date, else of upload_date. Dates are YYYYMMDD strings.
func year(rec *extractor.Record) string {
	if y := rec.ReleaseYear.String(); y != "" {
		return y
	}
	if d := rec.ReleaseDate.String(); d != "" {
		return prefix(d, 4)
	}
	if d := rec.UploadDate.String(); d != "" {
		return prefix(d, 4)
	}
	return ""
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// artURL prefers the thumbnail field, then the last (best) thumbnail variant.
func artURL(rec *extractor.Record) string {
	if t := rec.Thumbnail.String(); t != "" {
		return t
	}
	for i := len(rec.Thumbnails) - 1; i >= 0; i-- {
		if rec.Thumbnails[i].URL != "" {
			return rec.Thumbnails[i].URL
		}
	}
	return ""
}
