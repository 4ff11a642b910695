package subtitle

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	ioutils "github.com/handiism/ytdl-playlist/internal/io"
	"github.com/handiism/ytdl-playlist/internal/model"
)

var (
	// ErrEmptyFile is returned when the download produced a zero-byte file.
	ErrEmptyFile = ioutils.ErrEmptyFile

	// ErrMissingID is returned when the entry has no id to name the file after.
	ErrMissingID = errors.New("entry has no id")

	// ErrUnsupportedURL is returned for subtitle URLs that are not http or https.
	ErrUnsupportedURL = errors.New("unsupported subtitle url")
)

// Fetcher downloads a selected subtitle track next to other subtitles.
//
// Example:
//
//	f := NewFetcher(NewDirResolver(""), NewCurlDownloader(""))
//	path, err := f.Fetch(ctx, "abc123", sub)
//	// path = "~/Documents/abc123_vtt.vtt"
type Fetcher struct {
	dirs       *DirResolver
	downloader Downloader
}

// NewFetcher creates a Fetcher.
func NewFetcher(dirs *DirResolver, downloader Downloader) *Fetcher {
	return &Fetcher{
		dirs:       dirs,
		downloader: downloader,
	}
}

// Fetch downloads sub for the entry id and returns the local file path.
//
// The file is named "<id>_<ext>.<ext>" inside the resolved directory.
// After the downloader returns, the file is reopened and must exist with a
// nonzero size; zero-byte results are deleted. Only http and https
// subtitle URLs are fetched.
func (f *Fetcher) Fetch(ctx context.Context, id string, sub model.Subtitle) (string, error) {
	if id == "" {
		return "", ErrMissingID
	}
	if !isWebURL(sub.URL) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedURL, sub.URL)
	}

	dir, err := f.dirs.Resolve()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, sub.FileName(ioutils.SanitizeFileName(id)))
	if err := f.downloader.Download(ctx, sub.URL, path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("downloading %s subtitle: %w", sub.Ext, err)
	}

	if _, err := ioutils.CheckNonEmpty(path); err != nil {
		return "", err
	}

	return path, nil
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
