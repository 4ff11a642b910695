package resolve

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/handiism/ytdl-playlist/internal/config"
	"github.com/handiism/ytdl-playlist/internal/extractor"
	"github.com/handiism/ytdl-playlist/internal/http"
	ioutils "github.com/handiism/ytdl-playlist/internal/io"
	"github.com/handiism/ytdl-playlist/internal/model"
	"github.com/handiism/ytdl-playlist/internal/playlist"
	"github.com/handiism/ytdl-playlist/internal/probe"
	"github.com/handiism/ytdl-playlist/internal/selector"
	"github.com/handiism/ytdl-playlist/internal/subtitle"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lower-case level name.
func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a resolution progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ErrNotHandled is returned by Resolve when the probe rejects the URL.
var ErrNotHandled = errors.New("url not handled")

// Option customizes a Manager.
type Option func(*Manager)

// WithRunner replaces the extractor runner, e.g. with a fake in tests.
func WithRunner(runner extractor.Runner) Option {
	return func(m *Manager) { m.runner = runner }
}

// WithDownloader replaces the subtitle downloader chosen from settings.
func WithDownloader(downloader subtitle.Downloader) Option {
	return func(m *Manager) { m.downloader = downloader }
}

// WithDirResolver replaces the subtitle directory resolver.
func WithDirResolver(dirs *subtitle.DirResolver) Option {
	return func(m *Manager) { m.dirs = dirs }
}

// WithLogger sets the logger used when no progress callback is installed.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// Manager coordinates the resolution of a page URL into playlist items.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	invoker      *extractor.Invoker
	subtitles    *subtitle.Fetcher
	playlist     *playlist.PlaylistCreator
	imageService *ioutils.ImageService

	runner     extractor.Runner
	downloader subtitle.Downloader
	dirs       *subtitle.DirResolver

	totalEntries     int32
	processedEntries int32

	onProgress func(ProgressEvent)
	logger     *slog.Logger
}

// NewManager creates a new Manager.
//
// onProgress may be nil, in which case events are written to the logger
// (stderr by default) so diagnostics are never lost.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent), opts ...Option) *Manager {
	m := &Manager{
		settings:     settings,
		httpClient:   http.NewClient(settings.UserAgent),
		playlist:     playlist.NewPlaylistCreator(settings.ToPlaylistFormat(), settings.M3UExtended),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if m.runner == nil {
		m.runner = extractor.NewYtdlpRunner(settings.FormatSelector)
	}
	if m.downloader == nil {
		if settings.SubtitleDownloader == config.SubtitleDownloaderHTTP {
			m.downloader = subtitle.NewHTTPDownloader(m.httpClient)
		} else {
			m.downloader = subtitle.NewCurlDownloader(settings.CurlPath)
		}
	}
	if m.dirs == nil {
		m.dirs = subtitle.NewDirResolver(settings.SubtitleDir)
	}
	m.dirs.OnProbeError = func(dir string, err error) {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Directory %s is not writable: %v", dir, err), Level: LevelWarning})
	}

	m.invoker = extractor.NewInvoker(settings.ExtractorTools, m.runner)
	m.subtitles = subtitle.NewFetcher(m.dirs, m.downloader)

	return m
}

// Probe reports whether rawURL should be handled by the extractor.
//
// Non-http schemes are rejected without opening the resource. For web URLs
// the body is opened, at most probe.MaxPeek bytes are inspected, and the
// body is closed again.
func (m *Manager) Probe(ctx context.Context, rawURL string) (bool, error) {
	access, _, err := probe.Split(rawURL)
	if err != nil {
		return false, err
	}
	if access != "http" && access != "https" {
		return false, nil
	}

	body, err := m.httpClient.Open(ctx, rawURL)
	if err != nil {
		return false, err
	}
	defer body.Close()

	return probe.Probe(access, bufio.NewReaderSize(body, probe.MaxPeek)), nil
}

// Resolve runs the extractor on rawURL and returns one item per playable entry.
//
// The pipeline is sequential:
//
//  1. Reject anything but http(s) URLs, then probe the page (unless
//     skip_probe is set); rejection returns ErrNotHandled
//  2. Invoke the extractor, falling back through the configured tools
//  3. Per entry: select a stream, skip entries without one
//  4. Per entry: select and download a subtitle (failures are warnings)
//  5. Per entry: assemble the item and optionally cache its artwork
//
// Items are returned in extractor output order. An extractor failure on
// every tool is fatal and no items are returned.
func (m *Manager) Resolve(ctx context.Context, rawURL string) ([]*model.Item, error) {
	atomic.StoreInt32(&m.totalEntries, 0)
	atomic.StoreInt32(&m.processedEntries, 0)

	// skip_probe skips only the page check; the extractor never sees
	// anything but an http(s) URL.
	if !isWebURL(rawURL) {
		return nil, fmt.Errorf("%w: %q", ErrNotHandled, rawURL)
	}

	if !m.settings.SkipProbe {
		handled, err := m.Probe(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("probing %s: %w", rawURL, err)
		}
		if !handled {
			return nil, fmt.Errorf("%w: %s", ErrNotHandled, rawURL)
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Running extractor (%s) on %s", strings.Join(m.invoker.Tools(), ", "), rawURL),
		Level:   LevelVerbose,
	})

	inv, err := m.invoker.Invoke(ctx, rawURL)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Extractor failed for %s: %v", rawURL, err), Level: LevelError})
		return nil, err
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Ran %s %s", inv.Tool, strings.Join(inv.Args, " ")),
		Level:   LevelVerbose,
	})
	if inv.ExitErr != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s reported an error after producing output: %v", inv.Tool, inv.ExitErr), Level: LevelWarning})
	}

	atomic.StoreInt32(&m.totalEntries, int32(len(inv.Records)))
	m.progress(ProgressEvent{Message: fmt.Sprintf("%s returned %d entries", inv.Tool, len(inv.Records)), Level: LevelInfo})

	items := make([]*model.Item, 0, len(inv.Records))
	for _, rec := range inv.Records {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		if item, ok := m.resolveEntry(ctx, rec, rawURL); ok {
			items = append(items, item)
		}
		atomic.AddInt32(&m.processedEntries, 1)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolved %d of %d entries", len(items), len(inv.Records)), Level: LevelSuccess})
	return items, nil
}

func (m *Manager) resolveEntry(ctx context.Context, rec *extractor.Record, rawURL string) (*model.Item, bool) {
	id := rec.EntryID()

	stream, ok := selector.SelectStream(rec)
	if !ok {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping entry %q: no playable URL", id), Level: LevelVerbose})
		return nil, false
	}

	var subtitlePath string
	if m.settings.Subtitles {
		subtitlePath = m.fetchSubtitle(ctx, rec)
	}

	item := playlist.Assemble(rec, stream, subtitlePath, rawURL)

	if m.settings.CacheArtwork && item.ArtURL != "" {
		local, err := m.cacheArtwork(ctx, id, item.ArtURL)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error caching artwork for %q: %v", id, err), Level: LevelWarning})
		} else {
			item.ArtURL = local
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolved: %s", item.DisplayName()), Level: LevelInfo})
	return item, true
}

// fetchSubtitle returns the local subtitle path, or "" when none is available.
func (m *Manager) fetchSubtitle(ctx context.Context, rec *extractor.Record) string {
	sub, ok := selector.SelectSubtitle(rec, m.settings.SubtitleLanguage)
	if !ok {
		m.progress(ProgressEvent{Message: fmt.Sprintf("No %s subtitles for %q", m.settings.SubtitleLanguage, rec.EntryID()), Level: LevelVerbose})
		return ""
	}

	path, err := m.subtitles.Fetch(ctx, rec.EntryID(), sub)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading subtitles for %q: %v", rec.EntryID(), err), Level: LevelWarning})
		return ""
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded subtitles: %s", path), Level: LevelVerbose})
	return path
}

// cacheArtwork downloads and shrinks the thumbnail, returning a file URL.
func (m *Manager) cacheArtwork(ctx context.Context, id, artURL string) (string, error) {
	if id == "" {
		return "", subtitle.ErrMissingID
	}

	dir, err := m.dirs.Resolve()
	if err != nil {
		return "", err
	}

	data, err := m.httpClient.Get(ctx, artURL)
	if err != nil {
		return "", err
	}

	resized, err := m.imageService.ResizeImage(ctx, data, m.settings.ArtworkMaxSize, m.settings.ArtworkMaxSize)
	if err != nil {
		return "", fmt.Errorf("resizing artwork: %w", err)
	}

	path := filepath.Join(dir, ioutils.SanitizeFileName(id)+"_cover.jpg")
	if err := ioutils.WriteFile(ctx, path, resized); err != nil {
		return "", err
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(), nil
}

// GetProgress returns the number of processed and total extractor entries
// of the current Resolve call.
func (m *Manager) GetProgress() (processed, total int32) {
	return atomic.LoadInt32(&m.processedEntries), atomic.LoadInt32(&m.totalEntries)
}

// CreatePlaylist renders items in the configured playlist format.
func (m *Manager) CreatePlaylist(items []*model.Item) (string, error) {
	return m.playlist.CreatePlaylist(items)
}

// WritePlaylist renders items and writes them to path.
func (m *Manager) WritePlaylist(ctx context.Context, path string, items []*model.Item) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := ioutils.EnsureDir(dir); err != nil {
			return err
		}
	}
	content, err := m.CreatePlaylist(items)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelError})
		return err
	}
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelSuccess})
	return nil
}

// isWebURL reports whether rawURL is an absolute http or https URL.
func isWebURL(rawURL string) bool {
	access, _, err := probe.Split(rawURL)
	if err != nil {
		return false
	}
	return access == "http" || access == "https"
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
		return
	}

	switch event.Level {
	case LevelVerbose:
		m.logger.Debug(event.Message)
	case LevelWarning:
		m.logger.Warn(event.Message)
	case LevelError:
		m.logger.Error(event.Message)
	default:
		m.logger.Info(event.Message, "event", event.Level.String())
	}
}
