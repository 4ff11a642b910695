package subtitle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/handiism/ytdl-playlist/internal/http"
)

// Downloader fetches a remote subtitle file to a local path.
//
// Download must not return before the file is completely written.
type Downloader interface {
	Download(ctx context.Context, url, destPath string) error
}

// DefaultCurlPath is the downloader executable looked up in PATH.
const DefaultCurlPath = "curl"

// CurlDownloader downloads with an external curl process.
//
// The process is run as `curl -L -sS -o <dest> -- <url>` and waited for;
// completion is signalled by its exit status, not by polling the file.
type CurlDownloader struct {
	path string
}

// NewCurlDownloader creates a CurlDownloader; an empty path means "curl".
func NewCurlDownloader(path string) *CurlDownloader {
	if path == "" {
		path = DefaultCurlPath
	}
	return &CurlDownloader{path: path}
}

// CurlArgs returns the curl argument vector for a download. The URL comes
// after "--" so it is never read as an option.
func CurlArgs(url, destPath string) []string {
	return []string{"-L", "-sS", "-o", destPath, "--", url}
}

// Download implements Downloader.
func (d *CurlDownloader) Download(ctx context.Context, url, destPath string) error {
	cmd := exec.CommandContext(ctx, d.path, CurlArgs(url, destPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with %d: %s", d.path, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("running %s: %w", d.path, err)
	}
	return nil
}

// HTTPDownloader downloads in-process with the shared HTTP client.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader creates an HTTPDownloader.
func NewHTTPDownloader(client *http.Client) *HTTPDownloader {
	return &HTTPDownloader{client: client}
}

// Download implements Downloader.
func (d *HTTPDownloader) Download(ctx context.Context, url, destPath string) error {
	return d.client.DownloadFile(ctx, url, destPath, nil)
}
