package subtitle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/handiism/ytdl-playlist/internal/model"
)

func TestDirResolver_FirstWritable(t *testing.T) {
	good := t.TempDir()
	r := &DirResolver{Candidates: []string{filepath.Join(t.TempDir(), "missing"), good}}

	var failed []string
	r.OnProbeError = func(dir string, err error) { failed = append(failed, dir) }

	dir, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if dir != good {
		t.Errorf("Resolve() = %q, want %q", dir, good)
	}
	if len(failed) != 1 {
		t.Errorf("probe errors reported = %v, want 1", failed)
	}
}

func TestDirResolver_Override(t *testing.T) {
	override := filepath.Join(t.TempDir(), "subs")
	r := NewDirResolver(override)
	r.Candidates = nil

	dir, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if dir != override {
		t.Errorf("Resolve() = %q, want %q", dir, override)
	}
	if info, err := os.Stat(override); err != nil || !info.IsDir() {
		t.Error("override directory should be created")
	}
}

func TestDirResolver_NoneWritable(t *testing.T) {
	r := &DirResolver{Candidates: []string{filepath.Join(t.TempDir(), "missing")}}
	if _, err := r.Resolve(); !errors.Is(err, ErrNoDirectory) {
		t.Errorf("Resolve() error = %v, want ErrNoDirectory", err)
	}
}

func TestDirResolver_Cached(t *testing.T) {
	first := t.TempDir()
	r := &DirResolver{Candidates: []string{first}}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.Resolve()
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != first {
			t.Errorf("results[%d] = %q, want %q", i, got, first)
		}
	}

	r.Candidates = []string{t.TempDir()}
	if dir, _ := r.Resolve(); dir != first {
		t.Errorf("cached dir changed to %q", dir)
	}
}

func TestDefaultCandidates(t *testing.T) {
	t.Setenv("USERPROFILE", "")
	t.Setenv("HOME", "/home/alice")

	got := DefaultCandidates()
	want := []string{filepath.Join("/home/alice", "Documents"), os.TempDir()}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DefaultCandidates() = %v, want %v", got, want)
	}
}

func TestCurlArgs(t *testing.T) {
	got := CurlArgs("https://x/s.vtt", "/tmp/a_vtt.vtt")
	want := []string{"-L", "-sS", "-o", "/tmp/a_vtt.vtt", "--", "https://x/s.vtt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CurlArgs = %v, want %v", got, want)
	}
}

func TestCurlDownloader_URLNeverAnOption(t *testing.T) {
	argv := filepath.Join(t.TempDir(), "argv")
	script := writeScript(t, `printf '%s\n' "$@" > "`+argv+`"; printf 'WEBVTT' > "$4"`)
	dest := filepath.Join(t.TempDir(), "a_vtt.vtt")

	if err := NewCurlDownloader(script).Download(context.Background(), "--config=/etc/passwd", dest); err != nil {
		t.Fatalf("Download: %v", err)
	}

	data, err := os.ReadFile(argv)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"-L", "-sS", "-o", dest, "--", "--config=/etc/passwd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("argv = %q, want %q", got, want)
	}
}

// writeScript creates an executable shell script standing in for curl.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "fake-curl")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCurlDownloader_WaitsForExit(t *testing.T) {
	script := writeScript(t, `sleep 0.2; printf 'WEBVTT' > "$4"`)
	dest := filepath.Join(t.TempDir(), "a_vtt.vtt")

	if err := NewCurlDownloader(script).Download(context.Background(), "https://x/s.vtt", dest); err != nil {
		t.Fatalf("Download: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil || string(got) != "WEBVTT" {
		t.Errorf("file = %q, %v", got, err)
	}
}

func TestCurlDownloader_ExitStatus(t *testing.T) {
	script := writeScript(t, `echo "curl: (22) 404" >&2; exit 22`)

	err := NewCurlDownloader(script).Download(context.Background(), "https://x/s.vtt", filepath.Join(t.TempDir(), "x"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNewCurlDownloader_Default(t *testing.T) {
	if d := NewCurlDownloader(""); d.path != DefaultCurlPath {
		t.Errorf("path = %q, want %q", d.path, DefaultCurlPath)
	}
}

type fakeDownloader struct {
	content []byte
	err     error
	gotURL  string
}

func (f *fakeDownloader) Download(ctx context.Context, url, destPath string) error {
	f.gotURL = url
	if f.content != nil {
		if err := os.WriteFile(destPath, f.content, 0644); err != nil {
			return err
		}
	}
	return f.err
}

func TestFetcher_Fetch(t *testing.T) {
	dir := t.TempDir()
	dl := &fakeDownloader{content: []byte("WEBVTT\n")}
	f := NewFetcher(&DirResolver{Candidates: []string{dir}}, dl)

	sub := model.Subtitle{Language: "en", Ext: "vtt", URL: "https://x/s.vtt"}
	path, err := f.Fetch(context.Background(), "abc123", sub)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if want := filepath.Join(dir, "abc123_vtt.vtt"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if dl.gotURL != sub.URL {
		t.Errorf("downloaded %q, want %q", dl.gotURL, sub.URL)
	}
}

func TestFetcher_SanitizesID(t *testing.T) {
	dir := t.TempDir()
	f := NewFetcher(&DirResolver{Candidates: []string{dir}}, &fakeDownloader{content: []byte("WEBVTT\n")})

	path, err := f.Fetch(context.Background(), "../a:b", model.Subtitle{Ext: "vtt", URL: "https://x/s.vtt"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if want := filepath.Join(dir, ".._a_b_vtt.vtt"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

func TestFetcher_UnsupportedURL(t *testing.T) {
	tests := []string{
		"",
		"file:///etc/passwd",
		"--output=/tmp/x",
		"ftp://x/s.vtt",
	}

	for _, rawURL := range tests {
		t.Run(rawURL, func(t *testing.T) {
			dl := &fakeDownloader{content: []byte("x")}
			f := NewFetcher(&DirResolver{Candidates: []string{t.TempDir()}}, dl)

			_, err := f.Fetch(context.Background(), "abc123", model.Subtitle{Ext: "vtt", URL: rawURL})
			if !errors.Is(err, ErrUnsupportedURL) {
				t.Errorf("Fetch error = %v, want ErrUnsupportedURL", err)
			}
			if dl.gotURL != "" {
				t.Errorf("downloader called with %q", dl.gotURL)
			}
		})
	}
}

func TestFetcher_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	f := NewFetcher(&DirResolver{Candidates: []string{dir}}, &fakeDownloader{content: []byte{}})

	_, err := f.Fetch(context.Background(), "abc123", model.Subtitle{Ext: "srt", URL: "https://x/s.srt"})
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("Fetch error = %v, want ErrEmptyFile", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "abc123_srt.srt")); !os.IsNotExist(err) {
		t.Error("empty file should be removed")
	}
}

func TestFetcher_DownloadError(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	f := NewFetcher(&DirResolver{Candidates: []string{dir}}, &fakeDownloader{content: []byte("partial"), err: boom})

	_, err := f.Fetch(context.Background(), "abc123", model.Subtitle{Ext: "vtt", URL: "https://x/s.vtt"})
	if !errors.Is(err, boom) {
		t.Fatalf("Fetch error = %v, want boom", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "abc123_vtt.vtt")); !os.IsNotExist(err) {
		t.Error("partial file should be removed")
	}
}

func TestFetcher_MissingID(t *testing.T) {
	f := NewFetcher(&DirResolver{Candidates: []string{t.TempDir()}}, &fakeDownloader{})
	if _, err := f.Fetch(context.Background(), "", model.Subtitle{Ext: "vtt"}); !errors.Is(err, ErrMissingID) {
		t.Errorf("Fetch error = %v, want ErrMissingID", err)
	}
}
