package subtitle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ioutils "github.com/handiism/ytdl-playlist/internal/io"
	"golang.org/x/sync/singleflight"
)

// ErrNoDirectory is returned when no candidate directory accepts new files.
var ErrNoDirectory = errors.New("no writable subtitle directory")

// DirResolver finds the directory subtitle files are written to.
//
// Candidates are tried in order: the configured override, the user's
// Documents folder (Windows profile first, then the Unix home), and the
// OS temporary directory. Each is tested by creating and deleting a probe
// file. The first writable directory is cached; concurrent first calls
// share a single probe.
type DirResolver struct {
	// Candidates are tried in order after the override.
	Candidates []string

	// OnProbeError, when set, is called for every candidate that fails.
	OnProbeError func(dir string, err error)

	override string
	group    singleflight.Group

	mu  sync.Mutex
	dir string
}

// NewDirResolver creates a resolver. An empty override uses only the defaults.
func NewDirResolver(override string) *DirResolver {
	return &DirResolver{
		Candidates: DefaultCandidates(),
		override:   override,
	}
}

// DefaultCandidates returns the Documents folders followed by the temp dir.
func DefaultCandidates() []string {
	var dirs []string
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		dirs = append(dirs, filepath.Join(profile, "Documents"))
	}
	if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, "Documents"))
	}
	return append(dirs, os.TempDir())
}

// Resolve returns the first writable candidate directory.
func (r *DirResolver) Resolve() (string, error) {
	r.mu.Lock()
	dir := r.dir
	r.mu.Unlock()
	if dir != "" {
		return dir, nil
	}

	v, err, _ := r.group.Do("dir", func() (interface{}, error) {
		dir, err := r.probe()
		if err != nil {
			return "", err
		}
		r.mu.Lock()
		r.dir = dir
		r.mu.Unlock()
		return dir, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *DirResolver) probe() (string, error) {
	if r.override != "" {
		err := ioutils.EnsureDir(r.override)
		if err == nil {
			err = ioutils.CheckWritable(r.override)
		}
		if err == nil {
			return r.override, nil
		}
		r.reportProbeError(r.override, err)
	}

	for _, dir := range r.Candidates {
		if err := ioutils.CheckWritable(dir); err != nil {
			r.reportProbeError(dir, err)
			continue
		}
		return dir, nil
	}

	return "", fmt.Errorf("%w (tried %d candidates)", ErrNoDirectory, len(r.Candidates))
}

func (r *DirResolver) reportProbeError(dir string, err error) {
	if r.OnProbeError != nil {
		r.OnProbeError(dir, err)
	}
}
