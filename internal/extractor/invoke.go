package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/lrstanley/go-ytdlp"
)

// DefaultFormatSelector prefers separate video (capped at 1080p) and audio
// streams, falling back to the best pre-merged stream under the same cap.
const DefaultFormatSelector = "bestvideo[height<=1080]+bestaudio/best[height<=1080]"

// DefaultTools lists the extractor executables tried in order.
var DefaultTools = []string{"yt-dlp", "youtube-dl"}

// ErrUnavailable is returned when none of the configured tools produced output.
var ErrUnavailable = errors.New("extractor unavailable")

// Output is what one tool run printed.
type Output struct {
	// Args is the argument vector the tool was started with, excluding
	// the executable.
	Args []string

	// Stdout is the tool's standard output.
	Stdout []byte
}

// Runner executes one extractor tool against a URL.
//
// Implementations may return output together with an error (for example a
// non-zero exit after a partially extracted playlist). A nil Output means
// the tool never ran.
type Runner interface {
	Run(ctx context.Context, tool, url string) (*Output, error)
}

// Invocation is the outcome of a successful extractor run.
type Invocation struct {
	// Tool is the executable that produced the output.
	Tool string

	// Args is the argument vector Tool was started with.
	Args []string

	// Records are the decoded entries, in output order.
	Records []*Record

	// ExitErr is set when the tool produced output but still reported failure.
	ExitErr error
}

// Invoker runs the extractor, falling back through the configured tools.
//
// Example:
//
//	inv := NewInvoker(DefaultTools, NewYtdlpRunner(DefaultFormatSelector))
//	res, err := inv.Invoke(ctx, "https://www.youtube.com/watch?v=abc123")
//	if err != nil {
//	    return err // errors.Is(err, ErrUnavailable)
//	}
//	fmt.Println(res.Tool, len(res.Records))
type Invoker struct {
	tools  []string
	runner Runner
}

// NewInvoker creates an Invoker trying tools in order with the given runner.
func NewInvoker(tools []string, runner Runner) *Invoker {
	return &Invoker{
		tools:  tools,
		runner: runner,
	}
}

// Tools returns the executables tried, in order.
func (i *Invoker) Tools() []string {
	return i.tools
}

// Invoke runs the first tool that yields readable output.
//
// A tool that fails to start, or exits without printing anything, is
// treated as unavailable and the next one is tried. When all fail the
// returned error wraps ErrUnavailable and the last cause.
func (i *Invoker) Invoke(ctx context.Context, url string) (*Invocation, error) {
	var lastErr error

	for _, tool := range i.tools {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := i.runner.Run(ctx, tool, url)
		if out == nil || len(bytes.TrimSpace(out.Stdout)) == 0 {
			if err == nil {
				err = errors.New("no output")
			}
			lastErr = fmt.Errorf("%s: %w", tool, err)
			continue
		}

		return &Invocation{
			Tool:    tool,
			Args:    out.Args,
			Records: Decode(bytes.NewReader(out.Stdout)),
			ExitErr: err,
		}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no extractor tools configured")
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

// YtdlpRunner runs youtube-dl compatible tools through go-ytdlp.
type YtdlpRunner struct {
	formatSelector string
}

// NewYtdlpRunner creates a runner using the given format selector.
func NewYtdlpRunner(formatSelector string) *YtdlpRunner {
	if formatSelector == "" {
		formatSelector = DefaultFormatSelector
	}
	return &YtdlpRunner{formatSelector: formatSelector}
}

// Run implements Runner. The call blocks until the tool exits.
//
// The tool is started as
//
//	<tool> --flat-playlist --dump-json --format <selector> --write-subs --write-auto-subs -- <url>
//
// with the URL after "--" so it is never read as an option.
func (r *YtdlpRunner) Run(ctx context.Context, tool, url string) (*Output, error) {
	cmd := ytdlp.New().
		SetExecutable(tool).
		DumpJSON().
		FlatPlaylist().
		WriteSubs().
		WriteAutoSubs().
		Format(r.formatSelector)

	result, err := cmd.Run(ctx, "--", url)
	if result == nil {
		return nil, err
	}
	return &Output{Args: result.Args, Stdout: []byte(result.Stdout)}, err
}
