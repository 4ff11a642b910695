package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/ytdl-playlist/internal/config"
	"github.com/handiism/ytdl-playlist/internal/resolve"
)

func main() {
	// Command line flags
	var (
		urlFlag       = flag.String("url", "", "Video or playlist page URL to resolve")
		outputFlag    = flag.String("output", "", "Write the playlist to this file instead of stdout")
		configFlag    = flag.String("config", "", "Path to config file (.json, .yaml or .yml)")
		formatFlag    = flag.String("format", "", "Playlist format: m3u, pls, xspf or json (overrides config)")
		noSubsFlag    = flag.Bool("no-subs", false, "Do not download subtitles")
		skipProbeFlag = flag.Bool("skip-probe", false, "Run the extractor without probing the page first")
		probeOnlyFlag = flag.Bool("probe-only", false, "Only report whether the URL would be handled")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	// CLI mode - require URL
	if *urlFlag == "" && flag.NArg() == 0 {
		fmt.Println("ytdl-playlist - Turn video pages into playable playlists")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ytdl-playlist -url <URL> [options]")
		fmt.Println("  ytdl-playlist [options] <URL>")
		fmt.Println()
		fmt.Println("For interactive mode, use: ytdl-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *formatFlag != "" {
		settings.PlaylistFormat = *formatFlag
	}
	if *noSubsFlag {
		settings.Subtitles = false
	}
	if *skipProbeFlag {
		settings.SkipProbe = true
	}

	// Get URL
	url := *urlFlag
	if url == "" && flag.NArg() > 0 {
		url = flag.Arg(0)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	// Progress goes to stderr; stdout carries the playlist.
	manager := resolve.NewManager(settings, func(event resolve.ProgressEvent) {
		if event.Level == resolve.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case resolve.LevelError:
			prefix = "✗ "
		case resolve.LevelWarning:
			prefix = "! "
		case resolve.LevelSuccess:
			prefix = "✓ "
		case resolve.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Fprintln(os.Stderr, prefix+event.Message)
	})

	if *probeOnlyFlag {
		handled, err := manager.Probe(ctx, url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error probing: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(handled)
		if !handled {
			os.Exit(2)
		}
		return
	}

	items, err := manager.Resolve(ctx, url)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			fmt.Fprintln(os.Stderr, "Resolution cancelled.")
			os.Exit(130)
		case errors.Is(err, resolve.ErrNotHandled):
			fmt.Fprintf(os.Stderr, "%v (use -skip-probe to force)\n", err)
			os.Exit(2)
		default:
			fmt.Fprintf(os.Stderr, "Error resolving: %v\n", err)
			os.Exit(1)
		}
	}

	if *outputFlag != "" {
		if err := manager.WritePlaylist(ctx, *outputFlag, items); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing playlist: %v\n", err)
			os.Exit(1)
		}
		return
	}

	content, err := manager.CreatePlaylist(items)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating playlist: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(content)
}
