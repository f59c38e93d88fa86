package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielrz/musicfetch/internal/downloader"
	"github.com/danielrz/musicfetch/internal/tui"
	"github.com/danielrz/musicfetch/internal/web"
)

func main() {
	var (
		dialectName string
		inputPath   string
		artist      string
		serveAddr   string
		noTUI       bool
		maxResults  int
	)
	var opts downloader.Options

	flag.StringVar(&dialectName, "dialect", "none", "paste dialect: none, chat, mix, nightcore")
	flag.StringVar(&inputPath, "f", "", "read the pasted song list from a file instead of stdin")
	flag.StringVar(&artist, "artist", "", "resolve many tracks from one artist keyword instead of per-line queries")
	flag.StringVar(&opts.DestDir, "o", "downloads", "destination directory for the MP3 files")
	flag.DurationVar(&opts.MaxDuration, "max-duration", downloader.DefaultMaxDuration, "longest acceptable video duration")
	flag.IntVar(&maxResults, "max-results", downloader.DefaultArtistResults, "track cap for artist mode")
	flag.StringVar(&serveAddr, "serve", "", "run the HTTP API on this address instead of a batch run (e.g. :8080)")
	flag.DurationVar(&opts.Timeout, "timeout", 3*time.Minute, "per-request timeout")
	flag.BoolVar(&opts.Quiet, "quiet", false, "suppress progress output (errors still shown)")
	flag.BoolVar(&opts.JSON, "json", false, "emit JSON output (suppresses human-readable progress)")
	flag.BoolVar(&opts.IsolateResolveErrors, "isolate-resolve-errors", false, "record search transport failures per item instead of aborting the run")
	flag.BoolVar(&noTUI, "no-tui", false, "plain line output even on a terminal")
	flag.Parse()

	opts.MaxResults = maxResults
	if opts.JSON {
		opts.Quiet = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	search := downloader.NewInnertubeSearch(opts.Timeout)

	if serveAddr != "" {
		err := web.ListenAndServe(ctx, serveAddr, search, web.Config{
			MaxDuration: opts.MaxDuration,
			MaxResults:  opts.MaxResults,
			Timeout:     opts.Timeout,
		})
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var queries []string
	if artist == "" {
		dialect, err := downloader.ParseDialect(dialectName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			flag.PrintDefaults()
			os.Exit(2)
		}

		raw, err := readPaste(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		normalized := downloader.Normalize(raw, dialect, downloader.Normalized{})
		queries = downloader.CleanQueries(normalized.Queries)
		if len(queries) == 0 {
			fmt.Fprintln(os.Stderr, "nothing to download: the paste produced no queries")
			os.Exit(2)
		}
	}

	useTUI := !noTUI && !opts.Quiet && !opts.JSON && isTerminal(os.Stderr)

	var err error
	if useTUI {
		err = runWithTUI(ctx, search, opts, queries, artist)
	} else {
		err = runPlain(ctx, search, opts, queries, artist)
	}
	if err != nil {
		if opts.JSON {
			downloader.WriteJSONError(artist, err)
		} else if !downloader.IsReported(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(downloader.ExitCode(err))
	}
}

func runPlain(ctx context.Context, search downloader.SearchClient, opts downloader.Options, queries []string, artist string) error {
	pipeline := downloader.NewPipeline(search, opts)
	if artist != "" {
		_, err := pipeline.RunArtist(ctx, artist)
		return err
	}
	_, err := pipeline.Run(ctx, queries)
	return err
}

func runWithTUI(ctx context.Context, search downloader.SearchClient, opts downloader.Options, queries []string, artist string) error {
	statuses := make(chan downloader.Status, 64)
	done := make(chan error, 1)

	opts.Quiet = true
	opts.OnStatus = func(s downloader.Status) {
		select {
		case statuses <- s:
		default:
		}
	}

	go func() {
		done <- runPlain(ctx, search, opts, queries, artist)
		close(statuses)
	}()

	return tui.Run(statuses, done)
}

func readPaste(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
