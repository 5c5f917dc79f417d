package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cfm-gis/unarchive"
	"golang.org/x/sync/errgroup"
)

// CLI are the cli parameters for the unarchive binary
type CLI struct {
	Archives          []string         `arg:"" name:"archive" help:"Path to one or more archives." type:"existingfile"`
	CacheInMemory     bool             `short:"c" help:"Cache streamed input in memory instead of a temp file."`
	Destination       string           `short:"d" default:"." help:"Output directory."`
	MaxFiles          int64            `optional:"" default:"100000" help:"Maximum entries processed per archive. (disable check: -1)"`
	MaxExtractionSize int64            `optional:"" default:"1073741824" help:"Maximum extraction size in bytes. (disable check: -1)"`
	MaxInputSize      int64            `optional:"" default:"1073741824" help:"Maximum input size in bytes. (disable check: -1)"`
	NativeUnrar       bool             `short:"N" help:"Use the native unrar binary for modern rar archives."`
	NoOverwrite       bool             `short:"n" help:"Fail instead of overwriting existing files."`
	SubprocessTimeout int64            `optional:"" default:"60" help:"Maximum native unrar runtime in seconds."`
	Telemetry         bool             `short:"T" optional:"" default:"false" help:"Print telemetry to log after extraction."`
	Verbose           bool             `short:"v" optional:"" help:"Verbose logging."`
	Version           kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// Run is the entrypoint into unarchive as a cli tool
func Run(version, commit, date string) {
	ctx := context.Background()
	var cli CLI
	kong.Parse(&cli,
		kong.Description("Extract zip and rar archives, routed by byte content"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	// check for verbose output
	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// setup telemetry hook
	telemetryToLog := func(ctx context.Context, td *unarchive.TelemetryData) {
		if cli.Telemetry {
			logger.Info("extraction finished", "telemetry", td)
		}
	}

	// process cli params
	cfg := unarchive.NewConfig(
		unarchive.WithCacheInMemory(cli.CacheInMemory),
		unarchive.WithLogger(logger),
		unarchive.WithMaxExtractionSize(cli.MaxExtractionSize),
		unarchive.WithMaxFiles(cli.MaxFiles),
		unarchive.WithMaxInputSize(cli.MaxInputSize),
		unarchive.WithNativeUnrar(cli.NativeUnrar),
		unarchive.WithOverwrite(!cli.NoOverwrite),
		unarchive.WithSubprocessTimeout(time.Duration(cli.SubprocessTimeout)*time.Second),
		unarchive.WithTelemetryHook(telemetryToLog),
	)

	// one extractor shared across all archives, so the native binary is
	// provisioned at most once
	ex := unarchive.New(cfg)
	defer ex.Close()

	g, ctx := errgroup.WithContext(ctx)
	for _, archive := range cli.Archives {
		archive := archive
		g.Go(func() error {
			dst := cli.Destination
			if len(cli.Archives) > 1 {
				stem := strings.TrimSuffix(filepath.Base(archive), filepath.Ext(archive))
				dst = filepath.Join(cli.Destination, stem)
			}
			if err := os.MkdirAll(dst, 0750); err != nil {
				return fmt.Errorf("cannot create destination: %w", err)
			}

			f, err := os.Open(archive)
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := ex.Unpack(ctx, f, dst)
			if err != nil {
				return fmt.Errorf("%s: %w", archive, err)
			}
			logger.Info("extracted archive", "archive", archive, "destination", dst, "files", res.Extracted, "skipped", res.Skipped)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
}
