package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/likesync/internal/formatter"
	"github.com/desertthunder/likesync/internal/matcher"
	"github.com/desertthunder/likesync/internal/repositories"
	"github.com/desertthunder/likesync/internal/shared"
	"github.com/desertthunder/likesync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun resolves and downloads every liked song.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: run 'likesync auth login' first", shared.ErrNotAuthenticated)
	}

	opts, err := r.runOpts(cmd)
	if err != nil {
		return err
	}

	var cache tasks.ResolutionCache
	if !cmd.Bool("no-cache") {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open resolution database: %w", err)
		}
		defer db.Close()

		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		cache = repositories.NewResolutionRepository(db)
	}

	resolver, err := matcher.NewResolver(r.searcher, r.matchConfig())
	if err != nil {
		return err
	}

	engine := tasks.NewDownloadEngine(r.library, resolver, r.downloader, cache, r.logger)

	r.writePlain("Syncing liked songs to %s\n\n", opts.OutputDir)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchLibrary:
				r.writePlain("%s\n", update.Message)
			case tasks.DownloadTrack:
				r.writePlain("  %s\n", update.Message)
			case tasks.TrackDone:
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh, opts)
	close(progressCh)
	<-printerDone

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	formatter.WriteDetectedHeader(r.output, result.Detected)
	r.writePlain("Downloaded: %d\n", result.Downloaded)
	r.writePlain("Unresolved: %d\n", result.Unresolved)
	r.writePlain("Failed: %d\n", result.Failed)

	if len(result.Failures) > 0 {
		r.writePlain("\n")
		formatter.WriteFailureReport(r.output, result.Failures)
	}

	if manifestPath := cmd.String("manifest"); manifestPath != "" {
		written, err := formatter.WriteRunManifest(result, manifestPath)
		if err != nil {
			return err
		}
		r.writePlain("\nManifest written to %s\n", written)
	}

	return nil
}

// SyncReport prints the summary of a previous run from its JSON
// manifest.
func (r *Runner) SyncReport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: manifest path required (likesync sync report <manifest.json>)", shared.ErrInvalidArgument)
	}

	manifest, err := formatter.ReadRunManifest(path)
	if err != nil {
		return err
	}

	r.writePlainHeader("Sync Report")
	return r.writePlain("%s", formatter.ManifestSummaryText(manifest))
}

// runOpts assembles the engine options from flags, falling back to the
// configuration.
func (r *Runner) runOpts(cmd *cli.Command) (tasks.RunOpts, error) {
	outputDir := cmd.String("output")
	if outputDir == "" {
		var err error
		if outputDir, err = r.config.OutputDir(); err != nil {
			return tasks.RunOpts{}, err
		}
	}

	workers := int(cmd.Int("workers"))
	if workers <= 0 {
		workers = r.config.Sync.Workers
	}

	rateLimit := cmd.Float("rate-limit")
	if rateLimit <= 0 {
		rateLimit = r.config.Sync.RateLimit
	}

	return tasks.RunOpts{
		OutputDir:    outputDir,
		AudioFormat:  r.config.Downloader.AudioFormat,
		Workers:      workers,
		RateLimit:    rateLimit,
		TrackTimeout: time.Duration(r.config.Sync.TrackTimeoutSeconds) * time.Second,
	}, nil
}

// matchConfig converts the configured thresholds to a matcher config.
func (r *Runner) matchConfig() matcher.Config {
	m := r.config.Matching
	if m == (shared.MatchingConfig{}) {
		return matcher.DefaultConfig()
	}

	return matcher.Config{
		DurationTolerance: m.DurationToleranceSeconds,
		TitleThreshold:    m.TitleThreshold,
		ArtistThreshold:   m.ArtistThreshold,
		MaxCandidates:     m.MaxCandidates,
	}
}
