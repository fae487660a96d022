package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/likesync/internal/formatter"
	"github.com/desertthunder/likesync/internal/repositories"
	"github.com/desertthunder/likesync/internal/shared"
	"github.com/urfave/cli/v3"
)

// openRepository opens the resolution database and returns the
// repository plus a close function.
func (r *Runner) openRepository() (*repositories.ResolutionRepository, func(), error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open resolution database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewResolutionRepository(db), func() { db.Close() }, nil
}

// CacheList prints every cached track resolution.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	resolutions, err := repo.List()
	if err != nil {
		return err
	}

	switch format := cmd.String("format"); format {
	case "json":
		return r.writeJSON(resolutions, true)
	case "csv":
		data, err := formatter.ResolutionsToCSV(resolutions)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "text":
		return r.writePlain("%s", formatter.ResolutionsToText(resolutions))
	default:
		return fmt.Errorf("%w: unknown format %q (must be text, csv, or json)", shared.ErrInvalidArgument, format)
	}
}

// CacheClear deletes every cached resolution.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	cleared, err := repo.Clear()
	if err != nil {
		return err
	}

	r.logger.Infof("cleared %d cached resolutions", cleared)
	return r.writePlain("✓ Cleared %d cached resolutions\n", cleared)
}
