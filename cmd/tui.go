package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/likesync/internal/matcher"
	"github.com/desertthunder/likesync/internal/shared"
	"github.com/desertthunder/likesync/internal/tasks"
	"github.com/desertthunder/likesync/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for syncing liked songs.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: run 'likesync auth login' first", shared.ErrNotAuthenticated)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/likesync-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	opts, err := r.runOpts(cmd)
	if err != nil {
		return err
	}

	var cache tasks.ResolutionCache
	if repo, closeDB, err := r.openRepository(); err != nil {
		r.logger.Warnf("resolution cache unavailable: %v", err)
	} else {
		defer closeDB()
		cache = repo
	}

	resolver, err := matcher.NewResolver(r.searcher, r.matchConfig())
	if err != nil {
		return err
	}

	engine := tasks.NewDownloadEngine(r.library, resolver, r.downloader, cache, r.logger)

	model := ui.NewModel(ctx, r.library, engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
