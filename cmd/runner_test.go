package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/likesync/internal/matcher"
	"github.com/desertthunder/likesync/internal/shared"
	mocks "github.com/desertthunder/likesync/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestNewRunner(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})

		if r.config == nil {
			t.Error("expected default config")
		}
		if r.logger == nil {
			t.Error("expected default logger")
		}
		if r.output != os.Stdout {
			t.Error("expected stdout output")
		}
		if r.searcher == nil || r.downloader == nil {
			t.Error("expected yt-dlp backed searcher and downloader defaults")
		}
	})

	t.Run("provided collaborators kept", func(t *testing.T) {
		library := &mocks.MockLibrary{}
		search := &mocks.MockSearcher{}
		downloader := &mocks.MockDownloader{}
		var buf bytes.Buffer

		r := NewRunner(RunnerOpts{
			Library:    library,
			Searcher:   search,
			Downloader: downloader,
			Output:     &buf,
		})

		if r.library != library {
			t.Error("library not stored")
		}
		if r.searcher != search || r.downloader != downloader {
			t.Error("search backends not stored")
		}
		if r.output != &buf {
			t.Error("output not stored")
		}
	})

	t.Run("registers all commands", func(t *testing.T) {
		r := NewRunner(RunnerOpts{})
		commands := r.register()

		names := make([]string, len(commands))
		for i, c := range commands {
			names[i] = c.Name
		}

		for _, want := range []string{"setup", "auth", "sync", "cache", "tui"} {
			found := false
			for _, name := range names {
				if name == want {
					found = true
				}
			}
			if !found {
				t.Errorf("commands = %v, missing %q", names, want)
			}
		}
	})
}

func TestRunnerOutput(t *testing.T) {
	t.Run("writePlain", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("writePlain: %v", err)
		}
		if buf.String() != "hello world\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("writePlainln pads with newlines", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writePlainln("done"); err != nil {
			t.Fatalf("writePlainln: %v", err)
		}
		if buf.String() != "\ndone\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(map[string]int{"count": 3}, false); err != nil {
			t.Fatalf("writeJSON: %v", err)
		}
		if buf.String() != "{\"count\":3}\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("writeJSON pretty", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writeJSON(map[string]int{"count": 3}, true); err != nil {
			t.Fatalf("writeJSON: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"count\": 3\n") {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("write failure surfaces", func(t *testing.T) {
		r := NewRunner(RunnerOpts{Output: &mocks.FWriter{}})
		if err := r.writePlain("x"); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("writePlainHeader frames the title", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		r.writePlainHeader("Sync Complete")
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 || lines[1] != "Sync Complete" {
			t.Errorf("got %q", buf.String())
		}
	})
}

func TestMatchConfig(t *testing.T) {
	t.Run("empty matching section falls back to defaults", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Matching = shared.MatchingConfig{}
		r := NewRunner(RunnerOpts{Config: config})

		if got := r.matchConfig(); got != matcher.DefaultConfig() {
			t.Errorf("got %+v, want defaults", got)
		}
	})

	t.Run("configured thresholds map through", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Matching = shared.MatchingConfig{
			DurationToleranceSeconds: 15,
			TitleThreshold:           0.8,
			ArtistThreshold:          0.1,
			MaxCandidates:            10,
		}
		r := NewRunner(RunnerOpts{Config: config})

		got := r.matchConfig()
		want := matcher.Config{
			DurationTolerance: 15,
			TitleThreshold:    0.8,
			ArtistThreshold:   0.1,
			MaxCandidates:     10,
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})
}

func TestSyncRunRequiresAuth(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerOpts{Output: &buf})

	err := r.SyncRun(context.Background(), &cli.Command{})
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}
