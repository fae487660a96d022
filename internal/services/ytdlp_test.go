package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/desertthunder/likesync/internal/shared"
)

func TestNewYTDLPService(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc := NewYTDLPService("", "", "")
		if svc.binary != "yt-dlp" || svc.audioFormat != "mp3" || svc.audioQuality != "320K" {
			t.Errorf("defaults = %q/%q/%q", svc.binary, svc.audioFormat, svc.audioQuality)
		}
	})

	t.Run("overrides kept", func(t *testing.T) {
		svc := NewYTDLPService("/usr/local/bin/yt-dlp", "opus", "192K")
		if svc.binary != "/usr/local/bin/yt-dlp" || svc.audioFormat != "opus" || svc.audioQuality != "192K" {
			t.Errorf("overrides = %q/%q/%q", svc.binary, svc.audioFormat, svc.audioQuality)
		}
	})
}

func TestYTDLPSearch(t *testing.T) {
	t.Run("builds ytsearch query", func(t *testing.T) {
		var gotArgs []string
		svc := NewYTDLPService("", "", "")
		svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotArgs = args
			return []byte(`{"entries": []}`), nil
		}

		if _, err := svc.Search(context.Background(), "Drake - One Dance autogenerated", 5); err != nil {
			t.Fatalf("Search: %v", err)
		}
		if !slices.Contains(gotArgs, "ytsearch5:Drake - One Dance autogenerated") {
			t.Errorf("args = %v, missing ytsearch term", gotArgs)
		}
		if !slices.Contains(gotArgs, "-J") || !slices.Contains(gotArgs, "--no-playlist") {
			t.Errorf("args = %v, missing JSON dump flags", gotArgs)
		}
	})

	t.Run("parses entries in result order", func(t *testing.T) {
		svc := NewYTDLPService("", "", "")
		svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte(`{"entries": [
				{"title": "One Dance", "artist": "Drake", "duration": 173.0, "webpage_url": "https://youtube.com/watch?v=1"},
				{"title": "One Dance (Lyrics)", "duration": 175.5, "webpage_url": "https://youtube.com/watch?v=2"}
			]}`), nil
		}

		candidates, err := svc.Search(context.Background(), "q", 5)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("got %d candidates, want 2", len(candidates))
		}
		if candidates[0].Artist != "Drake" || candidates[0].Duration != 173.0 {
			t.Errorf("first candidate = %+v", candidates[0])
		}
		if candidates[1].Artist != "" || candidates[1].URL != "https://youtube.com/watch?v=2" {
			t.Errorf("second candidate = %+v", candidates[1])
		}
	})

	t.Run("missing duration becomes zero", func(t *testing.T) {
		svc := NewYTDLPService("", "", "")
		svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte(`{"entries": [{"title": "Live Stream", "duration": null, "webpage_url": "https://youtube.com/watch?v=3"}]}`), nil
		}

		candidates, err := svc.Search(context.Background(), "q", 5)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if candidates[0].Duration != 0 {
			t.Errorf("duration = %v, want 0", candidates[0].Duration)
		}
	})

	t.Run("command failure wraps sentinel with output", func(t *testing.T) {
		svc := NewYTDLPService("", "", "")
		svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("ERROR: no internet\n"), fmt.Errorf("exit status 1")
		}

		_, err := svc.Search(context.Background(), "q", 5)
		if !errors.Is(err, shared.ErrSearchFailed) {
			t.Fatalf("expected ErrSearchFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "no internet") {
			t.Errorf("error should carry command output: %v", err)
		}
	})

	t.Run("unparseable output wraps sentinel", func(t *testing.T) {
		svc := NewYTDLPService("", "", "")
		svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("not json"), nil
		}

		if _, err := svc.Search(context.Background(), "q", 5); !errors.Is(err, shared.ErrSearchFailed) {
			t.Errorf("expected ErrSearchFailed, got %v", err)
		}
	})
}

func TestYTDLPDownload(t *testing.T) {
	t.Run("builds extraction args", func(t *testing.T) {
		var gotArgs []string
		svc := NewYTDLPService("", "mp3", "320K")
		svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotArgs = args
			return nil, nil
		}

		err := svc.Download(context.Background(), "https://youtube.com/watch?v=1", "/tmp/out/Drake - One Dance.mp3")
		if err != nil {
			t.Fatalf("Download: %v", err)
		}

		for _, want := range []string{
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", "320K",
			"--output", "/tmp/out/Drake - One Dance.%(ext)s",
			"https://youtube.com/watch?v=1",
		} {
			if !slices.Contains(gotArgs, want) {
				t.Errorf("args = %v, missing %q", gotArgs, want)
			}
		}
	})

	t.Run("command failure wraps sentinel", func(t *testing.T) {
		svc := NewYTDLPService("", "", "")
		svc.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("ERROR: video unavailable"), fmt.Errorf("exit status 1")
		}

		err := svc.Download(context.Background(), "https://youtube.com/watch?v=gone", "/tmp/x.mp3")
		if !errors.Is(err, shared.ErrDownloadFailed) {
			t.Fatalf("expected ErrDownloadFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "video unavailable") {
			t.Errorf("error should carry command output: %v", err)
		}
	})
}
