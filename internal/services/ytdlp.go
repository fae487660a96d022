// YouTube search and download backend driven by the yt-dlp binary.
//
// Search uses yt-dlp's JSON dump mode against a ytsearchN: query;
// Download extracts and transcodes audio. Both shell out rather than
// linking an extractor library, so the backend tracks yt-dlp updates
// without rebuilds.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/desertthunder/likesync/internal/models"
	"github.com/desertthunder/likesync/internal/shared"
)

// runnerFunc executes a command and returns its combined output.
// Swappable in tests so no yt-dlp binary is needed.
type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()
	return output.Bytes(), err
}

// ytdlpEntry is one search-result entry in yt-dlp's JSON dump.
type ytdlpEntry struct {
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Duration   *float64 `json:"duration"`
	WebpageURL string   `json:"webpage_url"`
}

type ytdlpSearchResult struct {
	Entries []ytdlpEntry `json:"entries"`
}

// YTDLPService implements [Searcher] and [Downloader] over the yt-dlp
// binary.
type YTDLPService struct {
	binary       string
	audioFormat  string
	audioQuality string
	run          runnerFunc
}

// NewYTDLPService creates a yt-dlp backed service. Empty arguments
// fall back to "yt-dlp", "mp3" and "320K".
func NewYTDLPService(binary, audioFormat, audioQuality string) *YTDLPService {
	if binary == "" {
		binary = "yt-dlp"
	}
	if audioFormat == "" {
		audioFormat = "mp3"
	}
	if audioQuality == "" {
		audioQuality = "320K"
	}

	return &YTDLPService{
		binary:       binary,
		audioFormat:  audioFormat,
		audioQuality: audioQuality,
		run:          runCommand,
	}
}

func (y *YTDLPService) Name() string {
	return "YouTube"
}

// Search runs a ytsearch query and returns up to limit candidates in
// result order. Entries without a reported duration are kept with
// duration zero so the duration gate rejects them instead of the
// parser.
func (y *YTDLPService) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	output, err := y.run(ctx, y.binary,
		"-J",
		"--no-warnings",
		"--no-playlist",
		fmt.Sprintf("ytsearch%d:%s", limit, query),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp: %v: %s", shared.ErrSearchFailed, err, strings.TrimSpace(string(output)))
	}

	var result ytdlpSearchResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse yt-dlp output: %v", shared.ErrSearchFailed, err)
	}

	candidates := make([]models.Candidate, 0, len(result.Entries))
	for _, entry := range result.Entries {
		candidate := models.Candidate{
			Title:  entry.Title,
			Artist: entry.Artist,
			URL:    entry.WebpageURL,
		}
		if entry.Duration != nil {
			candidate.Duration = *entry.Duration
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// Download retrieves the item at url and transcodes it to the
// configured audio format at dest. dest's extension is replaced by
// yt-dlp's output template.
func (y *YTDLPService) Download(ctx context.Context, url, dest string) error {
	stem := strings.TrimSuffix(dest, filepath.Ext(dest))

	output, err := y.run(ctx, y.binary,
		"--format", "bestaudio",
		"--extract-audio",
		"--audio-format", y.audioFormat,
		"--audio-quality", y.audioQuality,
		"--no-playlist",
		"--no-overwrites",
		"--output", stem+".%(ext)s",
		url,
	)
	if err != nil {
		return fmt.Errorf("%w: yt-dlp: %v: %s", shared.ErrDownloadFailed, err, strings.TrimSpace(string(output)))
	}

	return nil
}
