// package formatter renders sync run results and cached resolutions to
// various formats (plain text, CSV, JSON).
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/likesync/internal/models"
	"github.com/desertthunder/likesync/internal/shared"
	"github.com/desertthunder/likesync/internal/tasks"
)

// WriteDetectedHeader announces the size of the fetched library.
func WriteDetectedHeader(w io.Writer, count int) {
	fmt.Fprintf(w, "Detected %d liked songs from Spotify.\n", count)
}

// WriteFailureReport prints every failed track, one per line. Nothing
// is written when the failure log is empty.
func WriteFailureReport(w io.Writer, failures tasks.FailureLog) {
	if len(failures) == 0 {
		return
	}

	fmt.Fprintln(w, "The following tracks failed to download:")
	for _, title := range failures {
		fmt.Fprintf(w, ">>> %s\n", title)
	}
}

// RunSummaryText converts a run result to a plain text summary.
func RunSummaryText(result *tasks.RunResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Detected: %d\n", result.Detected))
	buf.WriteString(fmt.Sprintf("Downloaded: %d\n", result.Downloaded))
	buf.WriteString(fmt.Sprintf("Unresolved: %d\n", result.Unresolved))
	buf.WriteString(fmt.Sprintf("Failed: %d\n", result.Failed))

	if len(result.Failures) > 0 {
		buf.WriteString("\n")
		WriteFailureReport(&buf, result.Failures)
	}

	return buf.Bytes()
}

// RunManifest is the JSON shape of a completed sync run.
type RunManifest struct {
	CompletedAt time.Time       `json:"completed_at"`
	Detected    int             `json:"detected"`
	Downloaded  int             `json:"downloaded"`
	Unresolved  int             `json:"unresolved"`
	Failed      int             `json:"failed"`
	Tracks      []manifestTrack `json:"tracks"`
	Failures    []string        `json:"failures,omitempty"`
}

type manifestTrack struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	URL         string  `json:"url,omitempty"`
	Path        string  `json:"path,omitempty"`
	TitleScore  float64 `json:"title_score,omitempty"`
	ArtistScore float64 `json:"artist_score,omitempty"`
	FromCache   bool    `json:"from_cache,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// ToRunManifestJSON converts a run result to an indented JSON manifest.
func ToRunManifestJSON(result *tasks.RunResult) ([]byte, error) {
	manifest := RunManifest{
		CompletedAt: time.Now().UTC(),
		Detected:    result.Detected,
		Downloaded:  result.Downloaded,
		Unresolved:  result.Unresolved,
		Failed:      result.Failed,
		Failures:    result.Failures,
		Tracks:      make([]manifestTrack, 0, len(result.Results)),
	}

	for _, res := range result.Results {
		track := manifestTrack{
			ID:          res.Track.ID,
			Title:       res.Track.DisplayTitle(),
			Status:      res.Outcome.String(),
			URL:         res.Match.URL,
			Path:        res.Path,
			TitleScore:  res.Match.TitleScore,
			ArtistScore: res.Match.ArtistScore,
			FromCache:   res.FromCache,
		}
		if res.Err != nil {
			track.Error = res.Err.Error()
		}
		manifest.Tracks = append(manifest.Tracks, track)
	}

	return shared.MarshalJSON(manifest, true)
}

// WriteRunManifest writes the JSON manifest for a run to the given
// path and returns the path written.
func WriteRunManifest(result *tasks.RunResult, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("likesync_run_%s.json", time.Now().UTC().Format("20060102_150405"))
	}

	data, err := ToRunManifestJSON(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest file: %w", err)
	}

	return path, nil
}

// ReadRunManifest loads a previously written run manifest.
func ReadRunManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest file: %w", err)
	}

	return &manifest, nil
}

// ManifestSummaryText converts a stored run manifest back to the plain
// text run summary.
func ManifestSummaryText(manifest *RunManifest) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Run completed at %s\n\n", manifest.CompletedAt.Local().Format(time.RFC1123)))
	buf.WriteString(fmt.Sprintf("Detected: %d\n", manifest.Detected))
	buf.WriteString(fmt.Sprintf("Downloaded: %d\n", manifest.Downloaded))
	buf.WriteString(fmt.Sprintf("Unresolved: %d\n", manifest.Unresolved))
	buf.WriteString(fmt.Sprintf("Failed: %d\n", manifest.Failed))

	if len(manifest.Failures) > 0 {
		buf.WriteString("\n")
		WriteFailureReport(&buf, manifest.Failures)
	}

	return buf.Bytes()
}

// ResolutionsToCSV converts cached resolutions to CSV with columns:
// TrackID, Title, URL, TitleScore, ArtistScore, ResolvedAt
func ResolutionsToCSV(resolutions []models.Resolution) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"TrackID", "Title", "URL", "TitleScore", "ArtistScore", "ResolvedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range resolutions {
		record := []string{
			res.TrackID,
			res.DisplayTitle,
			res.URL,
			strconv.FormatFloat(res.TitleScore, 'f', 4, 64),
			strconv.FormatFloat(res.ArtistScore, 'f', 4, 64),
			res.ResolvedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ResolutionsToText converts cached resolutions to a numbered plain
// text listing.
func ResolutionsToText(resolutions []models.Resolution) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Cached resolutions: %d\n\n", len(resolutions)))
	for i, res := range resolutions {
		buf.WriteString(fmt.Sprintf("%d. %s -> %s (title %.2f, artist %.2f)\n",
			i+1, res.DisplayTitle, res.URL, res.TitleScore, res.ArtistScore))
	}

	return buf.Bytes()
}
