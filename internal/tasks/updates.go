package tasks

import (
	"fmt"

	"github.com/desertthunder/likesync/internal/models"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	ResolveTrack
	DownloadTrack
	TrackDone
	Report
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case ResolveTrack:
		return "resolve_track"
	case DownloadTrack:
		return "download_track"
	case TrackDone:
		return "track_done"
	case Report:
		return "report"
	default:
		return ""
	}
}

func fetchLibraryUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    1,
		Total:   1,
		Message: "Fetching liked tracks from Spotify...",
	}
}

func libraryFetchedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Detected %d liked songs from Spotify.", count),
		Data:    count,
	}
}

func resolveUpdate(step, total int, track models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving %s...", track.DisplayTitle()),
		Data:    track,
	}
}

func downloadUpdate(step, total int, track models.Track, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found: %s at %s", track.DisplayTitle(), url),
		Data:    track,
	}
}

func trackDoneUpdate(step, total int, result TrackResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s: %s", result.Track.DisplayTitle(), result.Outcome),
		Data:    result,
	}
}

func reportUpdate(failed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Report,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d tracks failed", failed),
		Data:    failed,
	}
}
