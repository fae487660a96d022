// package services defines interfaces for the external collaborators:
// the streaming catalog (Spotify) and the video search/download
// backend (yt-dlp).
package services

import (
	"context"

	"github.com/desertthunder/likesync/internal/models"
)

// Library lists a user's liked tracks from a streaming catalog.
type Library interface {
	// Authenticate performs OAuth or token authentication with the
	// catalog. Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// LikedTracks retrieves every liked track for the authenticated
	// user as canonical, normalized Track records.
	LikedTracks(ctx context.Context) ([]models.Track, error)

	// Name returns the name of the service (e.g. "Spotify")
	Name() string
}

// Searcher queries the video index for download candidates.
type Searcher interface {
	// Search runs one query and returns up to limit candidates in
	// result order.
	Search(ctx context.Context, query string, limit int) ([]models.Candidate, error)

	Name() string
}

// Downloader retrieves a located item and transcodes it to an audio
// file at the destination path.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}
