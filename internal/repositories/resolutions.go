package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/likesync/internal/models"
)

// ResolutionRepository stores and retrieves cached track resolutions.
//
// Rows are keyed by catalog track ID; a re-resolved track replaces its
// previous row.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a new ResolutionRepository with the given database connection
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Get retrieves the cached resolution for a track, or nil when the
// track has not been resolved before.
func (r *ResolutionRepository) Get(trackID string) (*models.Resolution, error) {
	query := `
		SELECT track_id, display_title, url, title_score, artist_score, resolved_at
		FROM resolutions
		WHERE track_id = ?
	`

	res, err := scanResolution(r.db.QueryRow(query, trackID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query resolution: %w", err)
	}
	return res, nil
}

// Put inserts or replaces the resolution for a track.
func (r *ResolutionRepository) Put(res models.Resolution) error {
	if res.TrackID == "" {
		return fmt.Errorf("resolution requires a track ID")
	}
	if res.ResolvedAt.IsZero() {
		res.ResolvedAt = time.Now().UTC()
	}

	query := `
		INSERT OR REPLACE INTO resolutions (track_id, display_title, url, title_score, artist_score, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		res.TrackID,
		res.DisplayTitle,
		res.URL,
		res.TitleScore,
		res.ArtistScore,
		res.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolution: %w", err)
	}

	return nil
}

// List returns all cached resolutions, most recent first.
func (r *ResolutionRepository) List() ([]models.Resolution, error) {
	query := `
		SELECT track_id, display_title, url, title_score, artist_score, resolved_at
		FROM resolutions
		ORDER BY resolved_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []models.Resolution
	for rows.Next() {
		res, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}
		resolutions = append(resolutions, *res)
	}

	return resolutions, rows.Err()
}

// Clear removes every cached resolution and reports how many rows were
// deleted.
func (r *ResolutionRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM resolutions")
	if err != nil {
		return 0, fmt.Errorf("failed to clear resolutions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared resolutions: %w", err)
	}
	return affected, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResolution(row scanner) (*models.Resolution, error) {
	var res models.Resolution
	err := row.Scan(
		&res.TrackID,
		&res.DisplayTitle,
		&res.URL,
		&res.TitleScore,
		&res.ArtistScore,
		&res.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
