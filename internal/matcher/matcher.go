// package matcher implements the track resolution engine: title and
// artist normalization across the catalog and search-result naming
// conventions, textual similarity scoring, and candidate selection
// under duration and similarity constraints.
package matcher

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/desertthunder/likesync/internal/models"
	"github.com/desertthunder/likesync/internal/shared"
)

// Config holds the matching thresholds and limits.
type Config struct {
	DurationTolerance float64 // seconds; hard gate, never traded off
	TitleThreshold    float64 // minimum title similarity in [0,1]
	ArtistThreshold   float64 // minimum artist similarity in [0,1]
	MaxCandidates     int     // search-result cap per track
}

// DefaultConfig returns the stock thresholds. The artist threshold is
// intentionally loose: duration and title dominate the decision.
func DefaultConfig() Config {
	return Config{
		DurationTolerance: 10,
		TitleThreshold:    0.7,
		ArtistThreshold:   0.05,
		MaxCandidates:     5,
	}
}

// Validate checks the configuration for values that would make
// matching silently impossible. It is run at startup so a bad config
// fails fast instead of never matching anything.
func (c Config) Validate() error {
	if c.DurationTolerance < 0 {
		return fmt.Errorf("%w: duration tolerance must be non-negative, got %v", shared.ErrInvalidConfig, c.DurationTolerance)
	}
	if c.TitleThreshold < 0 || c.TitleThreshold > 1 {
		return fmt.Errorf("%w: title threshold must be in [0,1], got %v", shared.ErrInvalidConfig, c.TitleThreshold)
	}
	if c.ArtistThreshold < 0 || c.ArtistThreshold > 1 {
		return fmt.Errorf("%w: artist threshold must be in [0,1], got %v", shared.ErrInvalidConfig, c.ArtistThreshold)
	}
	if c.MaxCandidates < 1 {
		return fmt.Errorf("%w: max candidates must be at least 1, got %d", shared.ErrInvalidConfig, c.MaxCandidates)
	}
	return nil
}

// Evaluate compares one candidate against the target track.
//
// Duration is checked first and is a hard cutoff: a candidate outside
// the tolerance is rejected with zero scores before any text work.
// When the candidate carries no structured artist, both comparison
// strings are derived from its title. Artist similarity compares the
// ", "-joined artist lists as single strings, so ordering and list
// length both affect the score.
func Evaluate(candidate models.Candidate, track models.Track, cfg Config) models.Match {
	if math.Abs(candidate.Duration-track.Duration) > cfg.DurationTolerance {
		return models.Match{}
	}

	artists := []string{candidate.Artist}
	title := candidate.Title
	if candidate.Artist == "" {
		var err error
		artists, title, err = NormalizeResultTitle(candidate.Title)
		if err != nil {
			// Malformed titles exclude the candidate, nothing more.
			return models.Match{}
		}
	}

	titleScore := Similarity(title, track.Title)
	artistScore := Similarity(strings.Join(artists, ", "), strings.Join(track.Artists, ", "))

	if titleScore < cfg.TitleThreshold || artistScore < cfg.ArtistThreshold {
		return models.Match{TitleScore: titleScore, ArtistScore: artistScore}
	}

	return models.Match{URL: candidate.URL, TitleScore: titleScore, ArtistScore: artistScore}
}

// Searcher is the slice of the search backend the resolver needs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.Candidate, error)
}

// Resolver turns one track into at most one download target.
type Resolver struct {
	search Searcher
	cfg    Config
}

// NewResolver builds a Resolver, validating the configuration.
func NewResolver(search Searcher, cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{search: search, cfg: cfg}, nil
}

// Resolve issues a single search for the track and evaluates every
// returned candidate concurrently. All evaluations complete before a
// winner is picked: the accepted match with the highest combined
// score, ties broken by search-result order. A zero Match (and nil
// error) means no candidate was acceptable; a search failure is
// returned as an error wrapping shared.ErrSearchFailed for the batch
// boundary to catch.
func (r *Resolver) Resolve(ctx context.Context, track models.Track) (models.Match, error) {
	candidates, err := r.search.Search(ctx, track.SearchQuery(), r.cfg.MaxCandidates)
	if err != nil {
		return models.Match{}, fmt.Errorf("%w: %q: %v", shared.ErrSearchFailed, track.SearchQuery(), err)
	}

	matches := make([]models.Match, len(candidates))
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate models.Candidate) {
			defer wg.Done()
			matches[i] = Evaluate(candidate, track, r.cfg)
		}(i, candidate)
	}
	wg.Wait()

	var best models.Match
	for _, match := range matches {
		if match.Accepted() && (!best.Accepted() || match.Score() > best.Score()) {
			best = match
		}
	}
	return best, nil
}
