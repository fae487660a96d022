package models

import (
	"strings"
	"time"
)

// Track is the canonical, normalized form of one liked song.
//
// Artists is ordered: catalog order first, then any artists discovered
// in the title's featuring clause. A Track is immutable once built;
// SearchQuery and DisplayTitle are derived from Artists and Title and
// never stored.
type Track struct {
	ID       string   // catalog identifier (Spotify track ID)
	Artists  []string // unique by exact name, insertion-ordered
	Title    string   // song title with the featuring clause stripped
	Duration float64  // seconds
}

// SearchQuery builds the query string sent verbatim to the search
// backend. The trailing word biases results toward auto-generated
// topic uploads, which carry structured artist metadata.
func (t Track) SearchQuery() string {
	return strings.Join(t.Artists, " ") + " - " + t.Title + " autogenerated"
}

// DisplayTitle is the human-facing label used for file names and
// failure reports: "artist1, artist2 - title".
func (t Track) DisplayTitle() string {
	return strings.Join(t.Artists, ", ") + " - " + t.Title
}

// Candidate is one search-result item under consideration for a Track.
// Artist is empty when the backend supplied no structured artist and
// it must be inferred from Title. Candidates are transient.
type Candidate struct {
	Title    string
	Artist   string // optional
	Duration float64
	URL      string
}

// Match is the outcome of comparing candidates against a Track: the
// winning candidate's URL plus the similarity scores of the winning
// comparison, or a zero Match when nothing was acceptable.
type Match struct {
	URL         string
	TitleScore  float64
	ArtistScore float64
}

// Accepted reports whether the match carries a downloadable URL.
func (m Match) Accepted() bool {
	return m.URL != ""
}

// Score is the ranking key used to pick a winner among accepted
// matches.
func (m Match) Score() float64 {
	return m.TitleScore + m.ArtistScore
}

// Outcome tracks a single track's progress through the pipeline.
//
// Valid sequences are Pending → Resolved → Downloaded,
// Pending → Resolved → Failed, and Pending → Unresolved (terminal,
// download is never attempted). There are no retries within a run.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeResolved
	OutcomeDownloaded
	OutcomeUnresolved
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeResolved:
		return "resolved"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolution is a persisted track → URL mapping, cached so repeated
// runs skip the search round-trip for tracks already resolved.
type Resolution struct {
	TrackID      string
	DisplayTitle string
	URL          string
	TitleScore   float64
	ArtistScore  float64
	ResolvedAt   time.Time
}
