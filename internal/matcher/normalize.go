package matcher

import (
	"fmt"
	"strings"

	"github.com/desertthunder/likesync/internal/shared"
)

// featMarkers are the featuring-clause markers, in priority order.
// Matching is case-sensitive and first-match-wins; the order is part
// of the contract and must not be reordered or extended casually
// (locale variants like "featuring" are intentionally unhandled).
var featMarkers = []string{" feat.", " ft.", "(feat.", "(ft."}

// splitFeaturedClause parses the right-hand side of a featuring marker
// into individual artist names. Names are separated by ", " when that
// delimiter is present, otherwise by "& "; each name has a trailing
// ")" and surrounding whitespace stripped.
func splitFeaturedClause(clause string) []string {
	sep := "& "
	if strings.Contains(clause, ", ") {
		sep = ", "
	}

	parts := strings.Split(clause, sep)
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		names = append(names, strings.TrimSpace(strings.ReplaceAll(part, ")", "")))
	}
	return names
}

// NormalizeCatalog canonicalizes a catalog entry's artist list and
// title by extracting any embedded featuring clause.
//
// The title is scanned for the markers in featMarkers order; the first
// match wins and the rest are ignored. Extracted names not already in
// the artist list (exact, case-sensitive comparison) are appended
// after the catalog artists, preserving discovery order. The input
// slice is never mutated.
func NormalizeCatalog(artists []string, rawTitle string) ([]string, string) {
	title := rawTitle
	var featured []string

	for _, marker := range featMarkers {
		if idx := strings.Index(rawTitle, marker); idx >= 0 {
			title = rawTitle[:idx]
			featured = splitFeaturedClause(rawTitle[idx+len(marker):])
			break
		}
	}

	out := make([]string, len(artists), len(artists)+len(featured))
	copy(out, artists)
	for _, name := range featured {
		known := false
		for _, existing := range out {
			if existing == name {
				known = true
				break
			}
		}
		if !known {
			out = append(out, name)
		}
	}

	return out, strings.TrimSpace(title)
}

// NormalizeResultTitle parses a free-text search-result title of the
// form "artists - title" into an artist list and a song title.
//
// Both sides of the first " - " are scanned for every marker
// independently (no short-circuit): a marker on the left splits a
// primary artist from its featured names, a marker on the right
// splits the song title from additional featured names. Duplicates
// are kept. Titles without a " - " separator are malformed and yield
// shared.ErrMalformedTitle; the caller treats such a candidate as
// non-matching.
func NormalizeResultTitle(raw string) ([]string, string, error) {
	left, right, found := strings.Cut(raw, " - ")
	if !found {
		return nil, "", fmt.Errorf("%w: %q", shared.ErrMalformedTitle, raw)
	}

	var leftArtists, rightArtists []string
	var title string

	for _, marker := range featMarkers {
		if idx := strings.Index(left, marker); idx >= 0 {
			primary := strings.TrimSpace(left[:idx])
			featured := splitFeaturedClause(left[idx+len(marker):])
			leftArtists = append(leftArtists, primary)
			leftArtists = append(leftArtists, featured...)
		}

		if idx := strings.Index(right, marker); idx >= 0 {
			title = right[:idx]
			rightArtists = append(rightArtists, splitFeaturedClause(right[idx+len(marker):])...)
		}
	}

	if len(leftArtists) == 0 {
		leftArtists = []string{strings.TrimSpace(left)}
	}
	if title == "" {
		title = right
	}

	return append(leftArtists, rightArtists...), strings.TrimSpace(title), nil
}
