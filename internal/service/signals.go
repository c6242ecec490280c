package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/laasyan18/Tunr/internal/models"
)

// Signals holds the weak-signal feature sets extracted from a user's rating
// history. Token slices keep duplicates: frequency matters downstream.
type Signals struct {
	RatedIDs       map[string]bool
	HighlyRated    []models.Review
	GenreTokens    []string
	DirectorTokens []string
	ActorTokens    []string
}

// ExtractSignals computes a user's preference signals from their reviews.
// A user with no reviews yields all-empty containers; callers treat that as
// cold start, not as an error.
func ExtractSignals(reviews []models.Review) Signals {
	s := Signals{RatedIDs: make(map[string]bool, len(reviews))}
	for _, rev := range reviews {
		s.RatedIDs[rev.IMDBID] = true
		if rev.Rating >= 4 {
			s.HighlyRated = append(s.HighlyRated, rev)
		}
		if rev.Movie == nil {
			continue
		}
		s.GenreTokens = append(s.GenreTokens, SplitTokens(rev.Movie.Genre)...)
		s.DirectorTokens = append(s.DirectorTokens, SplitTokens(rev.Movie.Director)...)
		s.ActorTokens = append(s.ActorTokens, SplitTokens(rev.Movie.Actors)...)
	}
	return s
}

// SplitTokens splits a comma-separated metadata field into trimmed tokens.
func SplitTokens(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// TopTokens returns the n most frequent tokens, ties broken by first
// encounter order.
func TopTokens(tokens []string, n int) []string {
	counts := make(map[string]int, len(tokens))
	order := make(map[string]int, len(tokens))
	var distinct []string
	for i, t := range tokens {
		if counts[t] == 0 {
			order[t] = i
			distinct = append(distinct, t)
		}
		counts[t]++
	}
	sort.SliceStable(distinct, func(i, j int) bool {
		if counts[distinct[i]] != counts[distinct[j]] {
			return counts[distinct[i]] > counts[distinct[j]]
		}
		return order[distinct[i]] < order[distinct[j]]
	})
	if len(distinct) > n {
		distinct = distinct[:n]
	}
	return distinct
}

// tokenCounts builds a frequency map over a token multiset.
func tokenCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// ParseYear extracts the leading 4-digit year from a year field, which may
// be a range like "2020–2021". Returns false when no year can be parsed.
func ParseYear(year string) (int, bool) {
	s := strings.TrimSpace(year)
	if s == "" {
		return 0, false
	}
	// First segment before a dash or en-dash
	if i := strings.IndexAny(s, "–-"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	y, err := strconv.Atoi(s)
	if err != nil || y < 1000 || y > 9999 {
		return 0, false
	}
	return y, true
}

// ParseRating parses a decimal-as-string external rating such as "7.4".
// Returns false for absent or malformed values ("N/A", "").
func ParseRating(rating string) (float64, bool) {
	s := strings.TrimSpace(rating)
	if s == "" || s == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
