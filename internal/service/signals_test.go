package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laasyan18/Tunr/internal/models"
)

func review(imdbID string, rating int, genre, director, actors string) models.Review {
	return models.Review{
		IMDBID: imdbID,
		Rating: rating,
		Movie: &models.Movie{
			IMDBID:   imdbID,
			Genre:    genre,
			Director: director,
			Actors:   actors,
		},
	}
}

func TestExtractSignals(t *testing.T) {
	reviews := []models.Review{
		review("tt1", 5, "Action, Thriller", "Kathryn Bigelow", "Actor A, Actor B"),
		review("tt2", 3, "Drama", "Someone Else", "Actor C"),
		review("tt3", 4, "Action", "Kathryn Bigelow", "Actor A"),
	}

	s := ExtractSignals(reviews)

	assert.Len(t, s.RatedIDs, 3)
	assert.True(t, s.RatedIDs["tt2"])
	require.Len(t, s.HighlyRated, 2)
	assert.Equal(t, "tt1", s.HighlyRated[0].IMDBID)
	assert.Equal(t, "tt3", s.HighlyRated[1].IMDBID)

	// Duplicates are kept: frequency drives ranking downstream.
	assert.Equal(t, []string{"Action", "Thriller", "Drama", "Action"}, s.GenreTokens)
	assert.Equal(t, []string{"Kathryn Bigelow", "Someone Else", "Kathryn Bigelow"}, s.DirectorTokens)
}

func TestExtractSignalsEmpty(t *testing.T) {
	s := ExtractSignals(nil)
	assert.Empty(t, s.RatedIDs)
	assert.Empty(t, s.HighlyRated)
	assert.Empty(t, s.GenreTokens)
}

func TestExtractSignalsNilMovie(t *testing.T) {
	s := ExtractSignals([]models.Review{{IMDBID: "tt1", Rating: 5}})
	assert.True(t, s.RatedIDs["tt1"])
	assert.Len(t, s.HighlyRated, 1)
	assert.Empty(t, s.GenreTokens)
}

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"Action", "Sci-Fi"}, SplitTokens("Action, Sci-Fi"))
	assert.Equal(t, []string{"Drama"}, SplitTokens(" Drama "))
	assert.Nil(t, SplitTokens(""))
	assert.Empty(t, SplitTokens(" , ,"))
}

func TestTopTokens(t *testing.T) {
	tokens := []string{"Action", "Drama", "Action", "Comedy", "Drama", "Action"}

	assert.Equal(t, []string{"Action", "Drama"}, TopTokens(tokens, 2))
	assert.Equal(t, []string{"Action", "Drama", "Comedy"}, TopTokens(tokens, 5))
}

func TestTopTokensTieBreaksByFirstEncounter(t *testing.T) {
	tokens := []string{"Comedy", "Drama", "Drama", "Comedy"}
	assert.Equal(t, []string{"Comedy", "Drama"}, TopTokens(tokens, 2))
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2010", 2010, true},
		{"2020–2021", 2020, true},
		{"2020-2021", 2020, true},
		{"1994", 1994, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseRating(t *testing.T) {
	v, ok := ParseRating("7.4")
	require.True(t, ok)
	assert.InDelta(t, 7.4, v, 0.001)

	_, ok = ParseRating("N/A")
	assert.False(t, ok)
	_, ok = ParseRating("")
	assert.False(t, ok)
	_, ok = ParseRating("seven")
	assert.False(t, ok)
}
