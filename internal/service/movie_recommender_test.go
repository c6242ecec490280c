package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laasyan18/Tunr/internal/models"
)

type fakeMovieReviews struct {
	byUser            map[int][]models.Review
	followeeFavorites []models.RankedMovie
	followeeReviews   []models.Review
}

func (f *fakeMovieReviews) ByUser(_ context.Context, userID, _ int) ([]models.Review, error) {
	return f.byUser[userID], nil
}

func (f *fakeMovieReviews) RatedIDs(_ context.Context, userID int) ([]string, error) {
	var ids []string
	for _, r := range f.byUser[userID] {
		ids = append(ids, r.IMDBID)
	}
	return ids, nil
}

func (f *fakeMovieReviews) FolloweeFavorites(_ context.Context, _ []int, _ []string, _ int) ([]models.RankedMovie, error) {
	return f.followeeFavorites, nil
}

func (f *fakeMovieReviews) RecentFolloweeReviews(_ context.Context, _ []int, minRating, _ int) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.followeeReviews {
		if r.Rating >= minRating {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeMovieFinder struct {
	similar []models.RankedMovie
	popular []models.RankedMovie
}

func (f *fakeMovieFinder) SimilarMovies(_ context.Context, _, _, _, _ []string, _ int) ([]models.RankedMovie, error) {
	return f.similar, nil
}

func (f *fakeMovieFinder) PopularMovies(_ context.Context, _ []string, _ int) ([]models.RankedMovie, error) {
	return f.popular, nil
}

type fakeFollowGraph struct {
	following []int
}

func (f *fakeFollowGraph) FollowingIDs(_ context.Context, _ int) ([]int, error) {
	return f.following, nil
}

type fakeActivityReader struct {
	byKind map[string][]models.Interaction
}

func (f *fakeActivityReader) RecentFolloweeByType(_ context.Context, _ []int, kind string, _ int) ([]models.Interaction, error) {
	return f.byKind[kind], nil
}

type fakeCatalogSearcher struct {
	results map[string][]models.MovieSummary
	details map[string]*models.Movie
}

func (f *fakeCatalogSearcher) Search(_ context.Context, term string) ([]models.MovieSummary, error) {
	return f.results[term], nil
}

func (f *fakeCatalogSearcher) Lookup(_ context.Context, imdbID string) (*models.Movie, error) {
	if m, ok := f.details[imdbID]; ok {
		return m, nil
	}
	return nil, models.ErrNotFound
}

func ranked(imdbID, title, year, genre string, avg float64, count int) models.RankedMovie {
	return models.RankedMovie{
		Movie: models.Movie{
			IMDBID: imdbID,
			Title:  title,
			Year:   year,
			Genre:  genre,
		},
		AvgRating:   &avg,
		ReviewCount: count,
	}
}

func newTestRecommender(reviews *fakeMovieReviews, movies *fakeMovieFinder,
	follows *fakeFollowGraph, activity *fakeActivityReader, catalog *fakeCatalogSearcher) *MovieRecommender {
	if reviews == nil {
		reviews = &fakeMovieReviews{}
	}
	if movies == nil {
		movies = &fakeMovieFinder{}
	}
	if follows == nil {
		follows = &fakeFollowGraph{}
	}
	if activity == nil {
		activity = &fakeActivityReader{}
	}
	if catalog == nil {
		catalog = &fakeCatalogSearcher{}
	}
	return NewMovieRecommender(reviews, movies, follows, activity, catalog, nil)
}

func TestPersonalizedProfileStage(t *testing.T) {
	reviews := &fakeMovieReviews{byUser: map[int][]models.Review{
		1: {review("tt1", 5, "Action", "Director X", "Actor A")},
	}}
	movies := &fakeMovieFinder{similar: []models.RankedMovie{
		{
			Movie: models.Movie{
				IMDBID: "tt2", Title: "Match", Year: "2018",
				Genre: "Action", Director: "Director X",
			},
		},
		{
			Movie: models.Movie{
				IMDBID: "tt3", Title: "Too Old", Year: "1990", Genre: "Action",
			},
		},
	}}

	resp, err := newTestRecommender(reviews, movies, nil, nil, nil).Personalized(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	rec := resp.Recommendations[0]
	assert.Equal(t, "tt2", rec.IMDBID)
	assert.Equal(t, "Action • Favorite Director", rec.Reason)
	assert.Empty(t, resp.Message)
}

func TestPersonalizedUnparseableYearPasses(t *testing.T) {
	reviews := &fakeMovieReviews{byUser: map[int][]models.Review{
		1: {review("tt1", 5, "Action", "Director X", "Actor A")},
	}}
	movies := &fakeMovieFinder{similar: []models.RankedMovie{
		{Movie: models.Movie{IMDBID: "tt2", Title: "Undated", Year: "N/A", Genre: "Action"}},
	}}

	resp, err := newTestRecommender(reviews, movies, nil, nil, nil).Personalized(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "tt2", resp.Recommendations[0].IMDBID)
}

func TestPersonalizedSocialProofStage(t *testing.T) {
	reviews := &fakeMovieReviews{
		byUser: map[int][]models.Review{
			1: {review("tt1", 5, "Action", "Director X", "Actor A")},
		},
		followeeFavorites: []models.RankedMovie{
			{Movie: models.Movie{IMDBID: "tt5", Title: "Loved", Year: "2021"}, LoveCount: 3},
			{Movie: models.Movie{IMDBID: "tt6", Title: "Solo", Year: "2022"}, LoveCount: 1},
		},
	}
	follows := &fakeFollowGraph{following: []int{2, 3}}

	resp, err := newTestRecommender(reviews, nil, follows, nil, nil).Personalized(context.Background(), 1)
	require.NoError(t, err)

	byID := make(map[string]models.MovieRecommendation)
	for _, rec := range resp.Recommendations {
		byID[rec.IMDBID] = rec
	}
	require.Contains(t, byID, "tt5")
	require.Contains(t, byID, "tt6")
	assert.Equal(t, "3 friends loved this", byID["tt5"].Reason)
	assert.Equal(t, "1 friend loved this", byID["tt6"].Reason)
}

func TestPersonalizedDedupeAcrossStages(t *testing.T) {
	reviews := &fakeMovieReviews{
		byUser: map[int][]models.Review{
			1: {review("tt1", 5, "Action", "Director X", "Actor A")},
		},
		followeeFavorites: []models.RankedMovie{
			{Movie: models.Movie{IMDBID: "tt2", Title: "Dup", Year: "2018"}, LoveCount: 2},
		},
	}
	movies := &fakeMovieFinder{
		similar: []models.RankedMovie{
			{Movie: models.Movie{IMDBID: "tt2", Title: "Dup", Year: "2018", Genre: "Action"}},
		},
		popular: []models.RankedMovie{
			{Movie: models.Movie{IMDBID: "tt2", Title: "Dup", Year: "2018"}, ReviewCount: 9},
		},
	}
	follows := &fakeFollowGraph{following: []int{2}}

	resp, err := newTestRecommender(reviews, movies, follows, nil, nil).Personalized(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	// Profile stage claimed it first.
	assert.Equal(t, "Action", resp.Recommendations[0].Reason)
}

func TestPersonalizedPopularityFallback(t *testing.T) {
	reviews := &fakeMovieReviews{byUser: map[int][]models.Review{
		1: {review("tt1", 5, "Action", "Director X", "Actor A")},
	}}
	movies := &fakeMovieFinder{popular: []models.RankedMovie{
		ranked("tt7", "Crowd Pleaser", "2020", "Comedy", 4.5, 12),
	}}

	resp, err := newTestRecommender(reviews, movies, nil, nil, nil).Personalized(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Popular on Tunr", resp.Recommendations[0].Reason)
}

func TestPersonalizedColdStartExternal(t *testing.T) {
	catalog := &fakeCatalogSearcher{
		results: map[string][]models.MovieSummary{
			"comedy 2024": {{IMDBID: "tt100", Title: "Fresh Laughs"}},
		},
		details: map[string]*models.Movie{
			"tt100": {
				IMDBID: "tt100", Title: "Fresh Laughs", Year: "2024",
				Genre: "Comedy", IMDBRating: "7.1",
			},
		},
	}

	resp, err := newTestRecommender(nil, nil, nil, nil, catalog).Personalized(context.Background(), 1)
	require.NoError(t, err)
	// Cold-start external candidates have no preference tokens to match, so
	// nothing survives vetting and the hint message is returned.
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, "Rate some movies to get personalized suggestions!", resp.Message)
}

func TestPersonalizedExternalStage(t *testing.T) {
	reviews := &fakeMovieReviews{byUser: map[int][]models.Review{
		1: {review("tt1", 5, "Action", "Director X", "Actor A")},
	}}
	catalog := &fakeCatalogSearcher{
		results: map[string][]models.MovieSummary{
			"Action": {
				{IMDBID: "tt200", Title: "Good Pick"},
				{IMDBID: "tt201", Title: "Low Rated"},
				{IMDBID: "tt202", Title: "Wrong Genre"},
			},
		},
		details: map[string]*models.Movie{
			"tt200": {IMDBID: "tt200", Title: "Good Pick", Year: "2019", Genre: "action", IMDBRating: "7.8"},
			"tt201": {IMDBID: "tt201", Title: "Low Rated", Year: "2019", Genre: "Action", IMDBRating: "4.2"},
			"tt202": {IMDBID: "tt202", Title: "Wrong Genre", Year: "2019", Genre: "Romance", IMDBRating: "8.0"},
		},
	}

	resp, err := newTestRecommender(reviews, nil, nil, nil, catalog).Personalized(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 1)
	rec := resp.Recommendations[0]
	assert.Equal(t, "tt200", rec.IMDBID)
	// Genre matching is case-insensitive against the external catalog.
	assert.Equal(t, "Action", rec.Reason)
}

func TestFromFriends(t *testing.T) {
	reviews := &fakeMovieReviews{
		byUser: map[int][]models.Review{
			1: {review("tt1", 5, "Action", "X", "A")},
		},
		followeeReviews: []models.Review{
			{
				IMDBID: "tt10", Rating: 5, Username: "bob",
				Movie: &models.Movie{IMDBID: "tt10", Title: "Raved"},
			},
			{
				IMDBID: "tt1", Rating: 5, Username: "bob",
				Movie: &models.Movie{IMDBID: "tt1", Title: "Already Seen"},
			},
		},
	}
	activity := &fakeActivityReader{byKind: map[string][]models.Interaction{
		models.InteractionLove: {
			{IMDBID: "tt11", Username: "carol", Movie: &models.Movie{IMDBID: "tt11", Title: "Adored"}},
			{IMDBID: "tt10", Username: "carol", Movie: &models.Movie{IMDBID: "tt10", Title: "Raved"}},
		},
		models.InteractionWantToWatch: {
			{IMDBID: "tt12", Username: "dave", Movie: &models.Movie{IMDBID: "tt12", Title: "Queued"}},
		},
	}}
	follows := &fakeFollowGraph{following: []int{2, 3}}

	resp, err := newTestRecommender(reviews, nil, follows, activity, nil).FromFriends(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 3)

	assert.Equal(t, "@bob rated 5★", resp.Recommendations[0].Reason)
	assert.Equal(t, "rated", resp.Recommendations[0].Type)
	assert.Equal(t, "♥ @carol loved this", resp.Recommendations[1].Reason)
	assert.Equal(t, "loved", resp.Recommendations[1].Type)
	assert.Equal(t, "📌 @dave wants to watch", resp.Recommendations[2].Reason)
	assert.Equal(t, "watchlist", resp.Recommendations[2].Type)
}

func TestFromFriendsNoFollowees(t *testing.T) {
	resp, err := newTestRecommender(nil, nil, nil, nil, nil).FromFriends(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)
}
