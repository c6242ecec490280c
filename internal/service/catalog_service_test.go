package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laasyan18/Tunr/internal/models"
	"github.com/laasyan18/Tunr/internal/omdb"
)

type fakeProvider struct {
	searchResults []omdb.SearchResult
	searchErr     error
	detail        *omdb.MovieDetail
	detailErr     error
	detailCalls   int
}

func (f *fakeProvider) Search(_ context.Context, _ string) ([]omdb.SearchResult, error) {
	return f.searchResults, f.searchErr
}

func (f *fakeProvider) GetMovieDetail(_ context.Context, _ string) (*omdb.MovieDetail, error) {
	f.detailCalls++
	return f.detail, f.detailErr
}

type fakeCatalogStore struct {
	movies map[string]*models.Movie
	stubs  []string
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{movies: make(map[string]*models.Movie)}
}

func (f *fakeCatalogStore) GetMovie(_ context.Context, imdbID string) (*models.Movie, error) {
	if m, ok := f.movies[imdbID]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeCatalogStore) InsertStub(_ context.Context, imdbID, title, year, poster string) error {
	f.stubs = append(f.stubs, imdbID)
	f.movies[imdbID] = &models.Movie{IMDBID: imdbID, Title: title, Year: year, Poster: poster}
	return nil
}

func (f *fakeCatalogStore) UpsertMovie(_ context.Context, m *models.Movie) error {
	copied := *m
	f.movies[m.IMDBID] = &copied
	return nil
}

func TestFetchOrCreateReturnsEnrichedCache(t *testing.T) {
	store := newFakeCatalogStore()
	store.movies["tt1"] = &models.Movie{IMDBID: "tt1", Title: "Cached", Genre: "Drama"}
	provider := &fakeProvider{}

	movie, err := NewCatalogService(store, provider).FetchOrCreate(context.Background(), "tt1", CatalogSeed{})
	require.NoError(t, err)
	assert.Equal(t, "Cached", movie.Title)
	assert.Zero(t, provider.detailCalls)
}

func TestFetchOrCreateEnrichesStub(t *testing.T) {
	store := newFakeCatalogStore()
	provider := &fakeProvider{detail: &omdb.MovieDetail{
		Title: "Enriched", Year: "2020", Genre: "Action", Director: "Director X",
	}}

	movie, err := NewCatalogService(store, provider).FetchOrCreate(context.Background(), "tt1",
		CatalogSeed{Title: "Seed", Year: "2020"})
	require.NoError(t, err)
	assert.Equal(t, "Enriched", movie.Title)
	assert.Equal(t, "Action", movie.Genre)
	assert.Equal(t, []string{"tt1"}, store.stubs)
}

func TestFetchOrCreateProviderDownKeepsStub(t *testing.T) {
	store := newFakeCatalogStore()
	provider := &fakeProvider{detailErr: errors.New("timeout")}

	movie, err := NewCatalogService(store, provider).FetchOrCreate(context.Background(), "tt1", CatalogSeed{Title: "Seeded"})
	require.NoError(t, err)
	assert.Equal(t, "Seeded", movie.Title)
	assert.Empty(t, movie.Genre)
}

func TestFetchOrCreateEmptySeedTitle(t *testing.T) {
	store := newFakeCatalogStore()
	provider := &fakeProvider{detailErr: errors.New("down")}

	movie, err := NewCatalogService(store, provider).FetchOrCreate(context.Background(), "tt1", CatalogSeed{})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", movie.Title)
}

func TestSearchDegradesToEmpty(t *testing.T) {
	provider := &fakeProvider{searchErr: errors.New("down")}

	results, err := NewCatalogService(newFakeCatalogStore(), provider).Search(context.Background(), "dune")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchMapsResults(t *testing.T) {
	provider := &fakeProvider{searchResults: []omdb.SearchResult{
		{Title: "Dune", Year: "2021", IMDBID: "tt1160419", Poster: "p.jpg"},
	}}

	results, err := NewCatalogService(newFakeCatalogStore(), provider).Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tt1160419", results[0].IMDBID)
	assert.Equal(t, "Dune", results[0].Title)
}

func TestLookupDoesNotPersist(t *testing.T) {
	store := newFakeCatalogStore()
	provider := &fakeProvider{detail: &omdb.MovieDetail{Title: "Transient", Genre: "Sci-Fi"}}

	movie, err := NewCatalogService(store, provider).Lookup(context.Background(), "tt2")
	require.NoError(t, err)
	assert.Equal(t, "Transient", movie.Title)
	assert.Empty(t, store.movies)
}
