package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/laasyan18/Tunr/internal/models"
	"github.com/laasyan18/Tunr/internal/omdb"
)

// metadataProvider is the external movie catalog consumed by the gateway.
type metadataProvider interface {
	Search(ctx context.Context, term string) ([]omdb.SearchResult, error)
	GetMovieDetail(ctx context.Context, imdbID string) (*omdb.MovieDetail, error)
}

// catalogStore is the local persistence the gateway reads through.
type catalogStore interface {
	GetMovie(ctx context.Context, imdbID string) (*models.Movie, error)
	InsertStub(ctx context.Context, imdbID, title, year, poster string) error
	UpsertMovie(ctx context.Context, m *models.Movie) error
}

// CatalogSeed carries the caller-supplied fields used when a movie has to be
// stubbed before the provider responds.
type CatalogSeed struct {
	Title  string
	Year   string
	Poster string
}

// CatalogService is the read-through gateway to the external movie catalog.
// It owns the only write side-effect of the recommendation core: caching
// fetched metadata into local storage.
type CatalogService struct {
	movies   catalogStore
	provider metadataProvider
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(movies catalogStore, provider metadataProvider) *CatalogService {
	return &CatalogService{movies: movies, provider: provider}
}

// FetchOrCreate returns the locally cached movie, creating and enriching it
// from the provider on first reference. Provider failures keep the stub and
// never propagate: missing metadata degrades, it does not fail the caller.
func (s *CatalogService) FetchOrCreate(ctx context.Context, imdbID string, seed CatalogSeed) (*models.Movie, error) {
	movie, err := s.movies.GetMovie(ctx, imdbID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if movie != nil && movie.Genre != "" {
		return movie, nil
	}

	if movie == nil {
		title := seed.Title
		if title == "" {
			title = "Unknown"
		}
		if err := s.movies.InsertStub(ctx, imdbID, title, seed.Year, seed.Poster); err != nil {
			return nil, err
		}
	}

	detail, err := s.provider.GetMovieDetail(ctx, imdbID)
	if err != nil {
		slog.Warn("catalog provider unavailable, keeping stub", "imdb_id", imdbID, "error", err)
		return s.movies.GetMovie(ctx, imdbID)
	}

	enriched := &models.Movie{
		IMDBID:     imdbID,
		Title:      detail.Title,
		Year:       detail.Year,
		Genre:      detail.Genre,
		Director:   detail.Director,
		Actors:     detail.Actors,
		Plot:       detail.Plot,
		Poster:     detail.Poster,
		IMDBRating: detail.IMDBRating,
		Runtime:    detail.Runtime,
	}
	if err := s.movies.UpsertMovie(ctx, enriched); err != nil {
		return nil, err
	}
	return s.movies.GetMovie(ctx, imdbID)
}

// Search queries the provider by title. Provider errors degrade to an empty
// list, never to a failure.
func (s *CatalogService) Search(ctx context.Context, term string) ([]models.MovieSummary, error) {
	results, err := s.provider.Search(ctx, term)
	if err != nil {
		slog.Warn("catalog search failed, returning empty results", "term", term, "error", err)
		return []models.MovieSummary{}, nil
	}

	summaries := make([]models.MovieSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, models.MovieSummary{
			IMDBID: r.IMDBID,
			Title:  r.Title,
			Year:   r.Year,
			Poster: r.Poster,
		})
	}
	return summaries, nil
}

// Lookup fetches a full movie record from the provider without persisting
// it. Used by discovery stages that vet candidates before surfacing them.
func (s *CatalogService) Lookup(ctx context.Context, imdbID string) (*models.Movie, error) {
	detail, err := s.provider.GetMovieDetail(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	return &models.Movie{
		IMDBID:     imdbID,
		Title:      detail.Title,
		Year:       detail.Year,
		Genre:      detail.Genre,
		Director:   detail.Director,
		Actors:     detail.Actors,
		Plot:       detail.Plot,
		Poster:     detail.Poster,
		IMDBRating: detail.IMDBRating,
		Runtime:    detail.Runtime,
	}, nil
}
