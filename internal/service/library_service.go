package service

import (
	"context"

	"github.com/laasyan18/Tunr/internal/models"
)

type reviewStore interface {
	Upsert(ctx context.Context, userID int, imdbID string, rating int, text string) (*models.Review, error)
	Delete(ctx context.Context, reviewID, userID int) error
	ByUser(ctx context.Context, userID, limit int) ([]models.Review, error)
	ByMovie(ctx context.Context, imdbID string) ([]models.Review, error)
}

type interactionStore interface {
	Add(ctx context.Context, userID int, imdbID, kind string) error
	Remove(ctx context.Context, userID int, imdbID, kind string) error
	Exists(ctx context.Context, userID int, imdbID, kind string) (bool, error)
	ByUserAndType(ctx context.Context, userID int, kind string, limit int) ([]models.Interaction, error)
}

type movieFetcher interface {
	FetchOrCreate(ctx context.Context, imdbID string, seed CatalogSeed) (*models.Movie, error)
}

type statsReader interface {
	MovieStats(ctx context.Context, imdbID string) (*models.MovieStats, error)
}

// LibraryService owns reviews and the per-movie interaction state machine.
type LibraryService struct {
	reviews      reviewStore
	interactions interactionStore
	catalog      movieFetcher
	movies       statsReader
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(reviews reviewStore, interactions interactionStore, catalog movieFetcher, movies statsReader) *LibraryService {
	return &LibraryService{reviews: reviews, interactions: interactions, catalog: catalog, movies: movies}
}

// CreateReview validates and upserts a rating, materializing the movie
// record first. Reviewing a movie marks it watched and clears any
// want-to-watch flag.
func (s *LibraryService) CreateReview(ctx context.Context, userID int, req models.CreateReviewRequest) (*models.Review, error) {
	if req.IMDBID == "" {
		return nil, models.NewValidationError("imdb_id", "imdb_id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, models.NewValidationError("rating", "rating must be between 1 and 5")
	}

	if _, err := s.catalog.FetchOrCreate(ctx, req.IMDBID, CatalogSeed{
		Title:  req.Title,
		Year:   req.Year,
		Poster: req.Poster,
	}); err != nil {
		return nil, err
	}

	review, err := s.reviews.Upsert(ctx, userID, req.IMDBID, req.Rating, req.ReviewText)
	if err != nil {
		return nil, err
	}

	if err := s.interactions.Add(ctx, userID, req.IMDBID, models.InteractionWatched); err != nil {
		return nil, err
	}
	if err := s.interactions.Remove(ctx, userID, req.IMDBID, models.InteractionWantToWatch); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review owned by the user.
func (s *LibraryService) DeleteReview(ctx context.Context, userID, reviewID int) error {
	return s.reviews.Delete(ctx, reviewID, userID)
}

// MyReviews returns the user's reviews with movie metadata, newest first.
func (s *LibraryService) MyReviews(ctx context.Context, userID int) ([]models.Review, error) {
	reviews, err := s.reviews.ByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// MovieReviews returns all reviews of one movie, newest first.
func (s *LibraryService) MovieReviews(ctx context.Context, imdbID string) ([]models.Review, error) {
	reviews, err := s.reviews.ByMovie(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// ToggleWatchState toggles watched or want_to_watch for a movie. Setting one
// removes the other; toggling the held state clears it.
func (s *LibraryService) ToggleWatchState(ctx context.Context, userID int, req models.ToggleInteractionRequest) (*models.InteractionResult, error) {
	if req.State != models.InteractionWatched && req.State != models.InteractionWantToWatch {
		return nil, models.NewValidationError("state", "state must be watched or want_to_watch")
	}
	return s.toggle(ctx, userID, req)
}

// ToggleLike toggles like or love for a movie, with the same exclusivity
// rules as the watch states.
func (s *LibraryService) ToggleLike(ctx context.Context, userID int, req models.ToggleInteractionRequest) (*models.InteractionResult, error) {
	if req.State != models.InteractionLike && req.State != models.InteractionLove {
		return nil, models.NewValidationError("state", "state must be like or love")
	}
	return s.toggle(ctx, userID, req)
}

func (s *LibraryService) toggle(ctx context.Context, userID int, req models.ToggleInteractionRequest) (*models.InteractionResult, error) {
	if req.IMDBID == "" {
		return nil, models.NewValidationError("imdb_id", "imdb_id is required")
	}

	if _, err := s.catalog.FetchOrCreate(ctx, req.IMDBID, CatalogSeed{
		Title:  req.Title,
		Year:   req.Year,
		Poster: req.Poster,
	}); err != nil {
		return nil, err
	}

	held, err := s.interactions.Exists(ctx, userID, req.IMDBID, req.State)
	if err != nil {
		return nil, err
	}
	if held {
		if err := s.interactions.Remove(ctx, userID, req.IMDBID, req.State); err != nil {
			return nil, err
		}
		return &models.InteractionResult{State: req.State, Active: false}, nil
	}

	if err := s.interactions.Add(ctx, userID, req.IMDBID, req.State); err != nil {
		return nil, err
	}
	if opposing := models.OpposingInteraction[req.State]; opposing != "" {
		if err := s.interactions.Remove(ctx, userID, req.IMDBID, opposing); err != nil {
			return nil, err
		}
	}
	return &models.InteractionResult{State: req.State, Active: true}, nil
}

// IsLiked reports whether the user holds a like or love on the movie.
func (s *LibraryService) IsLiked(ctx context.Context, userID int, imdbID string) (bool, error) {
	liked, err := s.interactions.Exists(ctx, userID, imdbID, models.InteractionLike)
	if err != nil || liked {
		return liked, err
	}
	return s.interactions.Exists(ctx, userID, imdbID, models.InteractionLove)
}

// Library groups the user's interactions by kind.
func (s *LibraryService) Library(ctx context.Context, userID int) (*models.Library, error) {
	lib := &models.Library{
		Watched:     []models.Interaction{},
		WantToWatch: []models.Interaction{},
		Liked:       []models.Interaction{},
		Loved:       []models.Interaction{},
	}
	dest := map[string]*[]models.Interaction{
		models.InteractionWatched:     &lib.Watched,
		models.InteractionWantToWatch: &lib.WantToWatch,
		models.InteractionLike:        &lib.Liked,
		models.InteractionLove:        &lib.Loved,
	}
	for kind := range models.ValidInteractionTypes {
		items, err := s.interactions.ByUserAndType(ctx, userID, kind, 0)
		if err != nil {
			return nil, err
		}
		if items != nil {
			*dest[kind] = items
		}
	}
	return lib, nil
}

// MovieStats returns community aggregates for one movie.
func (s *LibraryService) MovieStats(ctx context.Context, imdbID string) (*models.MovieStats, error) {
	return s.movies.MovieStats(ctx, imdbID)
}
