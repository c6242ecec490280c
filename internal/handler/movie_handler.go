package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/laasyan18/Tunr/internal/middleware"
	"github.com/laasyan18/Tunr/internal/models"
	"github.com/laasyan18/Tunr/internal/service"
)

// MovieHandler handles catalog search, reviews and interactions.
type MovieHandler struct {
	catalog *service.CatalogService
	library *service.LibraryService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(catalog *service.CatalogService, library *service.LibraryService) *MovieHandler {
	return &MovieHandler{catalog: catalog, library: library}
}

// Search godoc
// GET /api/v1/movies/search?q=
func (h *MovieHandler) Search(c fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "query parameter q is required"})
	}

	results, err := h.catalog.Search(c.Context(), query)
	if err != nil {
		return fail(c, err, "failed to search movies", "query", query)
	}
	return c.JSON(fiber.Map{"results": results})
}

// Detail godoc
// GET /api/v1/movies/:imdb_id
func (h *MovieHandler) Detail(c fiber.Ctx) error {
	imdbID := c.Params("imdb_id")

	movie, err := h.catalog.FetchOrCreate(c.Context(), imdbID, service.CatalogSeed{})
	if err != nil {
		return fail(c, err, "failed to fetch movie", "imdb_id", imdbID)
	}
	return c.JSON(movie)
}

// Stats godoc
// GET /api/v1/movies/:imdb_id/stats
func (h *MovieHandler) Stats(c fiber.Ctx) error {
	imdbID := c.Params("imdb_id")

	stats, err := h.library.MovieStats(c.Context(), imdbID)
	if err != nil {
		return fail(c, err, "failed to fetch movie stats", "imdb_id", imdbID)
	}
	return c.JSON(stats)
}

// MovieReviews godoc
// GET /api/v1/movies/:imdb_id/reviews
func (h *MovieHandler) MovieReviews(c fiber.Ctx) error {
	imdbID := c.Params("imdb_id")

	reviews, err := h.library.MovieReviews(c.Context(), imdbID)
	if err != nil {
		return fail(c, err, "failed to fetch reviews", "imdb_id", imdbID)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

// CreateReview godoc
// POST /api/v1/reviews
func (h *MovieHandler) CreateReview(c fiber.Ctx) error {
	var req models.CreateReviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	review, err := h.library.CreateReview(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, err, "failed to save review", "imdb_id", req.IMDBID)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// DeleteReview godoc
// DELETE /api/v1/reviews/:id
func (h *MovieHandler) DeleteReview(c fiber.Ctx) error {
	reviewID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid review ID"})
	}

	if err := h.library.DeleteReview(c.Context(), middleware.UserID(c), reviewID); err != nil {
		return fail(c, err, "failed to delete review", "review_id", reviewID)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// MyReviews godoc
// GET /api/v1/reviews
func (h *MovieHandler) MyReviews(c fiber.Ctx) error {
	reviews, err := h.library.MyReviews(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err, "failed to fetch reviews")
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

// ToggleWatchState godoc
// POST /api/v1/interactions/watch
func (h *MovieHandler) ToggleWatchState(c fiber.Ctx) error {
	var req models.ToggleInteractionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	result, err := h.library.ToggleWatchState(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, err, "failed to toggle watch state", "imdb_id", req.IMDBID)
	}
	return c.JSON(result)
}

// ToggleLike godoc
// POST /api/v1/interactions/like
func (h *MovieHandler) ToggleLike(c fiber.Ctx) error {
	var req models.ToggleInteractionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	result, err := h.library.ToggleLike(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return fail(c, err, "failed to toggle like", "imdb_id", req.IMDBID)
	}
	return c.JSON(result)
}

// IsLiked godoc
// GET /api/v1/movies/:imdb_id/liked
func (h *MovieHandler) IsLiked(c fiber.Ctx) error {
	imdbID := c.Params("imdb_id")

	liked, err := h.library.IsLiked(c.Context(), middleware.UserID(c), imdbID)
	if err != nil {
		return fail(c, err, "failed to check liked state", "imdb_id", imdbID)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// Library godoc
// GET /api/v1/library
func (h *MovieHandler) Library(c fiber.Ctx) error {
	lib, err := h.library.Library(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err, "failed to fetch library")
	}
	return c.JSON(lib)
}
