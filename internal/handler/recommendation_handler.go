package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/laasyan18/Tunr/internal/middleware"
	"github.com/laasyan18/Tunr/internal/service"
)

// RecommendationHandler handles recommendations and activity feeds.
type RecommendationHandler struct {
	movies  *service.MovieRecommender
	friends *service.FriendRecommender
	feed    *service.FeedService
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(movies *service.MovieRecommender, friends *service.FriendRecommender, feed *service.FeedService) *RecommendationHandler {
	return &RecommendationHandler{movies: movies, friends: friends, feed: feed}
}

// Movies godoc
// GET /api/v1/recommendations/movies
func (h *RecommendationHandler) Movies(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	resp, err := h.movies.Personalized(c.Context(), userID)
	if err != nil {
		return fail(c, err, "failed to generate movie recommendations", "user_id", userID)
	}
	return c.JSON(resp)
}

// Friends godoc
// GET /api/v1/recommendations/friends
func (h *RecommendationHandler) Friends(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	resp, err := h.friends.Recommend(c.Context(), userID)
	if err != nil {
		return fail(c, err, "failed to generate friend recommendations", "user_id", userID)
	}
	return c.JSON(resp)
}

// FriendActivity godoc
// GET /api/v1/feed/friends
func (h *RecommendationHandler) FriendActivity(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	resp, err := h.movies.FromFriends(c.Context(), userID)
	if err != nil {
		return fail(c, err, "failed to build friends feed", "user_id", userID)
	}
	return c.JSON(resp)
}

// OwnActivity godoc
// GET /api/v1/feed
func (h *RecommendationHandler) OwnActivity(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	resp, err := h.feed.OwnActivity(c.Context(), userID)
	if err != nil {
		return fail(c, err, "failed to build activity feed", "user_id", userID)
	}
	return c.JSON(resp)
}
