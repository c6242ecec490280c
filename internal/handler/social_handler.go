package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/laasyan18/Tunr/internal/middleware"
	"github.com/laasyan18/Tunr/internal/service"
)

// SocialHandler handles profiles, the follow graph and user search.
type SocialHandler struct {
	svc *service.SocialService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(svc *service.SocialService) *SocialHandler {
	return &SocialHandler{svc: svc}
}

// Profile godoc
// GET /api/v1/users/:username
func (h *SocialHandler) Profile(c fiber.Ctx) error {
	username := c.Params("username")

	profile, err := h.svc.Profile(c.Context(), middleware.UserID(c), username)
	if err != nil {
		return fail(c, err, "failed to fetch profile", "username", username)
	}
	return c.JSON(profile)
}

// ToggleFollow godoc
// POST /api/v1/users/:username/follow
func (h *SocialHandler) ToggleFollow(c fiber.Ctx) error {
	username := c.Params("username")

	result, err := h.svc.ToggleFollow(c.Context(), middleware.UserID(c), username)
	if err != nil {
		return fail(c, err, "failed to toggle follow", "username", username)
	}
	return c.JSON(result)
}

// Following godoc
// GET /api/v1/users/:username/following
func (h *SocialHandler) Following(c fiber.Ctx) error {
	username := c.Params("username")

	users, err := h.svc.Following(c.Context(), middleware.UserID(c), username)
	if err != nil {
		return fail(c, err, "failed to fetch following", "username", username)
	}
	return c.JSON(fiber.Map{"users": users})
}

// Followers godoc
// GET /api/v1/users/:username/followers
func (h *SocialHandler) Followers(c fiber.Ctx) error {
	username := c.Params("username")

	users, err := h.svc.Followers(c.Context(), middleware.UserID(c), username)
	if err != nil {
		return fail(c, err, "failed to fetch followers", "username", username)
	}
	return c.JSON(fiber.Map{"users": users})
}

// Search godoc
// GET /api/v1/users/search?q=
func (h *SocialHandler) Search(c fiber.Ctx) error {
	query := c.Query("q")

	users, err := h.svc.Search(c.Context(), middleware.UserID(c), query)
	if err != nil {
		return fail(c, err, "failed to search users", "query", query)
	}
	return c.JSON(fiber.Map{"users": users})
}
