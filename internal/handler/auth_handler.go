package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/laasyan18/Tunr/internal/models"
	"github.com/laasyan18/Tunr/internal/service"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup godoc
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := h.svc.Signup(c.Context(), req)
	if err != nil {
		return fail(c, err, "failed to create account")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login godoc
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	resp, err := h.svc.Login(c.Context(), req)
	if err != nil {
		return fail(c, err, "failed to log in")
	}
	return c.JSON(resp)
}
