package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/laasyan18/Tunr/internal/models"
	"github.com/laasyan18/Tunr/internal/service"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
// GET /health
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "tunr",
	})
}

// fail maps a service error to an HTTP response. Unknown errors are logged
// and masked behind a generic message.
func fail(c fiber.Ctx, err error, logMsg string, logArgs ...any) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: verr.Msg})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "invalid email or password"})
	default:
		slog.Error(logMsg, append(logArgs, "error", err)...)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: logMsg})
	}
}
