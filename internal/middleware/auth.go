package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the Locals key holding the authenticated user's id.
const UserIDKey = "user_id"

// UsernameKey is the Locals key holding the authenticated user's name.
const UsernameKey = "username"

// JWTAuth validates the Bearer token and stores the caller's identity in
// request locals.
func JWTAuth(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format, expected 'Bearer <token>'",
			})
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		c.Locals(UserIDKey, int(sub))
		if username, ok := claims["username"].(string); ok {
			c.Locals(UsernameKey, username)
		}
		return c.Next()
	}
}

// UserID extracts the authenticated user id set by JWTAuth.
func UserID(c fiber.Ctx) int {
	if id, ok := c.Locals(UserIDKey).(int); ok {
		return id
	}
	return 0
}
