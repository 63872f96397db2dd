package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/transport/httpserver/dto"
)

const userIDKey = "user_id"

// TokenParser validates a bearer token and returns the user id it identifies.
type TokenParser interface {
	Parse(token string) (int64, error)
}

// RequireBearer rejects requests without a valid "Authorization: Bearer <token>"
// header and stores the authenticated user id for handlers.
func RequireBearer(tokens TokenParser, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "missing bearer token",
				Code:  "UNAUTHORIZED",
			})
		}

		userID, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			logger.Debug("bearer token rejected", zap.String("path", c.Path()), zap.Error(err))

			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "UNAUTHORIZED",
			})
		}

		c.Locals(userIDKey, userID)

		return c.Next()
	}
}

// UserID returns the user id stored by RequireBearer.
func UserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(userIDKey).(int64)
	return id, ok
}
