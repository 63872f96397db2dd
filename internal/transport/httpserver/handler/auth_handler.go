package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/auth"
	"catalog-service/internal/transport/httpserver/dto"
	"catalog-service/internal/validator"
)

// AuthHandler issues bearer tokens.
type AuthHandler struct {
	tokens    *auth.TokenManager
	validator *validator.Validator
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(tokens *auth.TokenManager, v *validator.Validator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		tokens:    tokens,
		validator: v,
		logger:    logger,
	}
}

// IssueToken handles GET /api/public/auth/token?user_id=N
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenQuery
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	token, expiresAt, err := h.tokens.Issue(req.UserID)
	if err != nil {
		return writeError(c, h.logger, err, "issue token")
	}

	h.logger.Debug("token issued", zap.Int64("user_id", req.UserID), zap.Time("expires_at", expiresAt))

	return c.JSON(dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
	})
}
