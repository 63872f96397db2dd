package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/internal/domain"
)

// StorefrontHandler renders the HTML storefront.
type StorefrontHandler struct {
	carousels *service.CarouselService
	logger    *zap.Logger
}

// NewStorefrontHandler creates a new StorefrontHandler.
func NewStorefrontHandler(carousels *service.CarouselService, logger *zap.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		carousels: carousels,
		logger:    logger,
	}
}

// Render handles GET /storefront. When too few categories have stock, the page is
// still rendered with a notice instead of carousels.
func (h *StorefrontHandler) Render(c *fiber.Ctx) error {
	carousels, err := h.carousels.GetCarousels(c.UserContext())
	notice := ""
	switch {
	case errors.Is(err, domain.ErrInsufficientSupply):
		notice = "Not enough categories are in stock to build the storefront yet."
	case err != nil:
		return writeError(c, h.logger, err, "storefront")
	}

	return c.Render("pages/storefront", fiber.Map{
		"Title":     "Storefront",
		"Carousels": carousels,
		"Notice":    notice,
	}, "layouts/base")
}
