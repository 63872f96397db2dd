package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/internal/transport/httpserver/dto"
	"catalog-service/internal/transport/httpserver/middleware"
	"catalog-service/internal/validator"
)

// RecommendationHandler serves carousels, similar items and history-based recommendations.
type RecommendationHandler struct {
	recommendations *service.RecommendationService
	carousels       *service.CarouselService
	validator       *validator.Validator
	logger          *zap.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(
	recommendations *service.RecommendationService,
	carousels *service.CarouselService,
	v *validator.Validator,
	logger *zap.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		carousels:       carousels,
		validator:       v,
		logger:          logger,
	}
}

// Carousels handles GET /api/v1/products/carousels
func (h *RecommendationHandler) Carousels(c *fiber.Ctx) error {
	carousels, err := h.carousels.GetCarousels(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err, "carousels")
	}

	return c.JSON(dto.FromCarousels(carousels))
}

// Similar handles GET /api/v1/products/:id/similar
func (h *RecommendationHandler) Similar(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	req := dto.NewPageQuery(dto.DefaultSearchPageSize)
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	page, err := h.recommendations.RecommendSimilar(c.UserContext(), id, req.PageRequest())
	if err != nil {
		return writeError(c, h.logger, err, "similar products")
	}

	return c.JSON(dto.FromProductPage(page))
}

// Detail handles GET /api/v1/products/:id/detail. Requires RequireBearer: the view is
// recorded for the authenticated user.
func (h *RecommendationHandler) Detail(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHORIZED",
		})
	}

	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	req := dto.NewPageQuery(dto.DefaultSearchPageSize)
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	detail, err := h.recommendations.RecordViewAndRecommend(c.UserContext(), id, userID, req.PageRequest())
	if err != nil {
		return writeError(c, h.logger, err, "product detail")
	}

	return c.JSON(dto.FromProductDetail(detail))
}

// FromHistory handles GET /api/v1/products/recommendations?user_id=N
func (h *RecommendationHandler) FromHistory(c *fiber.Ctx) error {
	req := dto.NewRecommendationsQuery()
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	page, err := h.recommendations.RecommendFromLastViewed(c.UserContext(), req.UserID, req.PageRequest())
	if err != nil {
		return writeError(c, h.logger, err, "recommendations")
	}

	return c.JSON(dto.FromProductPage(page))
}
