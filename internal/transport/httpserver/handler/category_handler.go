package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/internal/transport/httpserver/dto"
	"catalog-service/internal/validator"
)

// CategoryHandler serves the category hierarchy.
type CategoryHandler struct {
	catalog   *service.CatalogService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(catalog *service.CatalogService, v *validator.Validator, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalog:   catalog,
		validator: v,
		logger:    logger,
	}
}

// Tree handles GET /api/v1/categories
func (h *CategoryHandler) Tree(c *fiber.Ctx) error {
	tree, err := h.catalog.ListCategoryTree(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err, "list categories")
	}

	return c.JSON(dto.FromCategoryTree(tree))
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if resp := bindBody(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	category, err := h.catalog.CreateCategory(c.UserContext(), req.ToInput())
	if err != nil {
		return writeError(c, h.logger, err, "create category")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainCategory(category))
}
