package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/internal/transport/httpserver/dto"
	"catalog-service/internal/validator"
)

// ProductHandler serves product listing, search and management.
type ProductHandler struct {
	search    *service.SearchService
	catalog   *service.CatalogService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(search *service.SearchService, catalog *service.CatalogService, v *validator.Validator, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		search:    search,
		catalog:   catalog,
		validator: v,
		logger:    logger,
	}
}

// ListAll handles GET /api/v1/products
func (h *ProductHandler) ListAll(c *fiber.Ctx) error {
	products, err := h.search.ListAll(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err, "list products")
	}

	return c.JSON(dto.FromDomainProducts(products))
}

// ListPaged handles GET /api/v1/products/page
func (h *ProductHandler) ListPaged(c *fiber.Ctx) error {
	req := dto.NewPageQuery(dto.DefaultListPageSize)
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	page, err := h.search.ListPaged(c.UserContext(), req.PageRequest(), req.SortBy, req.Direction)
	if err != nil {
		return writeError(c, h.logger, err, "list page")
	}

	return c.JSON(dto.FromProductPage(page))
}

// Search handles GET /api/v1/products/search
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	req := dto.NewSearchQuery()
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	page, err := h.search.SearchPaged(c.UserContext(), req.Filter(), req.PageRequest(), req.SortBy, req.Direction)
	if err != nil {
		return writeError(c, h.logger, err, "search")
	}

	return c.JSON(dto.FromProductPage(page))
}

// ListByCategory handles GET /api/v1/products/category/:categoryId
func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	categoryID, ok := paramID(c, "categoryId")
	if !ok {
		return invalidID(c, "categoryId")
	}

	req := dto.NewPageQuery(dto.DefaultSearchPageSize)
	if resp := bindQuery(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	page, err := h.search.ListByCategoryPaged(c.UserContext(), categoryID, req.PageRequest())
	if err != nil {
		return writeError(c, h.logger, err, "list by category")
	}

	return c.JSON(dto.FromProductPage(page))
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.logger, err, "get product")
	}

	return c.JSON(dto.FromDomainProduct(product))
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if resp := bindBody(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), req.ToInput())
	if err != nil {
		return writeError(c, h.logger, err, "create product")
	}

	c.Location("/api/v1/products/" + formatID(product.ID))

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainProduct(product))
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	var req dto.ProductRequest
	if resp := bindBody(c, h.validator, &req); resp != nil {
		return badRequest(c, resp)
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), id, req.ToInput())
	if err != nil {
		return writeError(c, h.logger, err, "update product")
	}

	return c.JSON(dto.FromDomainProduct(product))
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	if err := h.catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, h.logger, err, "delete product")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
