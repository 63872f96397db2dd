package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"catalog-service/internal/domain"
)

// CatalogService handles product and category maintenance.
type CatalogService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	search     *SearchService
	logger     *zap.Logger
}

// NewCatalogService creates a new CatalogService. search is used to drop cached pages
// after every mutation.
func NewCatalogService(store domain.CatalogStore, search *SearchService, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products:   store.Products(),
		categories: store.Categories(),
		search:     search,
		logger:     logger,
	}
}

// GetProduct retrieves a single product without recording a view.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("get product failed", zap.Int64("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("getting product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
	}

	return product, nil
}

// CreateProduct adds a product. View count starts at zero and availability follows stock.
func (s *CatalogService) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if err := s.requireCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := domain.NewProduct(input.Name, input.CategoryID, input.Price, input.Stock)
	input.Apply(product)

	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("create product failed", zap.String("name", input.Name), zap.Error(err))
		return nil, fmt.Errorf("creating product: %w", err)
	}
	s.search.InvalidateCache(ctx)

	s.logger.Info("product created", zap.Int64("product_id", product.ID))

	return product, nil
}

// UpdateProduct replaces the caller-writable fields of a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	input.Apply(product)

	if err := s.products.Update(ctx, product); err != nil {
		if !domain.IsNotFound(err) {
			s.logger.Error("update product failed", zap.Int64("product_id", id), zap.Error(err))
		}
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}
	s.search.InvalidateCache(ctx)

	return product, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if !domain.IsNotFound(err) {
			s.logger.Error("delete product failed", zap.Int64("product_id", id), zap.Error(err))
		}
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	s.search.InvalidateCache(ctx)

	s.logger.Info("product deleted", zap.Int64("product_id", id))

	return nil
}

// ListCategoryTree returns the root categories with their descendants.
func (s *CatalogService) ListCategoryTree(ctx context.Context) ([]*domain.CategoryNode, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		s.logger.Error("list categories failed", zap.Error(err))
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	return domain.BuildCategoryTree(categories), nil
}

// CreateCategory adds a category. A parent, when given, must already exist.
func (s *CatalogService) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	if input.ParentID != nil {
		if err := s.requireCategory(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := &domain.Category{
		Name:        input.Name,
		Description: input.Description,
		ParentID:    input.ParentID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if !domain.IsNotFound(err) {
			s.logger.Error("create category failed", zap.String("name", input.Name), zap.Error(err))
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.logger.Info("category created", zap.Int64("category_id", category.ID))

	return category, nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id int64) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("get category failed", zap.Int64("category_id", id), zap.Error(err))
		return fmt.Errorf("getting category: %w", err)
	}
	if category == nil {
		return fmt.Errorf("category %d: %w", id, domain.ErrCategoryNotFound)
	}

	return nil
}
