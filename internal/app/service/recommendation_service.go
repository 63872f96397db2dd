package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"catalog-service/internal/domain"
)

// RecommendationService derives product suggestions from a base product or from a
// user's browsing history.
type RecommendationService struct {
	products domain.ProductRepository
	search   *SearchService
	history  *HistoryService
	logger   *zap.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(store domain.CatalogStore, search *SearchService, history *HistoryService, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{
		products: store.Products(),
		search:   search,
		history:  history,
		logger:   logger,
	}
}

// RecommendSimilar returns available products in the same category whose name contains
// the base product's first word and whose price lies within 80%..120% of the base price.
// The base product itself is excluded. Results are ordered by name.
func (s *RecommendationService) RecommendSimilar(ctx context.Context, productID int64, page domain.PageRequest) (*domain.ProductPage, error) {
	base, err := s.products.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error("get base product failed", zap.Int64("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("getting product: %w", err)
	}
	if base == nil {
		return nil, fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
	}

	return s.similarTo(ctx, base, page)
}

// RecommendFromLastViewed returns products from the category of the user's most recently
// viewed product, ordered by name. The viewed product is not excluded.
func (s *RecommendationService) RecommendFromLastViewed(ctx context.Context, userID int64, page domain.PageRequest) (*domain.ProductPage, error) {
	event, err := s.history.LastViewed(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, event.ProductID)
	if err != nil {
		s.logger.Error("get last viewed product failed", zap.Int64("product_id", event.ProductID), zap.Error(err))
		return nil, fmt.Errorf("getting product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", event.ProductID, domain.ErrProductNotFound)
	}

	s.logger.Debug("recommending from history",
		zap.Int64("user_id", userID),
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID),
	)

	return s.search.ListByCategoryPaged(ctx, product.CategoryID, page)
}

// RecordViewAndRecommend records a view of the product by the user and returns the
// updated product together with its similar items.
func (s *RecommendationService) RecordViewAndRecommend(ctx context.Context, productID, userID int64, page domain.PageRequest) (*domain.ProductDetail, error) {
	product, err := s.history.RecordView(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	similar, err := s.similarTo(ctx, product, page)
	if err != nil {
		return nil, err
	}

	return &domain.ProductDetail{Product: product, Recommendations: similar}, nil
}

func (s *RecommendationService) similarTo(ctx context.Context, base *domain.Product, page domain.PageRequest) (*domain.ProductPage, error) {
	lower, upper := base.PriceBand()
	s.logger.Debug("recommending similar products",
		zap.Int64("product_id", base.ID),
		zap.String("keyword", base.Keyword()),
		zap.Float64("price_min", lower),
		zap.Float64("price_max", upper),
	)

	return s.search.query(ctx, domain.SimilarTo(base), page, domain.SortByNameAsc)
}
