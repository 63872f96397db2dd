package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"catalog-service/internal/domain"
	"catalog-service/internal/metrics"
)

// Carousel selection parameters.
const (
	MinCarouselSupply = 10 // available products a category needs to qualify
	CarouselCount     = 3  // categories per selection
	CarouselItems     = 10 // products per carousel
)

// Shuffler permutes n elements in place through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// CarouselService picks random well-stocked categories for the storefront.
type CarouselService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	shuffle    Shuffler
	logger     *zap.Logger
}

// NewCarouselService creates a new CarouselService. A nil shuffle uses math/rand/v2.
func NewCarouselService(store domain.CatalogStore, shuffle Shuffler, logger *zap.Logger) *CarouselService {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}

	return &CarouselService{
		products:   store.Products(),
		categories: store.Categories(),
		shuffle:    shuffle,
		logger:     logger,
	}
}

// GetCarousels returns CarouselCount categories chosen uniformly at random among those
// with at least MinCarouselSupply available products, each with its CarouselItems most
// recently added available products.
func (s *CarouselService) GetCarousels(ctx context.Context) ([]domain.Carousel, error) {
	s.logger.Debug("selecting carousels")

	eligible, err := s.products.CountAvailableByCategory(ctx, MinCarouselSupply)
	if err != nil {
		metrics.RecordCarousel(metrics.OutcomeError)
		s.logger.Error("counting available products failed", zap.Error(err))
		return nil, fmt.Errorf("counting available products by category: %w", err)
	}

	if len(eligible) < CarouselCount {
		metrics.RecordCarousel(metrics.OutcomeInsufficient)
		s.logger.Warn("not enough categories for carousels",
			zap.Int("eligible", len(eligible)),
			zap.Int("required", CarouselCount),
		)
		return nil, fmt.Errorf("%d of %d categories eligible: %w", len(eligible), CarouselCount, domain.ErrInsufficientSupply)
	}

	ids := make([]int64, len(eligible))
	for i, c := range eligible {
		ids[i] = c.CategoryID
	}
	s.shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	carousels := make([]domain.Carousel, 0, CarouselCount)
	for _, id := range ids[:CarouselCount] {
		category, err := s.categories.GetByID(ctx, id)
		if err != nil {
			metrics.RecordCarousel(metrics.OutcomeError)
			return nil, fmt.Errorf("getting category %d: %w", id, err)
		}
		if category == nil {
			metrics.RecordCarousel(metrics.OutcomeError)
			return nil, fmt.Errorf("category %d: %w", id, domain.ErrCategoryNotFound)
		}

		products, err := s.products.LatestAvailableByCategory(ctx, id, CarouselItems)
		if err != nil {
			metrics.RecordCarousel(metrics.OutcomeError)
			s.logger.Error("loading carousel products failed", zap.Int64("category_id", id), zap.Error(err))
			return nil, fmt.Errorf("loading products of category %d: %w", id, err)
		}

		carousels = append(carousels, domain.Carousel{Category: category, Products: products})
	}

	metrics.RecordCarousel(metrics.OutcomeServed)

	return carousels, nil
}
