// Package service provides application use cases.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"catalog-service/internal/domain"
	"catalog-service/internal/metrics"
)

const pageCachePrefix = "products:page:"

// SearchService handles product listing and filtered search.
type SearchService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	cache      domain.Cache // nil when caching is disabled
	cacheTTL   time.Duration
	logger     *zap.Logger

	// generation is bumped on every invalidation. A page computed under an older
	// generation is not written back. cacheMu makes the check-and-set atomic with
	// respect to InvalidateCache.
	cacheMu    sync.RWMutex
	generation uint64
}

// NewSearchService creates a new SearchService. cache may be nil.
func NewSearchService(store domain.CatalogStore, cache domain.Cache, cacheTTL time.Duration, logger *zap.Logger) *SearchService {
	return &SearchService{
		products:   store.Products(),
		categories: store.Categories(),
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// ListAll returns every product, unpaged and unsorted.
func (s *SearchService) ListAll(ctx context.Context) ([]*domain.Product, error) {
	s.logger.Debug("listing all products")

	products, err := s.products.List(ctx)
	if err != nil {
		s.logger.Error("list all failed", zap.Error(err))
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return products, nil
}

// ListPaged returns one page of all products, ordered by any product column.
func (s *SearchService) ListPaged(ctx context.Context, page domain.PageRequest, sortField, direction string) (*domain.ProductPage, error) {
	sort := s.resolveSort(domain.ProductSortFields, sortField, direction)

	return s.query(ctx, domain.ProductFilter{}, page, sort)
}

// SearchPaged returns one page of products matching filter, ordered by name or price.
func (s *SearchService) SearchPaged(ctx context.Context, filter domain.ProductFilter, page domain.PageRequest, sortField, direction string) (*domain.ProductPage, error) {
	sort := s.resolveSort(domain.FilterSortFields, sortField, direction)

	return s.query(ctx, filter, page, sort)
}

// ListByCategoryPaged returns one page of a category's products ordered by name.
func (s *SearchService) ListByCategoryPaged(ctx context.Context, categoryID int64, page domain.PageRequest) (*domain.ProductPage, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		s.logger.Error("get category failed", zap.Int64("category_id", categoryID), zap.Error(err))
		return nil, fmt.Errorf("getting category: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("category %d: %w", categoryID, domain.ErrCategoryNotFound)
	}

	return s.query(ctx, domain.CategoryFilter(categoryID), page, domain.SortByNameAsc)
}

// InvalidateCache drops every cached page. Called after catalog mutations.
// Queries already in flight will not cache their results.
func (s *SearchService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.generation++
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("page cache clear failed", zap.Error(err))
	}
}

// query runs the page and count queries with the same filter and assembles the page.
func (s *SearchService) query(ctx context.Context, filter domain.ProductFilter, page domain.PageRequest, sort domain.Sort) (*domain.ProductPage, error) {
	page.Normalize()

	s.logger.Debug("querying products",
		zap.Bool("filtered", !filter.IsEmpty()),
		zap.Int("page", page.Page),
		zap.Int("size", page.Size),
		zap.String("sort", string(sort.Field)),
		zap.String("order", string(sort.Order)),
	)

	cacheKey := s.cacheKey(filter, page, sort)
	if cached := s.getFromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}
	generation := s.cacheGeneration()

	items, err := s.products.Find(ctx, filter, page, sort)
	if err != nil {
		s.logger.Error("product query failed", zap.Error(err))
		return nil, fmt.Errorf("finding products: %w", err)
	}

	total, err := s.products.Count(ctx, filter)
	if err != nil {
		s.logger.Error("product count failed", zap.Error(err))
		return nil, fmt.Errorf("counting products: %w", err)
	}

	result := domain.NewProductPage(items, total, page)
	s.setCache(ctx, cacheKey, generation, result)

	s.logger.Debug("query completed",
		zap.Int64("total", result.TotalElements),
		zap.Int("count", len(result.Items)),
	)

	return result, nil
}

func (s *SearchService) resolveSort(allowed domain.SortFields, field, direction string) domain.Sort {
	sort, ok := domain.ResolveSort(allowed, field, direction)
	if !ok {
		metrics.InvalidSortRequests.Inc()
		s.logger.Warn("ignoring unsortable field, results left unsorted",
			zap.String("sort_by", field),
			zap.String("direction", direction),
		)
	}

	return sort
}

type pageCacheKey struct {
	Name       *string  `json:"name,omitempty"`
	CategoryID *int64   `json:"category_id,omitempty"`
	PriceMin   *float64 `json:"price_min,omitempty"`
	PriceMax   *float64 `json:"price_max,omitempty"`
	Available  *bool    `json:"available,omitempty"`
	ExcludeID  *int64   `json:"exclude_id,omitempty"`
	Page       int      `json:"page"`
	Size       int      `json:"size"`
	Sort       string   `json:"sort,omitempty"`
	Order      string   `json:"order,omitempty"`
}

func (s *SearchService) cacheKey(filter domain.ProductFilter, page domain.PageRequest, sort domain.Sort) string {
	if s.cache == nil {
		return ""
	}

	key := pageCacheKey{
		CategoryID: filter.CategoryID,
		PriceMin:   filter.PriceMin,
		PriceMax:   filter.PriceMax,
		Available:  filter.Available,
		ExcludeID:  filter.ExcludeID,
		Page:       page.Page,
		Size:       page.Size,
		Sort:       string(sort.Field),
		Order:      string(sort.Order),
	}
	if name, ok := filter.NameContains(); ok {
		key.Name = &name
	}

	data, err := json.Marshal(key)
	if err != nil {
		return ""
	}

	return pageCachePrefix + string(data)
}

func (s *SearchService) getFromCache(ctx context.Context, key string) *domain.ProductPage {
	if key == "" {
		return nil
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		metrics.PageCacheMisses.Inc()
		return nil
	}

	var page domain.ProductPage
	if err := json.Unmarshal(data, &page); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	metrics.PageCacheHits.Inc()

	return &page
}

func (s *SearchService) cacheGeneration() uint64 {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.generation
}

// setCache stores page unless the cache was invalidated after generation was read.
func (s *SearchService) setCache(ctx context.Context, key string, generation uint64, page *domain.ProductPage) {
	if key == "" {
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		s.logger.Warn("page cache encode failed", zap.Error(err))
		return
	}

	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	if s.generation != generation {
		s.logger.Debug("skipping cache write, invalidated during query", zap.String("key", key))
		return
	}
	// Cache failures are non-fatal.
	_ = s.cache.Set(ctx, key, data, s.cacheTTL)
}
