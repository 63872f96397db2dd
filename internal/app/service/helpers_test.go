package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-service/internal/domain"
	"catalog-service/internal/infra/memory"
)

// catalogFixture bundles a fresh memory store with the services built on it.
type catalogFixture struct {
	store           *memory.Store
	search          *SearchService
	history         *HistoryService
	recommendations *RecommendationService
	catalog         *CatalogService
}

func newCatalogFixture(t *testing.T, cache domain.Cache) *catalogFixture {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore()
	search := NewSearchService(store, cache, time.Minute, logger)
	history := NewHistoryService(store, logger)

	return &catalogFixture{
		store:           store,
		search:          search,
		history:         history,
		recommendations: NewRecommendationService(store, search, history, logger),
		catalog:         NewCatalogService(store, search, logger),
	}
}

func (f *catalogFixture) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := f.catalog.CreateCategory(context.Background(), domain.CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (f *catalogFixture) product(t *testing.T, name string, categoryID int64, price float64, stock int) *domain.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), domain.ProductInput{
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return p
}

func names(products []*domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

// mapCache is a domain.Cache kept in a map.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	clears  int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.entries[key], nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
	c.clears++
	return nil
}

func (c *mapCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// stubTagger returns fixed phrases or a fixed error.
type stubTagger struct {
	phrases []string
	err     error
	calls   []string
}

func (s *stubTagger) ExtractKeyphrases(_ context.Context, text string) ([]string, error) {
	s.calls = append(s.calls, text)
	return s.phrases, s.err
}
