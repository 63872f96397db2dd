package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-service/internal/domain"
	"catalog-service/internal/infra/memory"
)

func TestSearchService_ListAll(t *testing.T) {
	f := newCatalogFixture(t, nil)
	c := f.category(t, "Electronics")
	f.product(t, "Laptop", c.ID, 1000, 3)
	f.product(t, "Phone", c.ID, 500, 0)

	products, err := f.search.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Phone"}, names(products))
}

func TestSearchService_ListPaged(t *testing.T) {
	f := newCatalogFixture(t, nil)
	c := f.category(t, "Electronics")
	f.product(t, "Tablet", c.ID, 300, 3)
	f.product(t, "Camera", c.ID, 700, 1)
	f.product(t, "Speaker", c.ID, 80, 9)

	tests := []struct {
		name      string
		sortBy    string
		direction string
		expected  []string
	}{
		{"name asc", "name", "asc", []string{"Camera", "Speaker", "Tablet"}},
		{"price desc", "price", "desc", []string{"Camera", "Tablet", "Speaker"}},
		{"stock is sortable here", "stock", "asc", []string{"Camera", "Tablet", "Speaker"}},
		{"invalid direction is ascending", "price", "upward", []string{"Speaker", "Tablet", "Camera"}},
		{"unknown field leaves storage order", "colour", "asc", []string{"Tablet", "Camera", "Speaker"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.search.ListPaged(context.Background(), domain.NewPageRequest(0, 10), tt.sortBy, tt.direction)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(page.Items))
			assert.Equal(t, int64(3), page.TotalElements)
		})
	}
}

func TestSearchService_SearchPaged(t *testing.T) {
	f := newCatalogFixture(t, nil)
	books := f.category(t, "Books")
	toys := f.category(t, "Toys")
	f.product(t, "Go in Action", books.ID, 40, 2)
	f.product(t, "Go Kart", toys.ID, 150, 1)
	f.product(t, "Learning Go", books.ID, 35, 0)
	f.product(t, "Puzzle", toys.ID, 20, 5)

	t.Run("name and category conjunction", func(t *testing.T) {
		name := "go"
		filter := domain.ProductFilter{Name: &name, CategoryID: &books.ID}

		page, err := f.search.SearchPaged(context.Background(), filter, domain.NewPageRequest(0, 5), "price", "asc")
		require.NoError(t, err)
		assert.Equal(t, []string{"Learning Go", "Go in Action"}, names(page.Items))
		assert.Equal(t, int64(2), page.TotalElements)
	})

	t.Run("availability and price range", func(t *testing.T) {
		available := true
		lower, upper := 20.0, 40.0
		filter := domain.ProductFilter{Available: &available, PriceMin: &lower, PriceMax: &upper}

		page, err := f.search.SearchPaged(context.Background(), filter, domain.NewPageRequest(0, 5), "name", "asc")
		require.NoError(t, err)
		assert.Equal(t, []string{"Go in Action", "Puzzle"}, names(page.Items))
	})

	t.Run("stock is not sortable on the filter path", func(t *testing.T) {
		page, err := f.search.SearchPaged(context.Background(), domain.ProductFilter{}, domain.NewPageRequest(0, 5), "stock", "desc")
		require.NoError(t, err)
		assert.Equal(t, []string{"Go in Action", "Go Kart", "Learning Go", "Puzzle"}, names(page.Items))
	})

	t.Run("total counts the whole match set", func(t *testing.T) {
		page, err := f.search.SearchPaged(context.Background(), domain.ProductFilter{}, domain.NewPageRequest(1, 3), "name", "asc")
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int64(4), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page, err := f.search.SearchPaged(context.Background(), domain.ProductFilter{}, domain.NewPageRequest(9, 5), "name", "asc")
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(4), page.TotalElements)
	})
}

func TestSearchService_ListByCategoryPaged(t *testing.T) {
	f := newCatalogFixture(t, nil)
	garden := f.category(t, "Garden")
	kitchen := f.category(t, "Kitchen")
	f.product(t, "Shovel", garden.ID, 25, 1)
	f.product(t, "Rake", garden.ID, 20, 0)
	f.product(t, "Pan", kitchen.ID, 30, 4)

	page, err := f.search.ListByCategoryPaged(context.Background(), garden.ID, domain.NewPageRequest(0, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"Rake", "Shovel"}, names(page.Items))

	_, err = f.search.ListByCategoryPaged(context.Background(), 404, domain.NewPageRequest(0, 5))
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestSearchService_PageCache(t *testing.T) {
	cache := newMapCache()
	f := newCatalogFixture(t, cache)
	ctx := context.Background()
	c := f.category(t, "Music")
	f.product(t, "Guitar", c.ID, 200, 2)

	first, err := f.search.ListPaged(ctx, domain.NewPageRequest(0, 10), "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.len())

	second, err := f.search.ListPaged(ctx, domain.NewPageRequest(0, 10), "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, names(first.Items), names(second.Items))

	// A mutation drops every cached page.
	f.product(t, "Drums", c.ID, 400, 1)
	assert.Equal(t, 0, cache.len())

	third, err := f.search.ListPaged(ctx, domain.NewPageRequest(0, 10), "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Drums", "Guitar"}, names(third.Items))
}

// hookedStore runs afterFind once a product page has been read.
type hookedStore struct {
	*memory.Store
	afterFind func()
}

func (s *hookedStore) Products() domain.ProductRepository {
	return &hookedProducts{ProductRepository: s.Store.Products(), store: s}
}

type hookedProducts struct {
	domain.ProductRepository
	store *hookedStore
}

func (p *hookedProducts) Find(ctx context.Context, filter domain.ProductFilter, page domain.PageRequest, sort domain.Sort) ([]*domain.Product, error) {
	items, err := p.ProductRepository.Find(ctx, filter, page, sort)
	if hook := p.store.afterFind; hook != nil {
		p.store.afterFind = nil
		hook()
	}
	return items, err
}

func TestSearchService_PageCache_InvalidatedDuringQuery(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	store := &hookedStore{Store: memory.NewStore()}

	c := &domain.Category{Name: "Music"}
	require.NoError(t, store.Categories().Create(ctx, c))
	require.NoError(t, store.Store.Products().Create(ctx, domain.NewProduct("Guitar", c.ID, 200, 2)))

	search := NewSearchService(store, cache, time.Minute, zap.NewNop())

	// A mutation commits and invalidates between the page read and the cache write.
	store.afterFind = func() {
		require.NoError(t, store.Store.Products().Create(ctx, domain.NewProduct("Drums", c.ID, 400, 1)))
		search.InvalidateCache(ctx)
	}

	stale, err := search.ListPaged(ctx, domain.NewPageRequest(0, 10), "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Guitar"}, names(stale.Items))
	assert.Equal(t, 0, cache.len(), "page read before the invalidation must not be cached")

	fresh, err := search.ListPaged(ctx, domain.NewPageRequest(0, 10), "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Drums", "Guitar"}, names(fresh.Items))
	assert.Equal(t, 1, cache.len())
}
