package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/domain"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	seeded, err := Seed(ctx, s)
	require.NoError(t, err)
	assert.True(t, seeded)

	products, err := s.Products().List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	eligible, err := s.Products().CountAvailableByCategory(ctx, 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(eligible), 3, "demo data must be enough for the storefront")

	categories, err := s.Categories().List(ctx)
	require.NoError(t, err)
	tree := domain.BuildCategoryTree(categories)
	var electronics *domain.CategoryNode
	for _, n := range tree {
		if n.Name == "Electronics" {
			electronics = n
		}
	}
	require.NotNil(t, electronics)
	assert.Len(t, electronics.Children, 2)

	for _, p := range products {
		assert.Equal(t, p.Stock > 0, p.Available, p.Name)
	}
}

func TestSeed_SkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := &domain.Category{Name: "Misc"}
	require.NoError(t, s.Categories().Create(ctx, c))
	require.NoError(t, s.Products().Create(ctx, domain.NewProduct("Thing", c.ID, 1, 1)))

	seeded, err := Seed(ctx, s)
	require.NoError(t, err)
	assert.False(t, seeded)

	products, err := s.Products().List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
