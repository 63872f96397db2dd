package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-service/internal/domain"
)

func TestTaggingService_GenerateTags(t *testing.T) {
	f := newCatalogFixture(t, nil)
	ctx := context.Background()
	c := f.category(t, "Audio")
	p, err := f.catalog.CreateProduct(ctx, domain.ProductInput{
		Name:        "Studio Headphones",
		Description: "Closed-back wireless headphones",
		Price:       199,
		Stock:       2,
		CategoryID:  c.ID,
	})
	require.NoError(t, err)

	tagger := &stubTagger{phrases: []string{"Wireless", "headphones", "wireless", " "}}
	svc := NewTaggingService(f.store, tagger, zap.NewNop())

	tags, err := svc.GenerateTags(ctx, p.ID)
	require.NoError(t, err)

	require.Len(t, tags, 2)
	assert.Equal(t, "wireless", tags[0].Name)
	assert.Equal(t, domain.TagKindAI, tags[0].Kind)
	assert.Equal(t, []string{"Studio Headphones. Closed-back wireless headphones"}, tagger.calls)

	got, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.HasTag("headphones"))
}

func TestTaggingService_GenerateTags_Errors(t *testing.T) {
	f := newCatalogFixture(t, nil)
	ctx := context.Background()
	c := f.category(t, "Audio")
	p := f.product(t, "Speaker", c.ID, 50, 1)

	svc := NewTaggingService(f.store, &stubTagger{err: errors.New("connection refused")}, zap.NewNop())

	_, err := svc.GenerateTags(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrTaggerUnavailable)

	_, err = svc.GenerateTags(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestTaggingService_TagUntagged(t *testing.T) {
	f := newCatalogFixture(t, nil)
	ctx := context.Background()
	c := f.category(t, "Audio")
	for _, name := range []string{"Speaker", "Amplifier", "Turntable"} {
		f.product(t, name, c.ID, 50, 1)
	}

	svc := NewTaggingService(f.store, &stubTagger{phrases: []string{"audio"}}, zap.NewNop())

	result, err := svc.TagUntagged(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Tagged)
	assert.Equal(t, 0, result.Failed)

	remaining, err := f.store.Products().ListUntagged(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Turntable"}, names(remaining))
}

func TestTaggingService_TagUntagged_CountsFailures(t *testing.T) {
	f := newCatalogFixture(t, nil)
	ctx := context.Background()
	c := f.category(t, "Audio")
	f.product(t, "Speaker", c.ID, 50, 1)

	svc := NewTaggingService(f.store, &stubTagger{err: errors.New("503")}, zap.NewNop())

	result, err := svc.TagUntagged(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
}
