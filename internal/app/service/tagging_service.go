package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"catalog-service/internal/domain"
	"catalog-service/internal/metrics"
)

// TaggingService attaches keyphrase tags to products using an external extractor.
type TaggingService struct {
	products domain.ProductRepository
	tags     domain.TagRepository
	tagger   domain.Tagger
	logger   *zap.Logger
}

// NewTaggingService creates a new TaggingService.
func NewTaggingService(store domain.CatalogStore, tagger domain.Tagger, logger *zap.Logger) *TaggingService {
	return &TaggingService{
		products: store.Products(),
		tags:     store.Tags(),
		tagger:   tagger,
		logger:   logger,
	}
}

// TaggingResult holds the result of a batch tagging run.
type TaggingResult struct {
	Processed int
	Tagged    int
	Failed    int
	Duration  time.Duration
}

// GenerateTags extracts keyphrases from the product's name and description and attaches
// them as tags of kind "ai". Returns the product's tags after the change.
func (s *TaggingService) GenerateTags(ctx context.Context, productID int64) ([]domain.Tag, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error("get product failed", zap.Int64("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("getting product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", productID, domain.ErrProductNotFound)
	}

	return s.tagProduct(ctx, product)
}

// TagUntagged tags up to batch products that carry no tags yet. Failures on individual
// products are logged and counted; the run continues with the next product.
func (s *TaggingService) TagUntagged(ctx context.Context, batch int) (TaggingResult, error) {
	start := time.Now()
	result := TaggingResult{}

	products, err := s.products.ListUntagged(ctx, batch)
	if err != nil {
		s.logger.Error("list untagged products failed", zap.Error(err))
		return result, fmt.Errorf("listing untagged products: %w", err)
	}

	s.logger.Info("tagging untagged products", zap.Int("count", len(products)))

	for _, p := range products {
		if ctx.Err() != nil {
			break
		}
		result.Processed++

		if _, err := s.tagProduct(ctx, p); err != nil {
			result.Failed++
			s.logger.Warn("tagging product failed", zap.Int64("product_id", p.ID), zap.Error(err))
			continue
		}
		result.Tagged++
	}

	result.Duration = time.Since(start)
	s.logger.Info("tagging run completed",
		zap.Int("processed", result.Processed),
		zap.Int("tagged", result.Tagged),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)

	return result, ctx.Err()
}

func (s *TaggingService) tagProduct(ctx context.Context, product *domain.Product) ([]domain.Tag, error) {
	text := product.Name
	if desc := strings.TrimSpace(product.Description); desc != "" {
		text += ". " + desc
	}

	s.logger.Debug("extracting keyphrases", zap.Int64("product_id", product.ID))

	phrases, err := s.tagger.ExtractKeyphrases(ctx, text)
	if err != nil {
		metrics.RecordTaggingRun(err, 0)
		return nil, fmt.Errorf("%w: %v", domain.ErrTaggerUnavailable, err)
	}

	names := domain.NormalizeTagNames(phrases)
	if len(names) == 0 {
		metrics.RecordTaggingRun(nil, 0)
		return product.Tags, nil
	}

	tags, err := s.tags.AttachTags(ctx, product.ID, names, domain.TagKindAI)
	if err != nil {
		metrics.RecordTaggingRun(err, 0)
		s.logger.Error("attach tags failed", zap.Int64("product_id", product.ID), zap.Error(err))
		return nil, fmt.Errorf("attaching tags to product %d: %w", product.ID, err)
	}
	metrics.RecordTaggingRun(nil, len(names))

	return tags, nil
}
