package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"catalog-service/internal/domain"
	"catalog-service/internal/metrics"
)

// HistoryService records product views and exposes each user's browsing history.
type HistoryService struct {
	navigation domain.NavigationRepository
	logger     *zap.Logger
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(store domain.CatalogStore, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		navigation: store.Navigation(),
		logger:     logger,
	}
}

// RecordView increments the product's view count and appends a navigation event for
// the user. Both effects are committed together or not at all.
func (s *HistoryService) RecordView(ctx context.Context, productID, userID int64) (*domain.Product, error) {
	s.logger.Debug("recording view",
		zap.Int64("product_id", productID),
		zap.Int64("user_id", userID),
	)

	product, err := s.navigation.RecordView(ctx, productID, userID)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.logger.Error("record view failed",
				zap.Int64("product_id", productID),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("recording view of product %d: %w", productID, err)
	}

	metrics.ProductViews.Inc()

	return product, nil
}

// LastViewed returns the user's most recent navigation event, or ErrNoHistory.
func (s *HistoryService) LastViewed(ctx context.Context, userID int64) (*domain.NavigationEvent, error) {
	event, err := s.navigation.LatestByUser(ctx, userID)
	if err != nil {
		s.logger.Error("latest navigation lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("getting latest navigation event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNoHistory)
	}

	return event, nil
}
