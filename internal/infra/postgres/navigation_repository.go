package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/domain"
)

// NavigationRepository implements domain.NavigationRepository.
type NavigationRepository struct {
	db *gorm.DB
}

// RecordView increments the view counter and appends the navigation event in one
// transaction. The single-statement increment takes a row lock, so concurrent views
// of the same product serialize instead of overwriting each other.
func (r *NavigationRepository) RecordView(ctx context.Context, productID, userID int64) (*domain.Product, error) {
	var product *domain.Product
	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ProductModel{}).
			Where("id = ?", productID).
			Updates(map[string]interface{}{
				"view_count": gorm.Expr("view_count + 1"),
				"updated_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("incrementing view count: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}

		event := &NavigationEventModel{
			ID:        uuid.NewString(),
			UserID:    userID,
			ProductID: productID,
			ViewedAt:  now,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("inserting navigation event: %w", err)
		}

		var err error
		product, err = getProduct(tx, productID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// LatestByUser returns the user's most recent navigation event. Events sharing a
// timestamp are ordered by insertion sequence.
func (r *NavigationRepository) LatestByUser(ctx context.Context, userID int64) (*domain.NavigationEvent, error) {
	var model NavigationEventModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("viewed_at DESC, seq DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No history
		}

		return nil, fmt.Errorf("getting latest navigation event: %w", err)
	}

	return model.ToDomain(), nil
}
