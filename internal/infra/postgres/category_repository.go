package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"catalog-service/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository.
type CategoryRepository struct {
	db *gorm.DB
}

// GetByID retrieves a single category by id.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var model CategoryModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting category by id: %w", err)
	}

	return model.ToDomain(), nil
}

// List returns all categories in id order.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var models []CategoryModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	categories := make([]*domain.Category, len(models))
	for i := range models {
		categories[i] = models[i].ToDomain()
	}

	return categories, nil
}

// Create inserts a category. The parent, when set, must exist.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if category.ParentID != nil {
			var parents int64
			if err := tx.Model(&CategoryModel{}).Where("id = ?", *category.ParentID).Count(&parents).Error; err != nil {
				return fmt.Errorf("checking parent category: %w", err)
			}
			if parents == 0 {
				return domain.ErrCategoryNotFound
			}
		}

		model := &CategoryModel{
			Name:        category.Name,
			Description: category.Description,
			ParentID:    category.ParentID,
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("creating category: %w", err)
		}
		category.ID = model.ID

		return nil
	})
}
