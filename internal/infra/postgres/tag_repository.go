package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-service/internal/domain"
)

// TagRepository implements domain.TagRepository.
type TagRepository struct {
	db *gorm.DB
}

// AttachTags finds or creates the named tags and links them to the product in one
// transaction. Existing tags keep their original kind.
func (r *TagRepository) AttachTags(ctx context.Context, productID int64, names []string, kind string) ([]domain.Tag, error) {
	names = domain.NormalizeTagNames(names)

	var attached []TagModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products int64
		if err := tx.Model(&ProductModel{}).Where("id = ?", productID).Count(&products).Error; err != nil {
			return fmt.Errorf("checking product: %w", err)
		}
		if products == 0 {
			return domain.ErrProductNotFound
		}

		if len(names) > 0 {
			candidates := make([]TagModel, len(names))
			for i, n := range names {
				candidates[i] = TagModel{Name: n, Kind: kind}
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&candidates).Error
			if err != nil {
				return fmt.Errorf("creating tags: %w", err)
			}

			var tags []TagModel
			if err := tx.Where("name = ANY(?)", pq.Array(names)).Find(&tags).Error; err != nil {
				return fmt.Errorf("loading tags: %w", err)
			}

			links := make([]ProductTagModel, len(tags))
			for i, t := range tags {
				links[i] = ProductTagModel{ProductID: productID, TagID: t.ID}
			}
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
			if err != nil {
				return fmt.Errorf("linking tags: %w", err)
			}
		}

		return tx.
			Joins("JOIN product_tags pt ON pt.tag_id = tags.id").
			Where("pt.product_id = ?", productID).
			Order("tags.id").
			Find(&attached).Error
	})
	if err != nil {
		return nil, err
	}

	tags := make([]domain.Tag, len(attached))
	for i, t := range attached {
		tags[i] = t.ToDomain()
	}

	return tags, nil
}
