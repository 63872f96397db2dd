package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createTagTables creates tags and the product_tags join table.
func createTagTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_tags",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS tags (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					kind VARCHAR(20) NOT NULL DEFAULT '',

					CONSTRAINT uq_tags_name UNIQUE (name)
				);
			`).Error
			if err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS product_tags (
					product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
					tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
					PRIMARY KEY (product_id, tag_id)
				);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS product_tags;").Error; err != nil {
				return err
			}
			return tx.Exec("DROP TABLE IF EXISTS tags;").Error
		},
	}
}
