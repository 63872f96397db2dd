package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addNameTrigramIndex speeds up case-insensitive substring search on product names.
//
// Name filtering uses `name ILIKE '%term%'`, which a B-tree index cannot serve.
// A GIN index with gin_trgm_ops can. The pg_trgm extension needs privileges that
// managed databases do not always grant, so failures are ignored and the query
// falls back to a sequential scan.
func addNameTrigramIndex() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "004_add_name_trigram_index",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
				return nil
			}

			_ = tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_products_name_trgm
				ON products USING GIN (name gin_trgm_ops)
			`).Error

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			_ = tx.Exec(`DROP INDEX IF EXISTS idx_products_name_trgm`).Error
			return nil
		},
	}
}
