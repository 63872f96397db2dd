package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createCatalogTables creates the categories and products tables with their indexes.
func createCatalogTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_catalog",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS categories (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					description TEXT,
					parent_id BIGINT REFERENCES categories(id) ON DELETE SET NULL
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS products (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					description TEXT,
					image_url VARCHAR(1024),

					price DECIMAL(10,2) NOT NULL DEFAULT 0,
					stock INTEGER NOT NULL DEFAULT 0,
					view_count BIGINT NOT NULL DEFAULT 0,
					available BOOLEAN NOT NULL DEFAULT FALSE,

					category_id BIGINT NOT NULL REFERENCES categories(id),

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT chk_products_stock CHECK (stock >= 0)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories(parent_id);",
				"CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);",
				"CREATE INDEX IF NOT EXISTS idx_products_available_category ON products(available, category_id);",
				"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS products;").Error; err != nil {
				return err
			}
			return tx.Exec("DROP TABLE IF EXISTS categories;").Error
		},
	}
}
