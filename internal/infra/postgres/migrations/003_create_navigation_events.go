package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createNavigationEvents creates the append-only browsing history log.
func createNavigationEvents() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "003_create_navigation_events",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS navigation_events (
					id UUID PRIMARY KEY,
					user_id BIGINT NOT NULL,
					product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
					viewed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			// Serves "latest event for user".
			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_navigation_events_user_viewed
				ON navigation_events(user_id, viewed_at DESC);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS navigation_events;").Error
		},
	}
}
