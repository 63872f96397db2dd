package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// detachNavigationEvents makes the browsing history independent of the products table
// and gives events a monotonic insertion sequence.
//
// Deleting a product must not erase history, so the cascading foreign key from 003 is
// dropped. Two views recorded within the same timestamp resolution are ordered by seq.
func detachNavigationEvents() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "005_detach_navigation_events",
		Migrate: func(tx *gorm.DB) error {
			statements := []string{
				`ALTER TABLE navigation_events DROP CONSTRAINT IF EXISTS navigation_events_product_id_fkey`,
				`ALTER TABLE navigation_events ADD COLUMN IF NOT EXISTS seq BIGSERIAL`,
				`DROP INDEX IF EXISTS idx_navigation_events_user_viewed`,
				`CREATE INDEX IF NOT EXISTS idx_navigation_events_user_viewed_seq
				ON navigation_events(user_id, viewed_at DESC, seq DESC)`,
			}
			for _, stmt := range statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			// NOT VALID skips checking events whose product is already gone.
			statements := []string{
				`DROP INDEX IF EXISTS idx_navigation_events_user_viewed_seq`,
				`ALTER TABLE navigation_events DROP COLUMN IF EXISTS seq`,
				`CREATE INDEX IF NOT EXISTS idx_navigation_events_user_viewed
				ON navigation_events(user_id, viewed_at DESC)`,
				`ALTER TABLE navigation_events
				ADD CONSTRAINT navigation_events_product_id_fkey
				FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE NOT VALID`,
			}
			for _, stmt := range statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}

			return nil
		},
	}
}
