// Package migrations provides the catalog schema migrations using gormigrate.
package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// options keeps the applied-migration ledger in its own table. Migrations are not
// wrapped in a transaction so 004 can tolerate a failed CREATE EXTENSION.
var options = &gormigrate.Options{
	TableName:      "catalog_migrations",
	IDColumnName:   "id",
	IDColumnSize:   255,
	UseTransaction: false,
}

// All returns the catalog migrations in apply order.
func All() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createCatalogTables(),
		createTagTables(),
		createNavigationEvents(),
		addNameTrigramIndex(),
		detachNavigationEvents(),
	}
}

// Run applies all pending migrations.
func Run(db *gorm.DB) error {
	return gormigrate.New(db, options, All()).Migrate()
}

// Rollback reverts the most recently applied migration.
func Rollback(db *gorm.DB) error {
	return gormigrate.New(db, options, All()).RollbackLast()
}
