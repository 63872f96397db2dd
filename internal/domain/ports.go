package domain

import (
	"context"
	"time"
)

// ProductRepository defines the Catalog Store operations on products.
// Implementations: internal/infra/postgres/repository.go, internal/infra/memory/store.go
type ProductRepository interface {
	// List returns every product in storage order.
	List(ctx context.Context) ([]*Product, error)

	// Find returns one page of products matching filter, ordered by sort
	// (storage order when sort is Unsorted).
	Find(ctx context.Context, filter ProductFilter, page PageRequest, sort Sort) ([]*Product, error)

	// Count returns the number of products matching filter.
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// GetByID retrieves a single product. Returns nil, nil when not found.
	GetByID(ctx context.Context, id int64) (*Product, error)

	// Create inserts a product and fills in its generated id and timestamps.
	Create(ctx context.Context, product *Product) error

	// Update persists caller-writable fields and refreshes UpdatedAt.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, product *Product) error

	// Delete removes a product. Returns ErrProductNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// CountAvailableByCategory groups available products by category and keeps
	// the categories holding at least minimum of them.
	CountAvailableByCategory(ctx context.Context, minimum int64) ([]CategoryCount, error)

	// LatestAvailableByCategory returns up to limit available products of a category,
	// most recently inserted first.
	LatestAvailableByCategory(ctx context.Context, categoryID int64, limit int) ([]*Product, error)

	// ListUntagged returns up to limit products without any tag, oldest first.
	ListUntagged(ctx context.Context, limit int) ([]*Product, error)
}

// CategoryRepository defines the Catalog Store operations on categories.
type CategoryRepository interface {
	// GetByID retrieves a single category. Returns nil, nil when not found.
	GetByID(ctx context.Context, id int64) (*Category, error)

	// List returns all categories as a flat list.
	List(ctx context.Context) ([]*Category, error)

	// Create inserts a category and fills in its generated id.
	Create(ctx context.Context, category *Category) error
}

// TagRepository defines the Catalog Store operations on tags.
type TagRepository interface {
	// AttachTags finds or creates tags with the given names and kind and links them
	// to the product. Returns the product's tags after the change.
	AttachTags(ctx context.Context, productID int64, names []string, kind string) ([]Tag, error)
}

// NavigationRepository defines the browsing-history log operations.
type NavigationRepository interface {
	// RecordView increments the product's view counter and appends a navigation
	// event in a single transaction, returning the updated product.
	// Returns ErrProductNotFound if the product does not exist.
	RecordView(ctx context.Context, productID, userID int64) (*Product, error)

	// LatestByUser returns the user's most recent navigation event. Returns nil, nil
	// when the user has no history.
	LatestByUser(ctx context.Context, userID int64) (*NavigationEvent, error)
}

// CatalogStore bundles every repository a Catalog Store provides.
type CatalogStore interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Tags() TagRepository
	Navigation() NavigationRepository
}

// Tagger extracts keyphrases from free text.
// Implementations: internal/infra/tagger/client.go
type Tagger interface {
	// ExtractKeyphrases returns the keyphrases found in text.
	ExtractKeyphrases(ctx context.Context, text string) ([]string, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go (optional)
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
