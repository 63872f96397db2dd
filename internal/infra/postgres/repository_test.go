package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"catalog-service/internal/domain"
	"catalog-service/internal/infra/postgres/migrations"
)

// setupTestDB creates a PostgreSQL testcontainer, runs the catalog migrations and
// returns a connected GORM DB.
//
// Prerequisites:
//   - Docker must be running
//
// OR
//   - Skip tests with: go test -short
func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("catalog_test"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf(`Failed to start PostgreSQL container: %v

Docker Prerequisites:
1. Ensure Docker is running
2. OR skip integration tests: go test -short

`, err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, migrations.Run(db), "Failed to run migrations")

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func createTestCategory(t *testing.T, store *Store, name string, parentID *int64) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, ParentID: parentID}
	require.NoError(t, store.Categories().Create(context.Background(), c))
	return c
}

func createTestProduct(t *testing.T, store *Store, name string, categoryID int64, price float64, stock int) *domain.Product {
	t.Helper()
	p := domain.NewProduct(name, categoryID, price, stock)
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func productNames(products []*domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

// TestCatalogStore runs every repository scenario against one container.
func TestCatalogStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	reset := func(t *testing.T) {
		t.Helper()
		require.NoError(t, db.Exec("TRUNCATE navigation_events, product_tags, tags, products, categories RESTART IDENTITY CASCADE").Error)
	}

	t.Run("create and get product", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()

		c := createTestCategory(t, store, "Electronics", nil)
		p := createTestProduct(t, store, "Laptop", c.ID, 999.99, 0)

		assert.NotZero(t, p.ID, "ID should be generated")
		assert.False(t, p.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.Equal(t, "Electronics", p.CategoryName)
		assert.False(t, p.Available)

		got, err := store.Products().GetByID(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 999.99, got.Price)
		assert.Empty(t, got.Tags)

		missing, err := store.Products().GetByID(ctx, p.ID+100)
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("find and count share the filter", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()

		books := createTestCategory(t, store, "Books", nil)
		toys := createTestCategory(t, store, "Toys", nil)
		createTestProduct(t, store, "Go in Action", books.ID, 40, 2)
		createTestProduct(t, store, "go kart", toys.ID, 150, 1)
		createTestProduct(t, store, "Learning Go", books.ID, 35, 0)
		createTestProduct(t, store, "100% Cotton_Shirt", toys.ID, 20, 5)

		name := "GO"
		filter := domain.ProductFilter{Name: &name}

		items, err := store.Products().Find(ctx, filter, domain.NewPageRequest(0, 2), domain.SortByNameAsc)
		require.NoError(t, err)
		total, err := store.Products().Count(ctx, filter)
		require.NoError(t, err)

		assert.Equal(t, []string{"Go in Action", "go kart"}, productNames(items))
		assert.Equal(t, int64(3), total)

		// LIKE wildcards in the term are literal.
		pct := "100%"
		total, err = store.Products().Count(ctx, domain.ProductFilter{Name: &pct})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		under := "Go_in"
		total, err = store.Products().Count(ctx, domain.ProductFilter{Name: &under})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		available := true
		lower, upper := 20.0, 40.0
		items, err = store.Products().Find(ctx,
			domain.ProductFilter{Available: &available, PriceMin: &lower, PriceMax: &upper},
			domain.NewPageRequest(0, 10),
			domain.Sort{Field: domain.SortFieldPrice, Order: domain.SortOrderDesc},
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go in Action", "100% Cotton_Shirt"}, productNames(items))
	})

	t.Run("unsorted keeps id order", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		c := createTestCategory(t, store, "Misc", nil)
		createTestProduct(t, store, "Zeta", c.ID, 1, 1)
		createTestProduct(t, store, "Alpha", c.ID, 1, 1)

		items, err := store.Products().Find(context.Background(), domain.ProductFilter{}, domain.NewPageRequest(0, 10), domain.Unsorted)
		require.NoError(t, err)
		assert.Equal(t, []string{"Zeta", "Alpha"}, productNames(items))
	})

	t.Run("update and delete", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()
		c := createTestCategory(t, store, "Kitchen", nil)
		p := createTestProduct(t, store, "Kettle", c.ID, 40, 2)
		createdAt := p.CreatedAt

		time.Sleep(10 * time.Millisecond)
		domain.ProductInput{Name: "Electric Kettle", Price: 45, Stock: 0, CategoryID: c.ID}.Apply(p)
		require.NoError(t, store.Products().Update(ctx, p))

		assert.Equal(t, "Electric Kettle", p.Name)
		assert.False(t, p.Available)
		assert.True(t, p.UpdatedAt.After(createdAt), "UpdatedAt should be newer")

		require.NoError(t, store.Products().Delete(ctx, p.ID))
		assert.ErrorIs(t, store.Products().Delete(ctx, p.ID), domain.ErrProductNotFound)
		assert.ErrorIs(t, store.Products().Update(ctx, p), domain.ErrProductNotFound)
	})

	t.Run("carousel queries", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()
		full := createTestCategory(t, store, "Full", nil)
		sparse := createTestCategory(t, store, "Sparse", nil)

		var last *domain.Product
		for i := 0; i < 12; i++ {
			last = createTestProduct(t, store, fmt.Sprintf("item %d", i), full.ID, 10, 1)
		}
		createTestProduct(t, store, "sold out", full.ID, 10, 0)
		createTestProduct(t, store, "lonely", sparse.ID, 10, 1)

		counts, err := store.Products().CountAvailableByCategory(ctx, 10)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, full.ID, counts[0].CategoryID)
		assert.Equal(t, int64(12), counts[0].Total)

		latest, err := store.Products().LatestAvailableByCategory(ctx, full.ID, 10)
		require.NoError(t, err)
		require.Len(t, latest, 10)
		assert.Equal(t, last.ID, latest[0].ID)
		for _, p := range latest {
			assert.True(t, p.Available)
		}
	})

	t.Run("category parent must exist", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()

		root := createTestCategory(t, store, "Root", nil)
		child := createTestCategory(t, store, "Child", &root.ID)

		got, err := store.Categories().GetByID(ctx, child.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, root.ID, *got.ParentID)

		missing := int64(999)
		err = store.Categories().Create(ctx, &domain.Category{Name: "Orphan", ParentID: &missing})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

		all, err := store.Categories().List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("attach tags", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()
		c := createTestCategory(t, store, "Audio", nil)
		a := createTestProduct(t, store, "Headphones", c.ID, 100, 1)
		b := createTestProduct(t, store, "Speaker", c.ID, 80, 1)

		tags, err := store.Tags().AttachTags(ctx, a.ID, []string{"Wireless", "audio", "wireless"}, domain.TagKindAI)
		require.NoError(t, err)
		assert.Len(t, tags, 2)

		// Shared tag is reused, not duplicated.
		tags, err = store.Tags().AttachTags(ctx, b.ID, []string{"audio"}, domain.TagKindAI)
		require.NoError(t, err)
		require.Len(t, tags, 1)

		var tagCount int64
		require.NoError(t, db.Model(&TagModel{}).Count(&tagCount).Error)
		assert.Equal(t, int64(2), tagCount)

		got, err := store.Products().GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, got.HasTag("wireless"))

		untagged, err := store.Products().ListUntagged(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, untagged)

		_, err = store.Tags().AttachTags(ctx, 999, []string{"x"}, domain.TagKindAI)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("record view is atomic", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()
		c := createTestCategory(t, store, "Games", nil)
		p := createTestProduct(t, store, "Chess", c.ID, 30, 1)

		const goroutines = 10
		var wg sync.WaitGroup
		errChan := make(chan error, goroutines)
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(user int64) {
				defer wg.Done()
				if _, err := store.Navigation().RecordView(ctx, p.ID, user); err != nil {
					errChan <- err
				}
			}(int64(i))
		}
		wg.Wait()
		close(errChan)

		for err := range errChan {
			t.Errorf("concurrent record view failed: %v", err)
		}

		got, err := store.Products().GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(goroutines), got.ViewCount, "no view may be lost")

		var events int64
		require.NoError(t, db.Model(&NavigationEventModel{}).Count(&events).Error)
		assert.Equal(t, int64(goroutines), events)

		// A missing product leaves neither a counter change nor an event.
		_, err = store.Navigation().RecordView(ctx, 999, 1)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		require.NoError(t, db.Model(&NavigationEventModel{}).Count(&events).Error)
		assert.Equal(t, int64(goroutines), events)
	})

	t.Run("latest by user", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()
		c := createTestCategory(t, store, "Shoes", nil)
		a := createTestProduct(t, store, "Runner", c.ID, 80, 1)
		b := createTestProduct(t, store, "Hiker", c.ID, 90, 1)

		event, err := store.Navigation().LatestByUser(ctx, 5)
		require.NoError(t, err)
		assert.Nil(t, event)

		_, err = store.Navigation().RecordView(ctx, a.ID, 5)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		viewed, err := store.Navigation().RecordView(ctx, b.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(1), viewed.ViewCount)

		event, err = store.Navigation().LatestByUser(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, b.ID, event.ProductID)
		assert.Len(t, event.ID, 36)
	})

	t.Run("latest by user breaks timestamp ties by insertion order", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()
		viewedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		for _, productID := range []int64{11, 12, 13} {
			require.NoError(t, db.Create(&NavigationEventModel{
				ID:        uuid.NewString(),
				UserID:    6,
				ProductID: productID,
				ViewedAt:  viewedAt,
			}).Error)
		}

		event, err := store.Navigation().LatestByUser(ctx, 6)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, int64(13), event.ProductID)
	})

	t.Run("history survives product deletion", func(t *testing.T) {
		reset(t)
		store := NewStore(db)
		ctx := context.Background()
		c := createTestCategory(t, store, "Shoes", nil)
		p := createTestProduct(t, store, "Runner", c.ID, 80, 1)

		_, err := store.Navigation().RecordView(ctx, p.ID, 8)
		require.NoError(t, err)
		require.NoError(t, store.Products().Delete(ctx, p.ID))

		event, err := store.Navigation().LatestByUser(ctx, 8)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.Equal(t, p.ID, event.ProductID)

		got, err := store.Products().GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestMigrations_RollbackAndReapply(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.True(t, db.Migrator().HasTable("navigation_events"))

	// 005 and 004 alter columns and indexes; the third rollback removes navigation_events.
	require.NoError(t, migrations.Rollback(db))
	assert.False(t, db.Migrator().HasColumn("navigation_events", "seq"))
	require.NoError(t, migrations.Rollback(db))
	require.NoError(t, migrations.Rollback(db))
	assert.False(t, db.Migrator().HasTable("navigation_events"))
	assert.True(t, db.Migrator().HasTable("products"))

	require.NoError(t, migrations.Run(db))
	assert.True(t, db.Migrator().HasTable("navigation_events"))
	assert.True(t, db.Migrator().HasColumn("navigation_events", "seq"))
}
