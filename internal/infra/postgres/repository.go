package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog-service/internal/domain"
)

// Store implements domain.CatalogStore using PostgreSQL.
type Store struct {
	products   *ProductRepository
	categories *CategoryRepository
	tags       *TagRepository
	navigation *NavigationRepository
}

// NewStore creates a new PostgreSQL-backed Catalog Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		products:   &ProductRepository{db: db},
		categories: &CategoryRepository{db: db},
		tags:       &TagRepository{db: db},
		navigation: &NavigationRepository{db: db},
	}
}

func (s *Store) Products() domain.ProductRepository { return s.products }

func (s *Store) Categories() domain.CategoryRepository { return s.categories }

func (s *Store) Tags() domain.TagRepository { return s.tags }

func (s *Store) Navigation() domain.NavigationRepository { return s.navigation }

var _ domain.CatalogStore = (*Store)(nil)

// ProductRepository implements domain.ProductRepository.
type ProductRepository struct {
	db *gorm.DB
}

// withAssociations preloads the category and the tags ordered by id.
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Tags", func(tx *gorm.DB) *gorm.DB { return tx.Order("tags.id") })
}

func toDomainSlice(models []ProductModel) []*domain.Product {
	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = models[i].ToDomain()
	}

	return products
}

// List returns every product in id order.
func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var models []ProductModel
	if err := withAssociations(r.db.WithContext(ctx)).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return toDomainSlice(models), nil
}

// Find returns one page of products matching filter.
func (r *ProductRepository) Find(ctx context.Context, filter domain.ProductFilter, page domain.PageRequest, sort domain.Sort) ([]*domain.Product, error) {
	page.Normalize()

	query := applyFilter(r.db.WithContext(ctx).Model(&ProductModel{}), filter)
	query = applyOrdering(query, sort).
		Offset(page.Offset()).
		Limit(page.Limit())

	var models []ProductModel
	if err := withAssociations(query).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("finding products: %w", err)
	}

	return toDomainSlice(models), nil
}

// Count returns the number of products matching filter.
func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	var count int64
	query := applyFilter(r.db.WithContext(ctx).Model(&ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}

	return count, nil
}

// GetByID retrieves a single product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return getProduct(r.db.WithContext(ctx), id)
}

func getProduct(db *gorm.DB, id int64) (*domain.Product, error) {
	var model ProductModel
	err := withAssociations(db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting product by id: %w", err)
	}

	return model.ToDomain(), nil
}

// Create inserts a product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	model := productFromDomain(product)
	model.ID = 0

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("creating product: %w", err)
	}

	created, err := getProduct(r.db.WithContext(ctx), model.ID)
	if err != nil {
		return err
	}
	*product = *created

	return nil
}

// Update persists the caller-writable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	result := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"image_url":   product.ImageURL,
			"price":       product.Price,
			"stock":       product.Stock,
			"available":   product.Available,
			"category_id": product.CategoryID,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("updating product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	updated, err := getProduct(r.db.WithContext(ctx), product.ID)
	if err != nil {
		return err
	}
	if updated != nil {
		*product = *updated
	}

	return nil
}

// Delete removes a product. Tag links cascade; navigation events are kept.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// CountAvailableByCategory runs one grouped count over available products.
func (r *ProductRepository) CountAvailableByCategory(ctx context.Context, minimum int64) ([]domain.CategoryCount, error) {
	var rows []domain.CategoryCount
	err := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Select("category_id, COUNT(*) AS total").
		Where("available = ?", true).
		Group("category_id").
		Having("COUNT(*) >= ?", minimum).
		Order("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting available products by category: %w", err)
	}

	return rows, nil
}

// LatestAvailableByCategory returns the newest available products of a category.
func (r *ProductRepository) LatestAvailableByCategory(ctx context.Context, categoryID int64, limit int) ([]*domain.Product, error) {
	var models []ProductModel
	err := withAssociations(r.db.WithContext(ctx)).
		Where("category_id = ? AND available = ?", categoryID, true).
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("loading latest products of category: %w", err)
	}

	return toDomainSlice(models), nil
}

// ListUntagged returns the oldest products that have no tag links.
func (r *ProductRepository) ListUntagged(ctx context.Context, limit int) ([]*domain.Product, error) {
	var models []ProductModel
	err := withAssociations(r.db.WithContext(ctx)).
		Where("NOT EXISTS (SELECT 1 FROM product_tags pt WHERE pt.product_id = products.id)").
		Order("id").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing untagged products: %w", err)
	}

	return toDomainSlice(models), nil
}

// applyFilter translates a ProductFilter into a conjunction of WHERE clauses.
// All values are bound parameters.
func applyFilter(query *gorm.DB, filter domain.ProductFilter) *gorm.DB {
	if name, ok := filter.NameContains(); ok {
		query = query.Where("products.name ILIKE ?", "%"+escapeLike(name)+"%")
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.PriceMin != nil {
		query = query.Where("products.price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("products.price <= ?", *filter.PriceMax)
	}
	if filter.Available != nil {
		query = query.Where("products.available = ?", *filter.Available)
	}
	if filter.ExcludeID != nil {
		query = query.Where("products.id <> ?", *filter.ExcludeID)
	}

	return query
}

// applyOrdering adds ORDER BY for a resolved sort, with id as the final tie-breaker.
// Sort fields come from a fixed allow-list, so they are safe to use as column names.
func applyOrdering(query *gorm.DB, sort domain.Sort) *gorm.DB {
	if !sort.IsUnsorted() {
		name := "products." + string(sort.Field)
		if sort.Field == domain.SortFieldName || sort.Field == domain.SortFieldDescription {
			name = "LOWER(" + name + ")"
		}
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: name, Raw: true},
			Desc:   sort.Desc(),
		})
	}

	return query.Order("products.id")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so the name criterion is a literal substring.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
