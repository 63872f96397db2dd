// Package memory provides an in-process Catalog Store for local development and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalog-service/internal/domain"
)

// Store implements domain.CatalogStore on plain maps guarded by a single mutex.
// Products and categories are kept in insertion (id) order.
type Store struct {
	mu sync.RWMutex

	products   []*domain.Product
	categories []*domain.Category
	tags       []domain.Tag
	productTag map[int64][]int64 // product id -> tag ids
	events     []*domain.NavigationEvent

	nextProductID  int64
	nextCategoryID int64
	nextTagID      int64

	now func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		productTag: make(map[int64][]int64),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Products returns the product repository view of the store.
func (s *Store) Products() domain.ProductRepository { return (*productRepo)(s) }

// Categories returns the category repository view of the store.
func (s *Store) Categories() domain.CategoryRepository { return (*categoryRepo)(s) }

// Tags returns the tag repository view of the store.
func (s *Store) Tags() domain.TagRepository { return (*tagRepo)(s) }

// Navigation returns the navigation log view of the store.
func (s *Store) Navigation() domain.NavigationRepository { return (*navigationRepo)(s) }

var _ domain.CatalogStore = (*Store)(nil)

// snapshot returns a detached copy of p with category name and tags resolved.
// Caller must hold at least a read lock.
func (s *Store) snapshot(p *domain.Product) *domain.Product {
	out := *p
	out.CategoryName = ""
	if c := s.categoryByID(p.CategoryID); c != nil {
		out.CategoryName = c.Name
	}

	out.Tags = []domain.Tag{}
	for _, tagID := range s.productTag[p.ID] {
		for _, t := range s.tags {
			if t.ID == tagID {
				out.Tags = append(out.Tags, t)
			}
		}
	}

	return &out
}

func (s *Store) productIndex(id int64) int {
	return slices.IndexFunc(s.products, func(p *domain.Product) bool { return p.ID == id })
}

func (s *Store) categoryByID(id int64) *domain.Category {
	i := slices.IndexFunc(s.categories, func(c *domain.Category) bool { return c.ID == id })
	if i < 0 {
		return nil
	}

	return s.categories[i]
}

// --- products ---

type productRepo Store

func (r *productRepo) store() *Store { return (*Store)(r) }

func (r *productRepo) List(_ context.Context) ([]*domain.Product, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, s.snapshot(p))
	}

	return out, nil
}

func (r *productRepo) Find(_ context.Context, filter domain.ProductFilter, page domain.PageRequest, sort domain.Sort) ([]*domain.Product, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.Product, 0)
	for _, p := range s.products {
		if filter.Matches(p) {
			matched = append(matched, p)
		}
	}

	if !sort.IsUnsorted() {
		slices.SortStableFunc(matched, func(a, b *domain.Product) int {
			c := compareBy(sort.Field, a, b)
			if sort.Desc() {
				return -c
			}

			return c
		})
	}

	page.Normalize()
	start := min(page.Offset(), len(matched))
	end := min(start+page.Limit(), len(matched))

	out := make([]*domain.Product, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, s.snapshot(p))
	}

	return out, nil
}

func (r *productRepo) Count(_ context.Context, filter domain.ProductFilter) (int64, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.products {
		if filter.Matches(p) {
			n++
		}
	}

	return n, nil
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.productIndex(id)
	if i < 0 {
		return nil, nil
	}

	return s.snapshot(s.products[i]), nil
}

func (r *productRepo) Create(_ context.Context, product *domain.Product) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	now := s.now()

	stored := *product
	stored.ID = s.nextProductID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Tags = nil
	s.products = append(s.products, &stored)

	product.ID = stored.ID
	product.CreatedAt = now
	product.UpdatedAt = now
	if c := s.categoryByID(product.CategoryID); c != nil {
		product.CategoryName = c.Name
	}

	return nil
}

func (r *productRepo) Update(_ context.Context, product *domain.Product) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(product.ID)
	if i < 0 {
		return domain.ErrProductNotFound
	}

	stored := s.products[i]
	stored.Name = product.Name
	stored.Description = product.Description
	stored.ImageURL = product.ImageURL
	stored.Price = product.Price
	stored.Stock = product.Stock
	stored.Available = product.Available
	stored.CategoryID = product.CategoryID
	stored.UpdatedAt = s.now()

	*product = *s.snapshot(stored)

	return nil
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}

	s.products = slices.Delete(s.products, i, i+1)
	delete(s.productTag, id)
	// Navigation events are append-only and outlive the product.

	return nil
}

func (r *productRepo) CountAvailableByCategory(_ context.Context, minimum int64) ([]domain.CategoryCount, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int64]int64)
	var order []int64
	for _, p := range s.products {
		if !p.Available {
			continue
		}
		if _, seen := counts[p.CategoryID]; !seen {
			order = append(order, p.CategoryID)
		}
		counts[p.CategoryID]++
	}

	out := make([]domain.CategoryCount, 0, len(order))
	for _, id := range order {
		if counts[id] >= minimum {
			out = append(out, domain.CategoryCount{CategoryID: id, Total: counts[id]})
		}
	}

	return out, nil
}

func (r *productRepo) LatestAvailableByCategory(_ context.Context, categoryID int64, limit int) ([]*domain.Product, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, 0, limit)
	for i := len(s.products) - 1; i >= 0 && len(out) < limit; i-- {
		p := s.products[i]
		if p.Available && p.CategoryID == categoryID {
			out = append(out, s.snapshot(p))
		}
	}

	return out, nil
}

func (r *productRepo) ListUntagged(_ context.Context, limit int) ([]*domain.Product, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, 0, limit)
	for _, p := range s.products {
		if len(out) >= limit {
			break
		}
		if len(s.productTag[p.ID]) == 0 {
			out = append(out, s.snapshot(p))
		}
	}

	return out, nil
}

// compareBy orders two products on a resolved sort field, breaking ties by id.
func compareBy(field domain.SortField, a, b *domain.Product) int {
	var c int
	switch field {
	case domain.SortFieldName:
		c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case domain.SortFieldDescription:
		c = cmp.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	case domain.SortFieldPrice:
		c = cmp.Compare(a.Price, b.Price)
	case domain.SortFieldStock:
		c = cmp.Compare(a.Stock, b.Stock)
	case domain.SortFieldViewCount:
		c = cmp.Compare(a.ViewCount, b.ViewCount)
	case domain.SortFieldAvailable:
		c = compareBool(a.Available, b.Available)
	case domain.SortFieldCategoryID:
		c = cmp.Compare(a.CategoryID, b.CategoryID)
	case domain.SortFieldCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	case domain.SortFieldUpdatedAt:
		c = a.UpdatedAt.Compare(b.UpdatedAt)
	}
	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}

	return c
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// --- categories ---

type categoryRepo Store

func (r *categoryRepo) store() *Store { return (*Store)(r) }

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.categoryByID(id)
	if c == nil {
		return nil, nil
	}
	out := *c

	return &out, nil
}

func (r *categoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		out = append(out, &cp)
	}

	return out, nil
}

func (r *categoryRepo) Create(_ context.Context, category *domain.Category) error {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ParentID != nil && s.categoryByID(*category.ParentID) == nil {
		return domain.ErrCategoryNotFound
	}

	s.nextCategoryID++
	category.ID = s.nextCategoryID
	stored := *category
	s.categories = append(s.categories, &stored)

	return nil
}

// --- tags ---

type tagRepo Store

func (r *tagRepo) store() *Store { return (*Store)(r) }

func (r *tagRepo) AttachTags(_ context.Context, productID int64, names []string, kind string) ([]domain.Tag, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(productID)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}

	for _, name := range domain.NormalizeTagNames(names) {
		tagID := int64(0)
		for _, t := range s.tags {
			if t.Name == name {
				tagID = t.ID
				break
			}
		}
		if tagID == 0 {
			s.nextTagID++
			tagID = s.nextTagID
			s.tags = append(s.tags, domain.Tag{ID: tagID, Name: name, Kind: kind})
		}
		if !slices.Contains(s.productTag[productID], tagID) {
			s.productTag[productID] = append(s.productTag[productID], tagID)
		}
	}

	return s.snapshot(s.products[i]).Tags, nil
}

// --- navigation ---

type navigationRepo Store

func (r *navigationRepo) store() *Store { return (*Store)(r) }

func (r *navigationRepo) RecordView(_ context.Context, productID, userID int64) (*domain.Product, error) {
	s := r.store()
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(productID)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}

	now := s.now()
	p := s.products[i]
	p.ViewCount++
	p.UpdatedAt = now

	s.events = append(s.events, &domain.NavigationEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		ViewedAt:  now,
	})

	return s.snapshot(p), nil
}

func (r *navigationRepo) LatestByUser(_ context.Context, userID int64) (*domain.NavigationEvent, error) {
	s := r.store()
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Events are appended in time order, so the last match is the latest.
	for i := len(s.events) - 1; i >= 0; i-- {
		if e := s.events[i]; e.UserID == userID {
			out := *e
			return &out, nil
		}
	}

	return nil, nil
}
