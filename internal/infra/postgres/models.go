package postgres

import (
	"time"

	"catalog-service/internal/domain"
)

// CategoryModel is the GORM model for the categories table.
type CategoryModel struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	ParentID    *int64 `gorm:"index"`
}

// TableName returns the table name for CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts CategoryModel to domain.Category.
func (m *CategoryModel) ToDomain() *domain.Category {
	return &domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		ParentID:    m.ParentID,
	}
}

// ProductModel is the GORM model for the products table.
type ProductModel struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"type:varchar(1024)"`

	Price     float64 `gorm:"type:decimal(10,2);not null"`
	Stock     int     `gorm:"not null"`
	ViewCount int64   `gorm:"not null;default:0"`
	Available bool    `gorm:"not null"`

	CategoryID int64          `gorm:"not null;index"`
	Category   *CategoryModel `gorm:"foreignKey:CategoryID"`
	Tags       []TagModel     `gorm:"many2many:product_tags;joinForeignKey:ProductID;joinReferences:TagID"`

	// Timestamps
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ProductModel.
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts ProductModel to domain.Product.
func (m *ProductModel) ToDomain() *domain.Product {
	p := &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		Price:       m.Price,
		Stock:       m.Stock,
		ViewCount:   m.ViewCount,
		Available:   m.Available,
		CategoryID:  m.CategoryID,
		Tags:        make([]domain.Tag, len(m.Tags)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Category != nil {
		p.CategoryName = m.Category.Name
	}
	for i, t := range m.Tags {
		p.Tags[i] = t.ToDomain()
	}

	return p
}

// productFromDomain creates a ProductModel from domain.Product. Associations are not set.
func productFromDomain(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		Stock:       p.Stock,
		ViewCount:   p.ViewCount,
		Available:   p.Available,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// TagModel is the GORM model for the tags table.
type TagModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Kind string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for TagModel.
func (TagModel) TableName() string {
	return "tags"
}

// ToDomain converts TagModel to domain.Tag.
func (m TagModel) ToDomain() domain.Tag {
	return domain.Tag{ID: m.ID, Name: m.Name, Kind: m.Kind}
}

// ProductTagModel is the product_tags join row.
type ProductTagModel struct {
	ProductID int64 `gorm:"primaryKey"`
	TagID     int64 `gorm:"primaryKey"`
}

// TableName returns the table name for ProductTagModel.
func (ProductTagModel) TableName() string {
	return "product_tags"
}

// NavigationEventModel is the GORM model for the navigation_events table.
type NavigationEventModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    int64     `gorm:"not null;index"`
	ProductID int64     `gorm:"not null;index"`
	ViewedAt  time.Time `gorm:"not null"`
	// Seq is assigned by the database on insert.
	Seq int64 `gorm:"->"`
}

// TableName returns the table name for NavigationEventModel.
func (NavigationEventModel) TableName() string {
	return "navigation_events"
}

// ToDomain converts NavigationEventModel to domain.NavigationEvent.
func (m *NavigationEventModel) ToDomain() *domain.NavigationEvent {
	return &domain.NavigationEvent{
		ID:        m.ID,
		UserID:    m.UserID,
		ProductID: m.ProductID,
		ViewedAt:  m.ViewedAt,
	}
}
