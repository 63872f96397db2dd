// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"math"
	"strings"
	"time"
)

// Price band multipliers used by similar-item recommendations, in tenths (0.8 and 1.2).
const (
	priceBandLowerTenths = 8
	priceBandUpperTenths = 12
)

// Product represents a priced, stocked item that belongs to exactly one category.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`

	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	ViewCount int64   `json:"view_count"`
	Available bool    `json:"available"` // Always Stock > 0, see RecomputeAvailability

	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Tags         []Tag  `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProduct creates a new Product with timestamps set and availability derived from stock.
func NewProduct(name string, categoryID int64, price float64, stock int) *Product {
	now := time.Now().UTC()
	p := &Product{
		Name:       name,
		CategoryID: categoryID,
		Price:      price,
		Stock:      stock,
		Tags:       []Tag{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.RecomputeAvailability()

	return p
}

// RecomputeAvailability sets Available from Stock. Must be called on every create and update.
func (p *Product) RecomputeAvailability() {
	p.Available = p.Stock > 0
}

// Keyword returns the first whitespace-delimited token of the product name.
// Returns "" for a blank name.
func (p *Product) Keyword() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// PriceBand returns the cent-valued bounds of [0.8×price, 1.2×price]: the lower edge
// rounds up and the upper edge rounds down, so a cent price lies inside the returned
// range exactly when it lies inside the exact band.
func (p *Product) PriceBand() (lower, upper float64) {
	cents := toCents(p.Price)
	lowerCents := (cents*priceBandLowerTenths + 9) / 10 // ceil
	upperCents := cents * priceBandUpperTenths / 10     // floor

	return float64(lowerCents) / 100, float64(upperCents) / 100
}

// HasTag reports whether the product already carries a tag with the given name.
func (p *Product) HasTag(name string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}

	return false
}

// ProductInput carries the caller-writable fields of a product.
// View count and availability are deliberately absent.
type ProductInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       float64
	Stock       int
	CategoryID  int64
}

// Apply copies the input onto the product and recomputes availability.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.Price = in.Price
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID
	p.RecomputeAvailability()
}

// ProductDetail is the result of viewing a product: the updated product plus similar items.
type ProductDetail struct {
	Product         *Product     `json:"product"`
	Recommendations *ProductPage `json:"recommendations"`
}

// toCents converts a non-negative price to whole cents.
func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
