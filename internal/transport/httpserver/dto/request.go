// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"catalog-service/internal/domain"
)

// Default page sizes per endpoint family.
const (
	DefaultListPageSize   = 10
	DefaultSearchPageSize = 5
	DefaultSortField      = "name"
	DefaultDirection      = "asc"
)

// PageQuery holds pagination and ordering query parameters. Unknown sort fields and
// directions are accepted here and resolved leniently by the search service.
type PageQuery struct {
	Page      int    `query:"page" validate:"min=0"`
	Size      int    `query:"size" validate:"min=1,max=100"`
	SortBy    string `query:"sort_by" validate:"max=64"`
	Direction string `query:"direction" validate:"max=16"`
}

// NewPageQuery returns a PageQuery pre-filled with defaults; QueryParser only
// overwrites the parameters present in the request.
func NewPageQuery(size int) PageQuery {
	return PageQuery{
		Page:      0,
		Size:      size,
		SortBy:    DefaultSortField,
		Direction: DefaultDirection,
	}
}

// PageRequest converts the query to a domain.PageRequest.
func (q PageQuery) PageRequest() domain.PageRequest {
	return domain.NewPageRequest(q.Page, q.Size)
}

// SearchQuery holds the optional filter criteria for GET /products/search.
// A nil pointer means the criterion was not supplied.
type SearchQuery struct {
	Page      int    `query:"page" validate:"min=0"`
	Size      int    `query:"size" validate:"min=1,max=100"`
	SortBy    string `query:"sort_by" validate:"max=64"`
	Direction string `query:"direction" validate:"max=16"`

	Name       *string  `query:"name" validate:"omitempty,max=200"`
	CategoryID *int64   `query:"category_id" validate:"omitempty,gt=0"`
	PriceMin   *float64 `query:"price_min" validate:"omitempty,gte=0"`
	PriceMax   *float64 `query:"price_max" validate:"omitempty,gte=0"`
	Available  *bool    `query:"available"`
}

// NewSearchQuery returns a SearchQuery pre-filled with defaults.
func NewSearchQuery() SearchQuery {
	return SearchQuery{
		Size:      DefaultSearchPageSize,
		SortBy:    DefaultSortField,
		Direction: DefaultDirection,
	}
}

// PageRequest converts the paging parameters to a domain.PageRequest.
func (q SearchQuery) PageRequest() domain.PageRequest {
	return domain.NewPageRequest(q.Page, q.Size)
}

// Filter converts the supplied criteria to a domain.ProductFilter.
func (q SearchQuery) Filter() domain.ProductFilter {
	return domain.ProductFilter{
		Name:       q.Name,
		CategoryID: q.CategoryID,
		PriceMin:   q.PriceMin,
		PriceMax:   q.PriceMax,
		Available:  q.Available,
	}
}

// RecommendationsQuery holds the parameters for GET /products/recommendations.
type RecommendationsQuery struct {
	Page   int   `query:"page" validate:"min=0"`
	Size   int   `query:"size" validate:"min=1,max=100"`
	UserID int64 `query:"user_id" validate:"required,gt=0"`
}

// NewRecommendationsQuery returns a RecommendationsQuery pre-filled with defaults.
func NewRecommendationsQuery() RecommendationsQuery {
	return RecommendationsQuery{Size: DefaultSearchPageSize}
}

// PageRequest converts the paging parameters to a domain.PageRequest.
func (q RecommendationsQuery) PageRequest() domain.PageRequest {
	return domain.NewPageRequest(q.Page, q.Size)
}

// TokenQuery holds the parameters for GET /api/public/auth/token.
type TokenQuery struct {
	UserID int64 `query:"user_id" validate:"required,gt=0"`
}

// ProductRequest is the body for creating or replacing a product. Availability and
// view count are derived and cannot be set.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url,max=500"`
	Price       float64 `json:"price" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

// ToInput converts the request to a domain.ProductInput.
func (r ProductRequest) ToInput() domain.ProductInput {
	return domain.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
	}
}

// CategoryRequest is the body for creating a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	ParentID    *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

// ToInput converts the request to a domain.CategoryInput.
func (r CategoryRequest) ToInput() domain.CategoryInput {
	return domain.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		ParentID:    r.ParentID,
	}
}

// TaggingRunRequest is the optional body for a manual auto-tagging run.
type TaggingRunRequest struct {
	BatchSize int `json:"batch_size" validate:"omitempty,min=1,max=500"`
}
