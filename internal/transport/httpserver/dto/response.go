package dto

import (
	"time"

	"catalog-service/internal/app/service"
	"catalog-service/internal/domain"
)

// TagResponse represents a product tag.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

// FromDomainTags converts tags to their response form. Never returns nil.
func FromDomainTags(tags []domain.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponse{ID: t.ID, Name: t.Name, Kind: t.Kind}
	}

	return out
}

// ProductResponse represents a single product in the response.
type ProductResponse struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	ImageURL     string        `json:"image_url,omitempty"`
	Price        float64       `json:"price"`
	Stock        int           `json:"stock"`
	ViewCount    int64         `json:"view_count"`
	Available    bool          `json:"available"`
	CategoryID   int64         `json:"category_id"`
	CategoryName string        `json:"category_name,omitempty"`
	Tags         []TagResponse `json:"tags"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FromDomainProduct converts domain.Product to ProductResponse.
func FromDomainProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Price:        p.Price,
		Stock:        p.Stock,
		ViewCount:    p.ViewCount,
		Available:    p.Available,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Tags:         FromDomainTags(p.Tags),
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainProducts converts a product slice. Never returns nil.
func FromDomainProducts(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = FromDomainProduct(p)
	}

	return out
}

// PageResponse represents one page of products.
type PageResponse struct {
	Content       []ProductResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
}

// FromProductPage converts domain.ProductPage to PageResponse.
func FromProductPage(page *domain.ProductPage) PageResponse {
	return PageResponse{
		Content:       FromDomainProducts(page.Items),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.Page == 0,
		Last:          page.Page >= page.TotalPages-1,
	}
}

// CategoryResponse represents a category without its children.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

// FromDomainCategory converts domain.Category to CategoryResponse.
func FromDomainCategory(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
	}
}

// CategoryNodeResponse represents a category and its subtree.
type CategoryNodeResponse struct {
	CategoryResponse
	Children []CategoryNodeResponse `json:"children"`
}

// FromCategoryTree converts the category forest recursively.
func FromCategoryTree(nodes []*domain.CategoryNode) []CategoryNodeResponse {
	out := make([]CategoryNodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = CategoryNodeResponse{
			CategoryResponse: FromDomainCategory(&n.Category),
			Children:         FromCategoryTree(n.Children),
		}
	}

	return out
}

// CarouselResponse represents one storefront carousel.
type CarouselResponse struct {
	Category CategoryResponse  `json:"category"`
	Products []ProductResponse `json:"products"`
}

// FromCarousels converts the carousel selection.
func FromCarousels(carousels []domain.Carousel) []CarouselResponse {
	out := make([]CarouselResponse, len(carousels))
	for i, c := range carousels {
		out[i] = CarouselResponse{
			Category: FromDomainCategory(c.Category),
			Products: FromDomainProducts(c.Products),
		}
	}

	return out
}

// ProductDetailResponse is a viewed product with its similar-items page.
type ProductDetailResponse struct {
	Product         ProductResponse `json:"product"`
	Recommendations PageResponse    `json:"recommendations"`
}

// FromProductDetail converts domain.ProductDetail to ProductDetailResponse.
func FromProductDetail(d *domain.ProductDetail) ProductDetailResponse {
	return ProductDetailResponse{
		Product:         FromDomainProduct(d.Product),
		Recommendations: FromProductPage(d.Recommendations),
	}
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresAt string `json:"expires_at"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// TagsResponse lists the tags attached to a product after tagging.
type TagsResponse struct {
	ProductID int64         `json:"product_id"`
	Tags      []TagResponse `json:"tags"`
}

// TaggingRunResponse summarises a batch auto-tagging run.
type TaggingRunResponse struct {
	Processed int    `json:"processed"`
	Tagged    int    `json:"tagged"`
	Failed    int    `json:"failed"`
	Duration  string `json:"duration"`
}

// FromTaggingResult converts service.TaggingResult to TaggingRunResponse.
func FromTaggingResult(r service.TaggingResult) TaggingRunResponse {
	return TaggingRunResponse{
		Processed: r.Processed,
		Tagged:    r.Tagged,
		Failed:    r.Failed,
		Duration:  r.Duration.String(),
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
