package domain

// Page size bounds shared by every paginated entry point.
const (
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 10
)

// PageRequest selects a zero-indexed page of a result set.
type PageRequest struct {
	Page int // Page index (0-indexed)
	Size int // Items per page
}

// NewPageRequest returns a normalized page request.
func NewPageRequest(page, size int) PageRequest {
	p := PageRequest{Page: page, Size: size}
	p.Normalize()

	return p
}

// Normalize ensures the request is within acceptable bounds. This is bound correction, not validation.
func (p *PageRequest) Normalize() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size < MinPageSize {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

// Offset calculates the database offset for pagination.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Limit returns the page size (alias for clarity).
func (p PageRequest) Limit() int {
	return p.Size
}

// ProductPage holds one page of products together with totals for the whole match set.
type ProductPage struct {
	Items         []*Product `json:"items"`
	Page          int        `json:"page"`           // Current page (0-indexed)
	Size          int        `json:"size"`           // Items per page
	TotalElements int64      `json:"total_elements"` // Total matching records
	TotalPages    int        `json:"total_pages"`    // Total number of pages
}

// NewProductPage creates a ProductPage with calculated pagination.
// total must come from a count over the same filter, not from len(items).
func NewProductPage(items []*Product, total int64, req PageRequest) *ProductPage {
	if items == nil {
		items = []*Product{}
	}

	totalPages := int(total) / req.Size
	if int(total)%req.Size > 0 {
		totalPages++
	}

	return &ProductPage{
		Items:         items,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// Carousel is a featured category with its freshest available products.
type Carousel struct {
	Category *Category `json:"category"`
	Products []*Product `json:"products"`
}
