package domain

import "strings"

// ProductFilter is the conjunction of optional product criteria.
//
// A nil field imposes no constraint; the zero value matches every product.
// The same filter drives both the page query and the total count query, so
// the two can never disagree about what matches.
//
//	Name       case-insensitive substring of the product name (blank = absent)
//	CategoryID exact category match
//	PriceMin   price >= PriceMin (inclusive)
//	PriceMax   price <= PriceMax (inclusive)
//	Available  availability flag equals the value
//	ExcludeID  product id differs from the value
type ProductFilter struct {
	Name       *string
	CategoryID *int64
	PriceMin   *float64
	PriceMax   *float64
	Available  *bool
	ExcludeID  *int64
}

// NameContains returns the trimmed name criterion and whether it is set.
func (f ProductFilter) NameContains() (string, bool) {
	if f.Name == nil {
		return "", false
	}
	name := strings.TrimSpace(*f.Name)

	return name, name != ""
}

// IsEmpty reports whether no criterion is set.
func (f ProductFilter) IsEmpty() bool {
	_, hasName := f.NameContains()

	return !hasName && f.CategoryID == nil && f.PriceMin == nil &&
		f.PriceMax == nil && f.Available == nil && f.ExcludeID == nil
}

// Matches evaluates the filter against a single product.
func (f ProductFilter) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	if name, ok := f.NameContains(); ok {
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			return false
		}
	}
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	if f.ExcludeID != nil && p.ID == *f.ExcludeID {
		return false
	}

	return true
}

// CategoryFilter matches every product in the given category.
func CategoryFilter(categoryID int64) ProductFilter {
	return ProductFilter{CategoryID: &categoryID}
}

// SimilarTo builds the similar-items predicate for a base product: name contains the
// base keyword, same category, price within the band, available, and not the base itself.
func SimilarTo(base *Product) ProductFilter {
	keyword := base.Keyword()
	categoryID := base.CategoryID
	lower, upper := base.PriceBand()
	available := true
	excludeID := base.ID

	return ProductFilter{
		Name:       &keyword,
		CategoryID: &categoryID,
		PriceMin:   &lower,
		PriceMax:   &upper,
		Available:  &available,
		ExcludeID:  &excludeID,
	}
}
