package domain

import "strings"

// SortOrder represents the sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortField is a resolved, storage-level column name.
type SortField string

const (
	SortFieldID          SortField = "id"
	SortFieldName        SortField = "name"
	SortFieldDescription SortField = "description"
	SortFieldPrice       SortField = "price"
	SortFieldStock       SortField = "stock"
	SortFieldViewCount   SortField = "view_count"
	SortFieldAvailable   SortField = "available"
	SortFieldCategoryID  SortField = "category_id"
	SortFieldCreatedAt   SortField = "created_at"
	SortFieldUpdatedAt   SortField = "updated_at"
)

// SortFields is an allow-list of sortable fields.
type SortFields []SortField

// FilterSortFields are accepted by the filtered search path.
var FilterSortFields = SortFields{SortFieldName, SortFieldPrice}

// ProductSortFields are accepted by the plain paged listing: every product column.
var ProductSortFields = SortFields{
	SortFieldID, SortFieldName, SortFieldDescription, SortFieldPrice, SortFieldStock,
	SortFieldViewCount, SortFieldAvailable, SortFieldCategoryID, SortFieldCreatedAt, SortFieldUpdatedAt,
}

// lookup matches a requested field against the allow-list, accepting any case and
// either snake_case or camelCase spelling.
func (s SortFields) lookup(requested string) (SortField, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(requested), "_", ""))
	if key == "" {
		return "", false
	}
	for _, f := range s {
		if strings.ReplaceAll(string(f), "_", "") == key {
			return f, true
		}
	}

	return "", false
}

// Sort is an ordering directive. The zero value means unsorted (storage order).
type Sort struct {
	Field SortField
	Order SortOrder
}

// Unsorted leaves results in storage order.
var Unsorted = Sort{}

// IsUnsorted reports whether no ordering should be applied.
func (s Sort) IsUnsorted() bool {
	return s.Field == ""
}

// Desc reports whether the ordering is descending.
func (s Sort) Desc() bool {
	return s.Order == SortOrderDesc
}

// SortByNameAsc is the fixed ordering of category listings and recommendations.
var SortByNameAsc = Sort{Field: SortFieldName, Order: SortOrderAsc}

// ParseSortOrder reads a direction case-insensitively; anything but "desc" is ascending.
func ParseSortOrder(direction string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(direction), string(SortOrderDesc)) {
		return SortOrderDesc
	}

	return SortOrderAsc
}

// ResolveSort validates a requested field and direction against the allow-list.
// An unresolvable field never fails: it yields Unsorted and false so the caller can
// log it and carry on without ordering.
func ResolveSort(allowed SortFields, field, direction string) (Sort, bool) {
	f, ok := allowed.lookup(field)
	if !ok {
		return Unsorted, false
	}

	return Sort{Field: f, Order: ParseSortOrder(direction)}, true
}
