package domain

import "errors"

// Business errors surfaced to callers. Wrap them with fmt.Errorf("...: %w", err)
// and test with errors.Is.
var (
	// ErrProductNotFound is returned when a referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoryNotFound is returned when a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrNoHistory is returned when a user has no navigation events yet.
	ErrNoHistory = errors.New("user has no browsing history")

	// ErrInsufficientSupply is returned when too few categories qualify for carousels.
	ErrInsufficientSupply = errors.New("not enough categories with available products")

	// ErrTaggerUnavailable is returned when the keyphrase extraction service fails.
	ErrTaggerUnavailable = errors.New("keyphrase extraction failed")
)

// IsNotFound reports whether err is any of the not-found class errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrNoHistory)
}
