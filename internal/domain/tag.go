package domain

import (
	"strings"
	"time"
)

// TagKindAI marks tags produced by the keyphrase extraction service.
const TagKindAI = "ai"

// Tag is a free-form label attached to products. Names are unique.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// NavigationEvent records a single product view by a user. Append-only.
type NavigationEvent struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// NormalizeTagNames trims and lower-cases names, dropping empties and duplicates
// while keeping first-seen order.
func NormalizeTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}

	return out
}
