package memory

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"

	"catalog-service/internal/domain"
)

//go:embed seed.json
var seedData []byte

type seedCategory struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Products    []seedProduct  `json:"products"`
	Children    []seedCategory `json:"children"`
}

type seedProduct struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// Seed loads the demo catalog into store unless it already holds products.
// It reports whether anything was written.
func Seed(ctx context.Context, store domain.CatalogStore) (bool, error) {
	existing, err := store.Products().List(ctx)
	if err != nil {
		return false, fmt.Errorf("checking existing products: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	var doc struct {
		Categories []seedCategory `json:"categories"`
	}
	if err := json.Unmarshal(seedData, &doc); err != nil {
		return false, fmt.Errorf("decoding seed data: %w", err)
	}

	for _, c := range doc.Categories {
		if err := seedTree(ctx, store, c, nil); err != nil {
			return false, err
		}
	}

	return true, nil
}

func seedTree(ctx context.Context, store domain.CatalogStore, c seedCategory, parentID *int64) error {
	category := &domain.Category{Name: c.Name, Description: c.Description, ParentID: parentID}
	if err := store.Categories().Create(ctx, category); err != nil {
		return fmt.Errorf("creating category %q: %w", c.Name, err)
	}

	for _, sp := range c.Products {
		p := domain.NewProduct(sp.Name, category.ID, sp.Price, sp.Stock)
		p.Description = sp.Description
		p.ImageURL = sp.ImageURL
		if err := store.Products().Create(ctx, p); err != nil {
			return fmt.Errorf("creating product %q: %w", sp.Name, err)
		}
	}

	for _, child := range c.Children {
		if err := seedTree(ctx, store, child, &category.ID); err != nil {
			return err
		}
	}

	return nil
}
