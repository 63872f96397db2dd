package domain

import (
	"testing"
)

func TestNewProduct(t *testing.T) {
	product := NewProduct("Laptop Pro", 7, 999.99, 3)

	if product.Name != "Laptop Pro" {
		t.Errorf("expected name 'Laptop Pro', got %q", product.Name)
	}
	if product.CategoryID != 7 {
		t.Errorf("expected category 7, got %d", product.CategoryID)
	}
	if !product.Available {
		t.Error("expected product with stock to be available")
	}
	if product.ViewCount != 0 {
		t.Errorf("expected zero view count, got %d", product.ViewCount)
	}
	if product.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestProduct_RecomputeAvailability(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		expected bool
	}{
		{"in stock", 5, true},
		{"single unit", 1, true},
		{"out of stock", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Stock: tt.stock, Available: !tt.expected}
			p.RecomputeAvailability()
			if p.Available != tt.expected {
				t.Errorf("Available = %v, want %v", p.Available, tt.expected)
			}
		})
	}
}

func TestProductInput_Apply_IgnoresCallerAvailability(t *testing.T) {
	p := &Product{ID: 1, ViewCount: 42, Available: true, Stock: 10}

	ProductInput{Name: "Mouse", Price: 20, Stock: 0, CategoryID: 2}.Apply(p)

	if p.Available {
		t.Error("expected product without stock to become unavailable")
	}
	if p.ViewCount != 42 {
		t.Errorf("expected view count to be untouched, got %d", p.ViewCount)
	}
	if p.CategoryID != 2 {
		t.Errorf("expected category 2, got %d", p.CategoryID)
	}
}

func TestProduct_Keyword(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"multi word", "Laptop Pro 14", "Laptop"},
		{"single word", "Keyboard", "Keyboard"},
		{"leading spaces", "   Gaming  Mouse", "Gaming"},
		{"tab separated", "Smart\tWatch", "Smart"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Name: tt.input}
			if got := p.Keyword(); got != tt.expected {
				t.Errorf("Keyword() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProduct_PriceBand(t *testing.T) {
	tests := []struct {
		price     float64
		wantLower float64
		wantUpper float64
	}{
		{100.00, 80.00, 120.00},
		{19.99, 16.00, 23.98},
		{0.05, 0.04, 0.06},
		{10.03, 8.03, 12.03},
	}

	for _, tt := range tests {
		p := &Product{Price: tt.price}
		lower, upper := p.PriceBand()
		if lower != tt.wantLower || upper != tt.wantUpper {
			t.Errorf("PriceBand(%v) = [%v, %v], want [%v, %v]", tt.price, lower, upper, tt.wantLower, tt.wantUpper)
		}
	}
}

func TestProduct_HasTag(t *testing.T) {
	p := &Product{Tags: []Tag{{Name: "wireless"}}}

	if !p.HasTag("Wireless") {
		t.Error("expected case-insensitive tag match")
	}
	if p.HasTag("wired") {
		t.Error("expected no match for unknown tag")
	}
}

func TestNormalizeTagNames(t *testing.T) {
	got := NormalizeTagNames([]string{" Wireless ", "wireless", "", "Mouse", "  "})
	want := []string{"wireless", "mouse"}

	if len(got) != len(want) {
		t.Fatalf("NormalizeTagNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeTagNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
