package domain

import "testing"

func TestBuildCategoryTree(t *testing.T) {
	one, two := int64(1), int64(2)
	categories := []*Category{
		{ID: 3, Name: "Laptops", ParentID: &one},
		{ID: 1, Name: "Electronics"},
		{ID: 4, Name: "Gaming Laptops", ParentID: &two},
		{ID: 2, Name: "Computers", ParentID: &one},
		{ID: 5, Name: "Books"},
	}

	roots := BuildCategoryTree(categories)

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != 1 || roots[1].ID != 5 {
		t.Errorf("expected roots ordered [1 5], got [%d %d]", roots[0].ID, roots[1].ID)
	}

	electronics := roots[0]
	if len(electronics.Children) != 2 {
		t.Fatalf("expected 2 children of Electronics, got %d", len(electronics.Children))
	}
	if electronics.Children[0].ID != 2 || electronics.Children[1].ID != 3 {
		t.Errorf("expected children ordered [2 3], got [%d %d]", electronics.Children[0].ID, electronics.Children[1].ID)
	}
	if len(electronics.Children[0].Children) != 1 || electronics.Children[0].Children[0].ID != 4 {
		t.Error("expected Gaming Laptops under Computers")
	}
	if roots[1].Children == nil {
		t.Error("expected leaf children to be an empty slice, not nil")
	}
}

func TestBuildCategoryTree_CycleDoesNotLoop(t *testing.T) {
	one, two := int64(1), int64(2)
	// 1 and 2 point at each other: neither is a root, so both are dropped.
	categories := []*Category{
		{ID: 1, Name: "A", ParentID: &two},
		{ID: 2, Name: "B", ParentID: &one},
		{ID: 3, Name: "Root"},
	}

	roots := BuildCategoryTree(categories)

	if len(roots) != 1 || roots[0].ID != 3 {
		t.Fatalf("expected only the real root, got %d roots", len(roots))
	}
}
