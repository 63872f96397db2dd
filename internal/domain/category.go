package domain

import "sort"

// Category is a node of the category tree. Relations are held as ids only;
// use BuildCategoryTree to materialise parent/children links.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

// CategoryInput carries the caller-writable fields of a category.
type CategoryInput struct {
	Name        string
	Description string
	ParentID    *int64
}

// CategoryNode is a category together with its children, ordered by id.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// CategoryCount is the number of available products in a category.
type CategoryCount struct {
	CategoryID int64
	Total      int64
}

// BuildCategoryTree arranges a flat category list into root trees.
// Each category is placed at most once, so a corrupted parent chain cannot cause
// infinite recursion; categories unreachable from a root are dropped.
func BuildCategoryTree(categories []*Category) []*CategoryNode {
	children := make(map[int64][]*Category)
	var roots []*Category

	for _, c := range categories {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	byID := func(list []*Category) {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	byID(roots)

	visited := make(map[int64]bool, len(categories))

	var build func(c *Category) *CategoryNode
	build = func(c *Category) *CategoryNode {
		visited[c.ID] = true
		node := &CategoryNode{Category: *c, Children: []*CategoryNode{}}

		kids := children[c.ID]
		byID(kids)
		for _, k := range kids {
			if visited[k.ID] {
				continue
			}
			node.Children = append(node.Children, build(k))
		}

		return node
	}

	nodes := make([]*CategoryNode, 0, len(roots))
	for _, r := range roots {
		nodes = append(nodes, build(r))
	}

	return nodes
}
