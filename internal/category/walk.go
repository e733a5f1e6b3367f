// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"earsip/internal/apperr"
	"earsip/internal/models"
)

// Entry is a node paired with its depth below the walk root.
type Entry struct {
	models.Category
	Depth int `json:"depth"`
}

// Walk yields the subtree below rootID depth-first: the children of rootID
// in sibling order, each immediately followed by its own subtree. A nil
// rootID walks the whole forest. The sequence is lazy and can be ranged
// over any number of times. Nodes reachable twice through corrupt data
// are yielded once.
func Walk(cats []models.Category, rootID *string) iter.Seq2[models.Category, int] {
	return func(yield func(models.Category, int) bool) {
		children := childIndex(cats)
		visited := make(map[string]bool, len(cats))

		var walk func(parent string, depth int) bool
		walk = func(parent string, depth int) bool {
			for _, i := range children[parent] {
				c := cats[i]
				if visited[c.ID] {
					continue
				}
				visited[c.ID] = true
				if !yield(cloneOne(c), depth) {
					return false
				}
				if !walk(c.ID, depth+1) {
					return false
				}
			}
			return true
		}

		root := ""
		if rootID != nil {
			root = *rootID
			visited[root] = true
		}
		walk(root, 0)
	}
}

// Collect materialises Walk into a slice.
func Collect(cats []models.Category, rootID *string) []Entry {
	var out []Entry
	for c, depth := range Walk(cats, rootID) {
		out = append(out, Entry{Category: c, Depth: depth})
	}
	return out
}

// Descendants returns the ids of every node below id in walk order,
// excluding id itself.
func Descendants(cats []models.Category, id string) []string {
	children := childIndex(cats)
	visited := map[string]bool{id: true}
	var out []string

	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur != id {
			out = append(out, cur)
		}
		kids := children[cur]
		for k := len(kids) - 1; k >= 0; k-- {
			child := cats[kids[k]].ID
			if visited[child] {
				continue
			}
			visited[child] = true
			stack = append(stack, child)
		}
	}
	return out
}

// SubtreeNames returns the name of id followed by the names of all its
// descendants. Documents reference categories by name, so this is the set
// used to list a category together with its sub-categories.
func SubtreeNames(cats []models.Category, id string) []string {
	idx := indexOf(cats, id)
	if idx < 0 {
		return nil
	}
	names := []string{cats[idx].Name}
	for c := range Walk(cats, &id) {
		names = append(names, c.Name)
	}
	return names
}

// DocumentCounts maps each category name to the number of documents
// filed under it.
func DocumentCounts(docs []models.ArchiveDocument) map[string]int {
	counts := make(map[string]int)
	for _, d := range docs {
		counts[d.Category]++
	}
	return counts
}

// Validate checks every structural invariant of a snapshot: unique non-empty
// ids, non-empty names, existing parents, no cycles and unique orders within
// each sibling group. It is used on data that did not come through the
// operations in this package, such as restored backups.
func Validate(cats []models.Category) error {
	ids := make(map[string]int, len(cats))
	for i, c := range cats {
		if c.ID == "" {
			return apperr.Validation("id", fmt.Sprintf("category at position %d has no id", i))
		}
		if _, dup := ids[c.ID]; dup {
			return apperr.Validation("id", "duplicate category id "+c.ID)
		}
		ids[c.ID] = i
		if strings.TrimSpace(c.Name) == "" {
			return apperr.Validation("name", "category "+c.ID+" has an empty name")
		}
	}

	orders := make(map[string]map[int]bool)
	for _, c := range cats {
		if c.ParentID != nil {
			if _, ok := ids[*c.ParentID]; !ok {
				return apperr.NotFound("category", *c.ParentID)
			}
		}
		group := orders[c.ParentKey()]
		if group == nil {
			group = make(map[int]bool)
			orders[c.ParentKey()] = group
		}
		if group[c.Order] {
			return apperr.Validation("order", fmt.Sprintf("duplicate order %d under %q", c.Order, c.ParentKey()))
		}
		group[c.Order] = true
	}

	// Follow each parent chain; a chain longer than the node count loops.
	for _, c := range cats {
		cur := c
		for steps := 0; cur.ParentID != nil; steps++ {
			if steps > len(cats) || *cur.ParentID == c.ID {
				return &apperr.CycleError{ID: c.ID, ParentID: *cur.ParentID}
			}
			cur = cats[ids[*cur.ParentID]]
		}
	}
	return nil
}

// childIndex maps each parent id ("" for roots) to the slice positions of
// its children, sorted by order with slice position breaking ties.
func childIndex(cats []models.Category) map[string][]int {
	children := make(map[string][]int)
	for i, c := range cats {
		children[c.ParentKey()] = append(children[c.ParentKey()], i)
	}
	for _, idxs := range children {
		sort.SliceStable(idxs, func(a, b int) bool {
			return cats[idxs[a]].Order < cats[idxs[b]].Order
		})
	}
	return children
}
