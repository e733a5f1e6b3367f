// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package state

import (
	"context"
	"strings"

	"earsip/internal/apperr"
	"earsip/internal/category"
	"earsip/internal/models"
)

// TreeNode is one row of the rendered category tree.
type TreeNode struct {
	category.Entry
	Documents   int  `json:"documents"`
	CanMoveUp   bool `json:"canMoveUp"`
	CanMoveDown bool `json:"canMoveDown"`
}

// Categories returns a copy of the category snapshot.
func (a *App) Categories() []models.Category {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.Category(nil), a.snap.categories...)
}

// CategoryTree walks the tree below rootID (nil for the whole forest) and
// annotates each node with its document count and move availability.
func (a *App) CategoryTree(rootID *string) []TreeNode {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := category.DocumentCounts(a.snap.archives)
	var out []TreeNode
	for c, depth := range category.Walk(a.snap.categories, rootID) {
		pos, n, _ := category.Position(a.snap.categories, c.ID)
		out = append(out, TreeNode{
			Entry:       category.Entry{Category: c, Depth: depth},
			Documents:   counts[c.Name],
			CanMoveUp:   pos > 0,
			CanMoveDown: pos < n-1,
		})
	}
	return out
}

// DocumentCounts maps category names to their document counts.
func (a *App) DocumentCounts() map[string]int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return category.DocumentCounts(a.snap.archives)
}

// AddCategory appends a new category under parentID. Names are unique
// across the tree because documents reference categories by name.
func (a *App) AddCategory(ctx context.Context, actor *Actor, name string, parentID *string) (models.Category, error) {
	var added models.Category
	err := a.update(ctx, func(t *tx) error {
		if err := checkNameFree(t.categories, name, ""); err != nil {
			return err
		}
		cats, node, err := category.Add(t.categories, "", name, parentID)
		if err != nil {
			return err
		}
		t.categories = cats
		t.touch(partCategories)
		t.log(actor, models.ActionCategoryAdd, "Tambah kategori: "+node.Name)
		added = node
		return nil
	})
	return added, err
}

// UpdateCategory renames and/or re-parents a category. Documents filed
// under the old name follow the rename.
func (a *App) UpdateCategory(ctx context.Context, actor *Actor, id, name string, parentID *string) (models.Category, error) {
	var updated models.Category
	err := a.update(ctx, func(t *tx) error {
		old, _ := category.Find(t.categories, id)
		if err := checkNameFree(t.categories, name, id); err != nil {
			return err
		}
		cats, err := category.Update(t.categories, id, name, parentID)
		if err != nil {
			return err
		}
		t.categories = cats
		t.touch(partCategories)
		updated, _ = category.Find(cats, id)

		if old.Name != updated.Name {
			if docs, n := renameCategory(t.archives, old.Name, updated.Name); n > 0 {
				t.archives = docs
				t.touch(partArchives)
			}
		}
		t.log(actor, models.ActionCategoryEdit, "Perbarui kategori: "+updated.Name)
		return nil
	})
	return updated, err
}

// DeleteCategory removes a category and its sub-categories and returns the
// removed ids. Documents keep their category name.
func (a *App) DeleteCategory(ctx context.Context, actor *Actor, id string) ([]string, error) {
	var removed []string
	err := a.update(ctx, func(t *tx) error {
		node, _ := category.Find(t.categories, id)
		cats, ids, err := category.Delete(t.categories, id)
		if err != nil {
			return err
		}
		t.categories = cats
		t.touch(partCategories)
		t.log(actor, models.ActionCategoryDelete, "Hapus kategori: "+node.Name)
		removed = ids
		return nil
	})
	return removed, err
}

// MoveCategory moves a category one place among its siblings. It reports
// false, and saves nothing, when the category is already at that edge.
func (a *App) MoveCategory(ctx context.Context, actor *Actor, id string, dir category.Direction) (bool, error) {
	var moved bool
	err := a.update(ctx, func(t *tx) error {
		cats, ok, err := category.Move(t.categories, id, dir)
		if err != nil || !ok {
			return err
		}
		node, _ := category.Find(cats, id)
		t.categories = cats
		t.touch(partCategories)
		t.log(actor, models.ActionCategoryMove, "Pindah kategori "+string(dir)+": "+node.Name)
		moved = true
		return nil
	})
	return moved, err
}

// renameCategory returns a copy of docs with every document filed under
// from moved to to, and the number of documents changed.
func renameCategory(docs []models.ArchiveDocument, from, to string) ([]models.ArchiveDocument, int) {
	n := 0
	out := make([]models.ArchiveDocument, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
		if d.Category == from {
			out[i].Category = to
			n++
		}
	}
	return out, n
}

// checkNameFree fails with a *apperr.ConflictError when another category
// (case-insensitively) already carries name.
func checkNameFree(cats []models.Category, name, self string) error {
	name = strings.TrimSpace(name)
	for _, c := range cats {
		if c.ID != self && strings.EqualFold(c.Name, name) {
			return apperr.Conflict("category name " + name + " is already in use")
		}
	}
	return nil
}
