// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category maintains the archive classification tree. The tree is
// stored flat: every node carries its parent id and an order among its
// siblings. All operations take a snapshot and return a new one; an input
// slice is never modified, so callers can detect change by comparing
// snapshots and can discard a result without side effects.
package category

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"earsip/internal/apperr"
	"earsip/internal/models"
	"earsip/internal/slug"
)

// Direction is the way a node moves among its siblings.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// NewID returns a fresh category id derived from the name, e.g.
// "cat-laporan-keuangan-1f0c9a2b".
func NewID(name string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	s := slug.Generate(name)
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "-")
	}
	if s == "" {
		return "cat-" + suffix
	}
	return "cat-" + s + "-" + suffix
}

// Add appends a new node at the end of the sibling group under parentID
// (nil for the root group). An empty id is replaced by NewID(name).
func Add(cats []models.Category, id, name string, parentID *string) ([]models.Category, models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Category{}, apperr.Validation("name", "is required")
	}
	if parentID != nil && indexOf(cats, *parentID) < 0 {
		return nil, models.Category{}, apperr.NotFound("category", *parentID)
	}
	if id == "" {
		id = NewID(name)
	} else if indexOf(cats, id) >= 0 {
		return nil, models.Category{}, apperr.Validation("id", "already exists")
	}

	node := models.Category{
		ID:       id,
		Name:     name,
		ParentID: copyPtr(parentID),
		Order:    nextOrder(cats, parentID, ""),
	}
	out := append(clone(cats), node)
	return out, node, nil
}

// Update renames and/or re-parents a node. Moving a node into a different
// sibling group places it after the group's last member; keeping the parent
// keeps its order. Moving a node under itself or any of its descendants
// fails with a *apperr.CycleError.
func Update(cats []models.Category, id, name string, parentID *string) ([]models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	idx := indexOf(cats, id)
	if idx < 0 {
		return nil, apperr.NotFound("category", id)
	}
	if parentID != nil {
		if *parentID == id {
			return nil, &apperr.CycleError{ID: id, ParentID: id}
		}
		if indexOf(cats, *parentID) < 0 {
			return nil, apperr.NotFound("category", *parentID)
		}
		for _, d := range Descendants(cats, id) {
			if d == *parentID {
				return nil, &apperr.CycleError{ID: id, ParentID: *parentID}
			}
		}
	}

	out := clone(cats)
	node := &out[idx]
	node.Name = name
	if !models.SameParent(node.ParentID, parentID) {
		node.Order = nextOrder(out, parentID, id)
		node.ParentID = copyPtr(parentID)
	}
	return out, nil
}

// Delete removes the node and its whole subtree. It returns the new
// snapshot and the removed ids, the node itself first.
func Delete(cats []models.Category, id string) ([]models.Category, []string, error) {
	if indexOf(cats, id) < 0 {
		return nil, nil, apperr.NotFound("category", id)
	}
	removed := append([]string{id}, Descendants(cats, id)...)
	gone := make(map[string]bool, len(removed))
	for _, r := range removed {
		gone[r] = true
	}

	out := make([]models.Category, 0, len(cats)-len(removed))
	for _, c := range cats {
		if !gone[c.ID] {
			out = append(out, cloneOne(c))
		}
	}
	return out, removed, nil
}

// Move swaps the order of a node with its neighbour in the given direction.
// Moving the first sibling up or the last sibling down is a no-op and
// reports moved=false.
func Move(cats []models.Category, id string, dir Direction) (out []models.Category, moved bool, err error) {
	if dir != Up && dir != Down {
		return nil, false, apperr.Validation("direction", "must be up or down")
	}
	idx := indexOf(cats, id)
	if idx < 0 {
		return nil, false, apperr.NotFound("category", id)
	}

	sibs := siblingIndexes(cats, cats[idx].ParentID)
	pos := -1
	for i, si := range sibs {
		if si == idx {
			pos = i
			break
		}
	}

	var other int
	switch {
	case dir == Up && pos > 0:
		other = sibs[pos-1]
	case dir == Down && pos < len(sibs)-1:
		other = sibs[pos+1]
	default:
		return clone(cats), false, nil
	}

	out = clone(cats)
	if cats[idx].Order == cats[other].Order {
		// Tied orders from older snapshots: number the group first so the
		// swap changes something.
		for i, si := range sibs {
			out[si].Order = i
		}
	}
	out[idx].Order, out[other].Order = out[other].Order, out[idx].Order
	return out, true, nil
}

// Position returns the node's index within its ordered sibling group and
// the group size. Clients use it to enable or disable move controls.
func Position(cats []models.Category, id string) (pos, count int, err error) {
	idx := indexOf(cats, id)
	if idx < 0 {
		return 0, 0, apperr.NotFound("category", id)
	}
	sibs := siblingIndexes(cats, cats[idx].ParentID)
	for i, si := range sibs {
		if si == idx {
			return i, len(sibs), nil
		}
	}
	return 0, len(sibs), nil
}

// Siblings returns the nodes under parentID ordered for display.
func Siblings(cats []models.Category, parentID *string) []models.Category {
	idxs := siblingIndexes(cats, parentID)
	out := make([]models.Category, len(idxs))
	for i, si := range idxs {
		out[i] = cloneOne(cats[si])
	}
	return out
}

// Find returns the node with the given id.
func Find(cats []models.Category, id string) (models.Category, bool) {
	idx := indexOf(cats, id)
	if idx < 0 {
		return models.Category{}, false
	}
	return cloneOne(cats[idx]), true
}

// FindByName returns the first node whose name equals name, ignoring case.
func FindByName(cats []models.Category, name string) (models.Category, bool) {
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return cloneOne(c), true
		}
	}
	return models.Category{}, false
}

// siblingIndexes returns the slice positions of the nodes under parentID,
// sorted by order. Equal orders keep slice position.
func siblingIndexes(cats []models.Category, parentID *string) []int {
	var idxs []int
	for i, c := range cats {
		if models.SameParent(c.ParentID, parentID) {
			idxs = append(idxs, i)
		}
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return cats[idxs[a]].Order < cats[idxs[b]].Order
	})
	return idxs
}

// nextOrder returns max(order)+1 in the group under parentID, skipping the
// node being moved, or 0 for an empty group.
func nextOrder(cats []models.Category, parentID *string, skip string) int {
	next := 0
	for _, c := range cats {
		if c.ID != skip && models.SameParent(c.ParentID, parentID) && c.Order >= next {
			next = c.Order + 1
		}
	}
	return next
}

func indexOf(cats []models.Category, id string) int {
	for i, c := range cats {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func clone(cats []models.Category) []models.Category {
	out := make([]models.Category, len(cats), len(cats)+1)
	for i, c := range cats {
		out[i] = cloneOne(c)
	}
	return out
}

func cloneOne(c models.Category) models.Category {
	c.ParentID = copyPtr(c.ParentID)
	return c
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
