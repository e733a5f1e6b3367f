// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the records persisted by the archive service and
// the core types shared across packages. JSON field names follow the
// snapshot format written by the original browser client, so existing
// backups load unchanged.
package models

// Category is one node in the archive classification tree. A nil ParentID
// marks a root node. Order sequences the node among its siblings.
type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
	Order    int     `json:"order"`
}

// IsRoot reports whether the category sits at the top of the tree.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// ParentKey returns the parent id, or "" for a root node.
func (c Category) ParentKey() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

// SameParent reports whether two parent references point at the same node
// (both nil counts as the same root group).
func SameParent(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
