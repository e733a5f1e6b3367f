// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"earsip/internal/category"
	"earsip/internal/models"
	"earsip/internal/state"
)

type categoryRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

type moveRequest struct {
	Direction category.Direction `json:"direction"`
}

// ListCategories returns the flat category list.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.app.Categories())
}

// CategoryTree returns the depth-first tree with document counts. The
// optional "root" query parameter limits it to one subtree.
func (a *API) CategoryTree(w http.ResponseWriter, r *http.Request) {
	root := models.StringPtr(r.URL.Query().Get("root"))
	nodes := a.app.CategoryTree(root)
	if nodes == nil {
		nodes = []state.TreeNode{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

// CreateCategory adds a category.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg, Field: "name"})
		return
	}

	c, err := a.app.AddCategory(r.Context(), actorFrom(r), req.Name, emptyToNil(req.ParentID))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory renames or re-parents a category.
func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg, Field: "name"})
		return
	}

	c, err := a.app.UpdateCategory(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.Name, emptyToNil(req.ParentID))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory removes a category with its whole subtree.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	removed, err := a.app.DeleteCategory(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

// MoveCategory swaps a category with its previous or next sibling.
func (a *API) MoveCategory(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	moved, err := a.app.MoveCategory(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.Direction)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

// emptyToNil treats an empty parent id as "root".
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
