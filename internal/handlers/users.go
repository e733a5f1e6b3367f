// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"earsip/internal/middleware"
	"earsip/internal/state"
)

// ListUsers returns every user without credentials.
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.app.Users())
}

// CreateUser invites a user.
func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in state.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	u, err := a.app.AddUser(r.Context(), actorFrom(r), in)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// UpdateUser replaces a user's profile.
func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in state.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	u, err := a.app.UpdateUser(r.Context(), actorFrom(r), chi.URLParam(r, "id"), in)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser removes a user. Administrators cannot delete themselves.
func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && sess.UserID == id {
		writeError(w, http.StatusConflict, "cannot delete the signed-in account")
		return
	}

	if err := a.app.DeleteUser(r.Context(), actorFrom(r), id); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
