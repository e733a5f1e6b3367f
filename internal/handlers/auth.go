// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"earsip/internal/middleware"
	"earsip/internal/models"
	"earsip/internal/session"
	"earsip/internal/state"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	app      *state.App
	sessions *session.Store
}

// NewAuth creates a new Auth handler group.
func NewAuth(app *state.App, sessions *session.Store) *Auth {
	return &Auth{
		app:      app,
		sessions: sessions,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.app.Authenticate(req.Email, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	a.startSession(w, r, user)
}

// Register creates a USER account and signs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.app.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	slog.Info("user registered", "user_id", user.ID)
	a.startSession(w, r, user)
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, user models.User) {
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := a.app.User(sess.UserID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
