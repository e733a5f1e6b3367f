// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the archive API.
// Handlers are grouped by concern (auth, archive API) and receive their
// dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"earsip/internal/ai"
	"earsip/internal/apperr"
	"earsip/internal/middleware"
	"earsip/internal/state"
	"earsip/internal/storage"
)

// maxBodyBytes caps request bodies. Backups are the largest payload.
const maxBodyBytes = 16 << 20

// BackupStorage is the object storage used for cloud backups.
// *storage.Client satisfies it.
type BackupStorage interface {
	ListBackups(ctx context.Context) ([]storage.Object, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// CacheFlusher drops every cached AI answer. *cache.ResponseCache
// satisfies it.
type CacheFlusher interface {
	InvalidateAll(ctx context.Context)
}

// API groups the archive endpoints and their dependencies.
type API struct {
	app       *state.App
	assistant *ai.Assistant
	registry  *ai.Registry
	backups   BackupStorage
	aiCache   CacheFlusher
}

// NewAPI creates the archive handler group. registry, backups and aiCache
// may be nil when the corresponding service is not configured.
func NewAPI(app *state.App, assistant *ai.Assistant, registry *ai.Registry, backups BackupStorage, aiCache CacheFlusher) *API {
	return &API{
		app:       app,
		assistant: assistant,
		registry:  registry,
		backups:   backups,
		aiCache:   aiCache,
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends an error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// respondErr maps a service error to its HTTP status. Unclassified errors
// are logged and answered with a generic 500.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: verr.Msg, Field: verr.Field})
	case apperr.IsCycle(err), apperr.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, state.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, state.ErrSuspended):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, state.ErrCloudDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case apperr.IsExternal(err):
		slog.Warn("external service failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "upstream service unavailable")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads the request body into dst. It answers 400 itself and
// reports false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "request body is required")
	default:
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	return false
}

// actorFrom returns the signed-in user as an audit actor, or nil.
func actorFrom(r *http.Request) *state.Actor {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		return nil
	}
	return &state.Actor{ID: sess.UserID, Name: sess.Name}
}
