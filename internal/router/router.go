// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// archive API. It organizes routes into public, signed-in and admin groups
// with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"earsip/internal/handlers"
	"earsip/internal/middleware"
	"earsip/internal/session"
)

// Limits for the rate-limited route groups.
const (
	authLimit  = 10
	authWindow = time.Minute
	aiLimit    = 30
	aiWindow   = time.Minute
)

// Limiters holds the rate limiters used by the router. Call Stop on
// shutdown to release their cleanup goroutines.
type Limiters struct {
	Auth *middleware.RateLimiter
	AI   *middleware.RateLimiter
}

// NewLimiters creates the default limiters.
func NewLimiters() *Limiters {
	return &Limiters{
		Auth: middleware.NewRateLimiter(authLimit, authWindow),
		AI:   middleware.NewRateLimiter(aiLimit, aiWindow),
	}
}

// Stop stops every limiter.
func (l *Limiters) Stop() {
	l.Auth.Stop()
	l.AI.Stop()
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, api *handlers.API, auth *handlers.Auth, limiters *Limiters) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireJSON)

		r.Route("/auth", func(r chi.Router) {
			r.With(limiters.Auth.Middleware).Post("/login", auth.Login)
			r.With(limiters.Auth.Middleware).Post("/register", auth.Register)
			r.Post("/logout", auth.Logout)
			r.With(middleware.RequireAuth).Get("/me", auth.Me)
		})

		// Signed-in area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", api.ListCategories)
				r.Get("/tree", api.CategoryTree)
				r.Post("/", api.CreateCategory)
				r.Put("/{id}", api.UpdateCategory)
				r.Delete("/{id}", api.DeleteCategory)
				r.Post("/{id}/move", api.MoveCategory)
			})

			r.Route("/archives", func(r chi.Router) {
				r.Get("/", api.ListArchives)
				r.Post("/", api.CreateArchive)
				r.With(middleware.RequireAdmin).Delete("/", api.ClearArchives)
				r.Get("/{id}", api.GetArchive)
				r.Put("/{id}", api.UpdateArchive)
				r.Delete("/{id}", api.DeleteArchive)
				r.Get("/{id}/download", api.DownloadArchive)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", api.GetSettings)
				r.With(middleware.RequireAdmin).Put("/", api.UpdateSettings)
				r.Get("/audit-logs", api.AuditLogs)
			})

			r.Get("/downloads", api.DownloadHistory)
			r.With(middleware.RequireAdmin).Delete("/downloads", api.ClearDownloadHistory)

			// AI assistant
			r.Route("/ai", func(r chi.Router) {
				r.Get("/providers", api.AIProviders)
				r.Group(func(r chi.Router) {
					r.Use(limiters.AI.Middleware)
					r.Post("/summarize", api.Summarize)
					r.Post("/suggest-category", api.SuggestCategory)
					r.Post("/chat", api.Chat)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/provider", api.SetAIProvider)
					r.Delete("/cache", api.FlushAICache)
				})
			})

			// User management, admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", api.ListUsers)
				r.Post("/", api.CreateUser)
				r.Put("/{id}", api.UpdateUser)
				r.Delete("/{id}", api.DeleteUser)
			})

			// Backup and restore, admin only.
			r.Route("/maintenance", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/backup", api.ExportBackup)
				r.Post("/restore", api.RestoreBackup)
				r.Post("/cloud-sync", api.CloudSync)
				r.Get("/cloud-backups", api.ListCloudBackups)
				r.Get("/cloud-backups/link", api.CloudBackupLink)
				r.Post("/cloud-backups/restore", api.RestoreCloudBackup)
				r.Delete("/cloud-backups", api.DeleteCloudBackup)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":"not found"}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, `{"error":"method not allowed"}`)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `{"status":"ok"}`)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
