// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"earsip/internal/models"
	"earsip/internal/session"
	"earsip/internal/store"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(role models.Role) *session.Data {
	return &session.Data{
		UserID: "user-1",
		Email:  "staf@e-arsip.com",
		Name:   "Staf Arsip",
		Role:   role,
	}
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession(models.RoleAdmin)
		got := SessionFromCtx(WithSession(context.Background(), sess))
		if got != sess {
			t.Fatalf("got %+v, want %+v", got, sess)
		}
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

func TestLoadSession(t *testing.T) {
	sessions := session.NewStore(store.NewMemory(), false)

	w := httptest.NewRecorder()
	if _, err := sessions.Create(context.Background(), w, newTestSession(models.RoleUser)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cookie := w.Result().Cookies()[0]

	var seen *session.Data
	handler := LoadSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromCtx(r.Context())
	}))

	t.Run("loads session from cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/archives", nil)
		req.AddCookie(cookie)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen == nil || seen.UserID != "user-1" {
			t.Errorf("session: %+v", seen)
		}
	})

	t.Run("no cookie passes through", func(t *testing.T) {
		seen = nil
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/archives", nil))
		if seen != nil {
			t.Errorf("expected no session, got %+v", seen)
		}
	})

	t.Run("unknown cookie passes through", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/archives", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale"})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen != nil {
			t.Errorf("expected no session, got %+v", seen)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("rejects anonymous requests with 401", func(t *testing.T) {
		next, called := okHandler()
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/archives", nil))

		if *called {
			t.Error("next handler must not run")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
	})

	t.Run("passes authenticated requests", func(t *testing.T) {
		next, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/api/archives", nil)
		req = req.WithContext(WithSession(req.Context(), newTestSession(models.RoleUser)))
		rr := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rr, req)

		if !*called || rr.Code != http.StatusOK {
			t.Errorf("called=%v status=%d", *called, rr.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		sess   *session.Data
		status int
	}{
		{"admin allowed", newTestSession(models.RoleAdmin), http.StatusOK},
		{"user forbidden", newTestSession(models.RoleUser), http.StatusForbidden},
		{"anonymous forbidden", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.sess != nil {
				req = req.WithContext(WithSession(req.Context(), tt.sess))
			}
			rr := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			if *called != (tt.status == http.StatusOK) {
				t.Errorf("next called = %v", *called)
			}
		})
	}
}
