// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides cookie-based HTTP sessions. Session payloads are
// stored as JSON in the snapshot key-value store with a TTL, so they live
// wherever the archive collections live.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"earsip/internal/models"
	"earsip/internal/store"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ad_session"

	// DefaultTTL is how long a session lives before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in the store.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data holds the session payload: the signed-in user's identity.
type Data struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// IsAdmin returns true if the session belongs to an administrator.
func (d *Data) IsAdmin() bool {
	return d != nil && d.Role == models.RoleAdmin
}

// Store manages session lifecycle.
type Store struct {
	kv     store.KV
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store. secure marks the cookie Secure and
// should be set behind TLS.
func NewStore(kv store.KV, secure bool) *Store {
	return &Store{
		kv:     kv,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Create generates a new session, stores it, and sets the session cookie
// on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.kv.Set(ctx, keyPrefix+id, payload, s.ttl); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves session data using the session ID from the request
// cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, err := s.kv.Get(ctx, keyPrefix+cookie.Value)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil // Session expired or doesn't exist
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Update replaces the session data without changing the session ID or
// cookie. Resets the TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: no cookie")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.kv.Set(ctx, keyPrefix+cookie.Value, payload, s.ttl); err != nil {
		return fmt.Errorf("session update: %w", err)
	}

	return nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.kv.Delete(ctx, keyPrefix+cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	// Expire the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
