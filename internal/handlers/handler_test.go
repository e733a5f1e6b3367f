// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Every test runs against the in-memory store, so no services are needed.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"earsip/internal/ai"
	"earsip/internal/middleware"
	"earsip/internal/models"
	"earsip/internal/session"
	"earsip/internal/state"
	"earsip/internal/store"
)

// mockAIProvider implements ai.Provider for handler tests.
type mockAIProvider struct {
	name     string
	response string
	err      error
}

func (m *mockAIProvider) Name() string { return m.name }
func (m *mockAIProvider) Generate(_ context.Context, _, _ string) (string, error) {
	return m.response, m.err
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	App        *state.App
	Sessions   *session.Store
	AIRegistry *ai.Registry
	API        *API
	Auth       *Auth
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, nil, nil)
}

func newTestEnvWith(t *testing.T, backups BackupStorage, flusher CacheFlusher) *testEnv {
	t.Helper()

	kv := store.NewMemory()
	opts := state.Options{}
	if backups != nil {
		if up, ok := backups.(state.BackupStore); ok {
			opts.Backups = up
		}
	}
	app, err := state.New(kv, opts)
	if err != nil {
		t.Fatalf("state.New: %v", err)
	}
	if err := app.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	aiRegistry := ai.NewRegistry("test", map[string]ai.ProviderConfig{})
	aiRegistry.Register("test", &mockAIProvider{
		name:     "test",
		response: "mock AI response",
	})
	assistant := ai.NewAssistant(aiRegistry, ai.Timeouts{
		Summarize: time.Second,
		Suggest:   time.Second,
		Chat:      time.Second,
	})

	sessions := session.NewStore(kv, false)
	return &testEnv{
		App:        app,
		Sessions:   sessions,
		AIRegistry: aiRegistry,
		API:        NewAPI(app, assistant, aiRegistry, backups, flusher),
		Auth:       NewAuth(app, sessions),
	}
}

// setMockAIResponse reconfigures the test env's AI mock to return a given response.
func setMockAIResponse(env *testEnv, response string, err error) {
	env.AIRegistry.Register("test", &mockAIProvider{
		name:     "test",
		response: response,
		err:      err,
	})
}

var (
	adminSession = &session.Data{UserID: "admin-1", Email: "admin@e-arsip.com", Name: "Administrator", Role: models.RoleAdmin}
	staffSession = &session.Data{UserID: "user-staff", Email: "staf@e-arsip.com", Name: "Staf Arsip", Role: models.RoleUser}
)

// request describes one handler call.
type request struct {
	method string
	target string
	body   string
	sess   *session.Data
	params map[string]string
}

// serve runs h for req and returns the recorder.
func serve(t *testing.T, h http.HandlerFunc, req request) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if req.body != "" {
		r = httptest.NewRequest(req.method, req.target, strings.NewReader(req.body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(req.method, req.target, nil)
	}

	ctx := r.Context()
	if req.sess != nil {
		ctx = middleware.WithSession(ctx, req.sess)
	}
	if len(req.params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range req.params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	r = r.WithContext(ctx)

	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

// decodeBody unmarshals the recorder body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

// expectStatus fails the test when the recorder's status differs.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}
