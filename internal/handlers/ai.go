// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"earsip/internal/apperr"
	"earsip/internal/category"
	"earsip/internal/models"
	"earsip/internal/state"
)

// aiResponse carries generated text. Warning is set when the provider
// failed and Result holds the fallback text instead.
type aiResponse struct {
	Result  string `json:"result"`
	Warning string `json:"warning,omitempty"`
}

type summarizeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type suggestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type chatRequest struct {
	Query     string `json:"query"`
	ArchiveID string `json:"archiveId"`
}

type providerRequest struct {
	Provider string `json:"provider"`
}

// Summarize returns a short summary of a document's title and content.
func (a *API) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "title or content is required", Field: "content"})
		return
	}
	if msg := validateQuery(req.Title); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg, Field: "title"})
		return
	}

	out, err := a.assistant.Summarize(r.Context(), req.Title, truncate(req.Content, maxSnippetLen))
	a.writeAIResult(w, r, out, err)
}

// SuggestCategory picks the best matching category name for a document.
func (a *API) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "is required", Field: "title"})
		return
	}

	var names []string
	for c := range category.Walk(a.app.Categories(), nil) {
		names = append(names, c.Name)
	}

	out, err := a.assistant.SuggestCategory(r.Context(), req.Title, truncate(req.Description, maxDescriptionLen), names)
	a.writeAIResult(w, r, out, err)
}

// Chat answers a question about the archive, or about one document when
// archiveId is given.
func (a *API) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateQuery(req.Query); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg, Field: "query"})
		return
	}

	var focused *models.ArchiveDocument
	if req.ArchiveID != "" {
		doc, err := a.app.Archive(req.ArchiveID)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		focused = &doc
	}

	var archives []models.ArchiveDocument
	if focused == nil {
		archives = a.app.Archives(state.ArchiveFilter{})
	}

	out, err := a.assistant.Chat(r.Context(), req.Query, archives, focused)
	a.writeAIResult(w, r, out, err)
}

// AIProviders reports the active provider and every configured one.
func (a *API) AIProviders(w http.ResponseWriter, r *http.Request) {
	active, available := "", []string{}
	if a.registry != nil {
		active, available = a.registry.ActiveName(), a.registry.Available()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    active,
		"available": available,
	})
}

// SetAIProvider switches the active AI provider at runtime.
func (a *API) SetAIProvider(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Provider)
	if name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "is required", Field: "provider"})
		return
	}
	if a.registry == nil || a.registry.SetActive(name) != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: "provider not available (no API key configured)",
			Field: "provider",
		})
		return
	}

	slog.Info("ai provider switched", "provider", name)
	a.AIProviders(w, r)
}

// FlushAICache drops every cached AI answer.
func (a *API) FlushAICache(w http.ResponseWriter, r *http.Request) {
	if a.aiCache != nil {
		a.aiCache.InvalidateAll(r.Context())
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAIResult answers 200 with the generated or fallback text. Only
// input errors are reported as failures.
func (a *API) writeAIResult(w http.ResponseWriter, r *http.Request, out string, err error) {
	if err != nil && !apperr.IsExternal(err) {
		respondErr(w, r, err)
		return
	}
	resp := aiResponse{Result: strings.TrimSpace(out)}
	if err != nil {
		slog.Warn("ai request fell back", "path", r.URL.Path, "error", err)
		resp.Warning = "AI service unavailable; showing fallback text"
	}
	writeJSON(w, http.StatusOK, resp)
}

// truncate cuts s to maxLen runes.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
