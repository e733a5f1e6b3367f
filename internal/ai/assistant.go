// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"earsip/internal/apperr"
	"earsip/internal/cache"
	"earsip/internal/models"
)

// Texts returned in place of a generated answer.
const (
	FallbackSummary = "AI sedang sibuk, ringkasan akan diperbarui nanti."
	EmptySummary    = "Ringkasan tidak tersedia."
	FallbackChat    = "Terjadi kendala koneksi dengan otak AI kami."
	EmptyChat       = "Maaf, saya tidak menemukan jawaban yang relevan."
	DefaultCategory = "Umum"
)

const systemArchivist = `Anda adalah asisten arsip cerdas untuk kantor arsip sebuah universitas. ` +
	`Jawab dalam Bahasa Indonesia yang formal dan ringkas.`

// Generator produces text for a prompt pair. *Registry satisfies it.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ResponseCache stores generated answers. *cache.ResponseCache satisfies it.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, answer string)
}

// Timeouts bounds each assistant operation.
type Timeouts struct {
	Summarize time.Duration
	Suggest   time.Duration
	Chat      time.Duration
}

// DefaultTimeouts returns the standard per-operation limits.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Summarize: 15 * time.Second,
		Suggest:   10 * time.Second,
		Chat:      25 * time.Second,
	}
}

// Assistant runs the three archive AI operations. Every method returns
// usable text: when the provider fails or times out the answer is a fixed
// fallback and the error is an *apperr.ExternalServiceError.
type Assistant struct {
	gen      Generator
	cache    ResponseCache
	timeouts Timeouts
}

// NewAssistant creates an Assistant. Zero timeouts take the defaults.
func NewAssistant(gen Generator, timeouts Timeouts) *Assistant {
	def := DefaultTimeouts()
	if timeouts.Summarize <= 0 {
		timeouts.Summarize = def.Summarize
	}
	if timeouts.Suggest <= 0 {
		timeouts.Suggest = def.Suggest
	}
	if timeouts.Chat <= 0 {
		timeouts.Chat = def.Chat
	}
	return &Assistant{gen: gen, timeouts: timeouts}
}

// WithCache enables answer caching for summaries and suggestions.
func (a *Assistant) WithCache(c ResponseCache) *Assistant {
	a.cache = c
	return a
}

// Summarize returns a short formal summary of a document.
func (a *Assistant) Summarize(ctx context.Context, title, content string) (string, error) {
	key := cache.Key("summarize", title, content)
	if hit, ok := a.cached(ctx, key); ok {
		return hit, nil
	}

	prompt := fmt.Sprintf(
		`Buatkan ringkasan sangat singkat (maksimal 20 kata) untuk dokumen berjudul "%s" dengan konten berikut: %s. Gunakan Bahasa Indonesia yang formal.`,
		title, content)

	out, err := a.generate(ctx, "summarize", a.timeouts.Summarize, prompt)
	if err != nil {
		return FallbackSummary, err
	}
	if out == "" {
		return EmptySummary, nil
	}
	a.store(ctx, key, out)
	return out, nil
}

// SuggestCategory asks the model to pick one of candidates for a document.
// The answer is matched against candidates ignoring case; anything else
// resolves to the first candidate, or DefaultCategory when there are none.
func (a *Assistant) SuggestCategory(ctx context.Context, title, description string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return DefaultCategory, nil
	}
	fallback := candidates[0]

	key := cache.Key("suggest", append([]string{title, description}, candidates...)...)
	if hit, ok := a.cached(ctx, key); ok {
		return hit, nil
	}

	prompt := fmt.Sprintf(
		"Dari daftar kategori berikut: [%s], pilih satu yang paling sesuai.\nJudul: %q\nDeskripsi: %q\nBerikan HANYA nama kategorinya saja.",
		strings.Join(candidates, ", "), title, description)

	out, err := a.generate(ctx, "suggestCategory", a.timeouts.Suggest, prompt)
	if err != nil {
		return fallback, err
	}

	match, ok := MatchCategory(out, candidates)
	if !ok {
		slog.Info("ai suggestion not in candidates", "answer", out, "fallback", fallback)
		return fallback, nil
	}
	a.store(ctx, key, match)
	return match, nil
}

// MatchCategory resolves a model answer to one of candidates. Surrounding
// quotes and a trailing period are ignored; an empty answer counts as
// DefaultCategory.
func MatchCategory(answer string, candidates []string) (string, bool) {
	answer = strings.Trim(strings.TrimSpace(answer), "\"'`*.")
	if answer == "" {
		answer = DefaultCategory
	}
	for _, c := range candidates {
		if strings.EqualFold(answer, c) {
			return c, true
		}
	}
	return "", false
}

// Chat answers a question about the archive. When focused is set the
// conversation is about that one document; otherwise a digest of all
// archives is supplied as context.
func (a *Assistant) Chat(ctx context.Context, query string, archives []models.ArchiveDocument, focused *models.ArchiveDocument) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", apperr.Validation("query", "is required")
	}

	var scope string
	if focused != nil {
		scope = fmt.Sprintf("Anda sedang berdiskusi KHUSUS tentang dokumen ini: %s. Abaikan dokumen lain kecuali relevan.",
			ArchiveContext([]models.ArchiveDocument{*focused}))
	} else {
		scope = "Gunakan data arsip berikut untuk menjawab: " + ArchiveContext(archives)
	}
	prompt := scope + "\n\nPertanyaan Pengguna:\n" + query

	out, err := a.generate(ctx, "chat", a.timeouts.Chat, prompt)
	if err != nil {
		return FallbackChat, err
	}
	if out == "" {
		return EmptyChat, nil
	}
	return out, nil
}

type archiveDigest struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Category    string `json:"cat"`
	Summary     string `json:"summary,omitempty"`
	Number      string `json:"number,omitempty"`
	Year        string `json:"year,omitempty"`
	Date        string `json:"date"`
}

// ArchiveContext renders documents as the compact JSON digest sent to the
// model.
func ArchiveContext(docs []models.ArchiveDocument) string {
	digest := make([]archiveDigest, len(docs))
	for i, d := range docs {
		digest[i] = archiveDigest{
			Title:       d.Title,
			Description: d.Description,
			Category:    d.Category,
			Summary:     d.AISummary,
			Number:      d.DocumentNumber,
			Year:        d.Year,
			Date:        d.UploadDate,
		}
	}
	b, err := json.Marshal(digest)
	if err != nil {
		return "[]"
	}
	return string(b)
}

type genResult struct {
	text string
	err  error
}

// generate runs one provider call under timeout. The call runs in its own
// goroutine so a provider that ignores ctx still cannot hold the caller
// past the deadline.
func (a *Assistant) generate(ctx context.Context, op string, timeout time.Duration, prompt string) (string, error) {
	if a.gen == nil {
		return "", &apperr.ExternalServiceError{Op: op, Err: fmt.Errorf("no provider configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan genResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- genResult{err: fmt.Errorf("provider panic: %v", rec)}
			}
		}()
		text, err := a.gen.Generate(ctx, systemArchivist, prompt)
		ch <- genResult{text: text, err: err}
	}()

	var res genResult
	select {
	case res = <-ch:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	if res.err != nil {
		slog.Warn("ai request failed", "op", op, "error", res.err)
		return "", &apperr.ExternalServiceError{Op: op, Err: res.err}
	}
	return strings.TrimSpace(res.text), nil
}

func (a *Assistant) cached(ctx context.Context, key string) (string, bool) {
	if a.cache == nil {
		return "", false
	}
	return a.cache.Get(ctx, key)
}

func (a *Assistant) store(ctx context.Context, key, answer string) {
	if a.cache != nil {
		a.cache.Set(ctx, key, answer)
	}
}
