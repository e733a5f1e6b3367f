// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"earsip/internal/models"
	"earsip/internal/state"
)

// ListArchives returns documents, optionally filtered by category subtree
// ("category") and free text ("q").
func (a *API) ListArchives(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, a.app.Archives(state.ArchiveFilter{
		CategoryID: q.Get("category"),
		Query:      q.Get("q"),
	}))
}

// GetArchive returns one document.
func (a *API) GetArchive(w http.ResponseWriter, r *http.Request) {
	doc, err := a.app.Archive(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// CreateArchive stores a new document's metadata.
func (a *API) CreateArchive(w http.ResponseWriter, r *http.Request) {
	var doc models.ArchiveDocument
	if !decodeJSON(w, r, &doc) {
		return
	}
	if field, msg := validateArchiveFields(doc); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg, Field: field})
		return
	}

	created, err := a.app.AddArchive(r.Context(), actorFrom(r), doc)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateArchive replaces a document's metadata. The id in the path wins
// over any id in the body.
func (a *API) UpdateArchive(w http.ResponseWriter, r *http.Request) {
	var doc models.ArchiveDocument
	if !decodeJSON(w, r, &doc) {
		return
	}
	if field, msg := validateArchiveFields(doc); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg, Field: field})
		return
	}
	doc.ID = chi.URLParam(r, "id")

	updated, err := a.app.UpdateArchive(r.Context(), actorFrom(r), doc)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteArchive removes one document.
func (a *API) DeleteArchive(w http.ResponseWriter, r *http.Request) {
	if err := a.app.DeleteArchive(r.Context(), actorFrom(r), chi.URLParam(r, "id")); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearArchives removes every document. Administrators only.
func (a *API) ClearArchives(w http.ResponseWriter, r *http.Request) {
	if err := a.app.ClearArchives(r.Context(), actorFrom(r)); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadArchive serves the document's primary file from the local or
// cloud copy ("source") and records the download.
func (a *API) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	dl, err := a.app.Download(r.Context(), actorFrom(r), chi.URLParam(r, "id"), r.URL.Query().Get("source"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", dl.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(dl.Body)
}
