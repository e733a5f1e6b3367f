// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package state

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"earsip/internal/apperr"
	"earsip/internal/category"
	"earsip/internal/models"
	"earsip/internal/slug"
)

// Download sources.
const (
	SourceLocal = "local"
	SourceCloud = "cloud"
)

// cloudPrefix marks file names served from the cloud copy.
const cloudPrefix = "[CLOUDSYNC]_"

// ArchiveFilter narrows List. Zero values match everything.
type ArchiveFilter struct {
	// CategoryID selects a category together with its sub-categories.
	CategoryID string
	// Query matches title, description or document number, ignoring case.
	Query string
}

// FileDownload is the placeholder content served for a document's file.
type FileDownload struct {
	Filename string
	MimeType string
	Body     []byte
}

// Archives returns documents matching f, newest first.
func (a *App) Archives(f ArchiveFilter) []models.ArchiveDocument {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var names []string
	if f.CategoryID != "" {
		names = category.SubtreeNames(a.snap.categories, f.CategoryID)
		if names == nil {
			return []models.ArchiveDocument{}
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := []models.ArchiveDocument{}
	for _, d := range a.snap.archives {
		if names != nil && !slices.Contains(names, d.Category) {
			continue
		}
		if q != "" && !matchQuery(d, q) {
			continue
		}
		out = append(out, d.Clone())
	}
	return out
}

func matchQuery(d models.ArchiveDocument, q string) bool {
	return strings.Contains(strings.ToLower(d.Title), q) ||
		strings.Contains(strings.ToLower(d.Description), q) ||
		strings.Contains(strings.ToLower(d.DocumentNumber), q)
}

// Archive returns the document with the given id.
func (a *App) Archive(id string) (models.ArchiveDocument, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	i := archiveIndex(a.snap.archives, id)
	if i < 0 {
		return models.ArchiveDocument{}, apperr.NotFound("archive", id)
	}
	return a.snap.archives[i].Clone(), nil
}

// AddArchive files a new document at the top of the list. The id and
// upload date are filled in when empty.
func (a *App) AddArchive(ctx context.Context, actor *Actor, doc models.ArchiveDocument) (models.ArchiveDocument, error) {
	if err := validateArchive(doc); err != nil {
		return models.ArchiveDocument{}, err
	}
	doc = doc.Clone()
	doc.Title = strings.TrimSpace(doc.Title)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Files == nil {
		doc.Files = []models.ArchiveFile{}
	}

	err := a.update(ctx, func(t *tx) error {
		if archiveIndex(t.archives, doc.ID) >= 0 {
			return apperr.Conflict("archive " + doc.ID + " already exists")
		}
		if doc.UploadDate == "" {
			doc.UploadDate = today(t.now)
		}
		docs := make([]models.ArchiveDocument, 0, len(t.archives)+1)
		docs = append(docs, doc)
		t.archives = append(docs, t.archives...)
		t.touch(partArchives)
		t.log(actor, models.ActionUpload, "Dokumen baru: "+doc.Title)
		return nil
	})
	if err != nil {
		return models.ArchiveDocument{}, err
	}
	return doc.Clone(), nil
}

// UpdateArchive replaces the metadata of an existing document in place.
func (a *App) UpdateArchive(ctx context.Context, actor *Actor, doc models.ArchiveDocument) (models.ArchiveDocument, error) {
	if err := validateArchive(doc); err != nil {
		return models.ArchiveDocument{}, err
	}
	doc = doc.Clone()
	doc.Title = strings.TrimSpace(doc.Title)

	err := a.update(ctx, func(t *tx) error {
		i := archiveIndex(t.archives, doc.ID)
		if i < 0 {
			return apperr.NotFound("archive", doc.ID)
		}
		if doc.UploadDate == "" {
			doc.UploadDate = t.archives[i].UploadDate
		}
		if doc.Files == nil {
			doc.Files = t.archives[i].Clone().Files
		}
		docs := slices.Clone(t.archives)
		docs[i] = doc
		t.archives = docs
		t.touch(partArchives)
		t.log(actor, models.ActionEdit, "Update metadata: "+doc.Title)
		return nil
	})
	if err != nil {
		return models.ArchiveDocument{}, err
	}
	return doc.Clone(), nil
}

// DeleteArchive removes one document.
func (a *App) DeleteArchive(ctx context.Context, actor *Actor, id string) error {
	return a.update(ctx, func(t *tx) error {
		i := archiveIndex(t.archives, id)
		if i < 0 {
			return apperr.NotFound("archive", id)
		}
		title := t.archives[i].Title
		t.archives = slices.Delete(slices.Clone(t.archives), i, i+1)
		t.touch(partArchives)
		t.log(actor, models.ActionDelete, "Hapus arsip: "+title)
		return nil
	})
}

// ClearArchives removes every document.
func (a *App) ClearArchives(ctx context.Context, actor *Actor) error {
	return a.update(ctx, func(t *tx) error {
		t.archives = []models.ArchiveDocument{}
		t.touch(partArchives)
		t.log(actor, models.ActionDeleteAll, "Menghapus seluruh database arsip dokumen")
		return nil
	})
}

// Download returns placeholder content for the document's primary file
// and records the download. source is SourceLocal or SourceCloud.
func (a *App) Download(ctx context.Context, actor *Actor, id, source string) (FileDownload, error) {
	if source == "" {
		source = SourceLocal
	}
	if source != SourceLocal && source != SourceCloud {
		return FileDownload{}, apperr.Validation("source", "must be local or cloud")
	}

	var dl FileDownload
	err := a.update(ctx, func(t *tx) error {
		i := archiveIndex(t.archives, id)
		if i < 0 {
			return apperr.NotFound("archive", id)
		}
		file, ok := t.archives[i].PrimaryFile()
		if !ok {
			return apperr.NotFound("file", id)
		}

		dl = FileDownload{Filename: file.Name, MimeType: file.MimeType}
		if dl.Filename == "" {
			dl.Filename = slug.Filename(t.archives[i].Title, ".bin")
		}
		if dl.MimeType == "" {
			dl.MimeType = "application/octet-stream"
		}
		switch source {
		case SourceCloud:
			dl.Body = []byte("Google Drive Cloud Content: " + dl.Filename)
			t.log(actor, models.ActionDownload, "Unduh file (Google Drive): "+dl.Filename)
			dl.Filename = cloudPrefix + dl.Filename
		default:
			dl.Body = []byte("Simulated physical file content for institutional record: " + dl.Filename)
			t.log(actor, models.ActionDownload, "Unduh file (Local): "+dl.Filename)
		}
		return nil
	})
	return dl, err
}

func validateArchive(doc models.ArchiveDocument) error {
	if strings.TrimSpace(doc.Title) == "" {
		return apperr.Validation("title", "is required")
	}
	if strings.TrimSpace(doc.Category) == "" {
		return apperr.Validation("category", "is required")
	}
	return nil
}

func archiveIndex(docs []models.ArchiveDocument, id string) int {
	return slices.IndexFunc(docs, func(d models.ArchiveDocument) bool { return d.ID == id })
}
