// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ArchiveFile describes one file attached to an archived document. Only
// metadata is kept; file bytes are never stored.
type ArchiveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	MimeType string `json:"mimeType"`
}

// ArchiveDocument is the metadata record of one archived document.
// Category holds the category NAME, not its id.
type ArchiveDocument struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       string        `json:"category"`
	UploadDate     string        `json:"uploadDate"`
	TotalSize      string        `json:"totalSize"`
	Files          []ArchiveFile `json:"files"`
	ContentSnippet string        `json:"contentSnippet,omitempty"`
	AISummary      string        `json:"aiSummary,omitempty"`
	DocumentNumber string        `json:"documentNumber,omitempty"`
	Year           string        `json:"year,omitempty"`
	IsCloudSynced  bool          `json:"isCloudSynced,omitempty"`
	LastSynced     string        `json:"lastSynced,omitempty"`
}

// PrimaryFile returns the first attached file, if any.
func (d ArchiveDocument) PrimaryFile() (ArchiveFile, bool) {
	if len(d.Files) == 0 {
		return ArchiveFile{}, false
	}
	return d.Files[0], true
}

// Clone returns a copy of the document that shares no slices with d.
func (d ArchiveDocument) Clone() ArchiveDocument {
	c := d
	if d.Files != nil {
		c.Files = append([]ArchiveFile(nil), d.Files...)
	}
	return c
}

// BackupVersion is the format version written into every backup.
const BackupVersion = "1.0.0"

// BackupData is the portable export of archives and categories.
type BackupData struct {
	Version    string            `json:"version"`
	Timestamp  string            `json:"timestamp"`
	Archives   []ArchiveDocument `json:"archives"`
	Categories []Category        `json:"categories"`
}
