// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"earsip/internal/models"
	"earsip/internal/state"
	"earsip/internal/storage"
)

// presignTTL is how long a cloud backup download link stays valid.
const presignTTL = 15 * time.Minute

type backupKeyRequest struct {
	Key string `json:"key"`
}

type restoreResult struct {
	Archives   int `json:"archives"`
	Categories int `json:"categories"`
}

// ExportBackup sends archives and categories as a downloadable JSON file.
func (a *API) ExportBackup(w http.ResponseWriter, r *http.Request) {
	data := a.app.Backup()
	name := fmt.Sprintf("Backup_Arsip_YPIB_%s.json", time.Now().Format(time.DateOnly))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	writeJSON(w, http.StatusOK, data)
}

// RestoreBackup replaces archives and categories with an uploaded backup.
func (a *API) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	var data models.BackupData
	if !decodeJSON(w, r, &data) {
		return
	}
	a.restore(w, r, data)
}

// CloudSync uploads a backup to object storage.
func (a *API) CloudSync(w http.ResponseWriter, r *http.Request) {
	res, err := a.app.CloudSync(r.Context(), actorFrom(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	slog.Info("cloud sync complete", "key", res.Key, "archives", res.Archives)
	writeJSON(w, http.StatusOK, res)
}

// ListCloudBackups lists stored backups, newest first.
func (a *API) ListCloudBackups(w http.ResponseWriter, r *http.Request) {
	if a.backups == nil {
		respondErr(w, r, state.ErrCloudDisabled)
		return
	}
	objs, err := a.backups.ListBackups(r.Context())
	if err != nil {
		storageFailed(w, r, err)
		return
	}
	if objs == nil {
		objs = []storage.Object{}
	}
	writeJSON(w, http.StatusOK, objs)
}

// CloudBackupLink returns a short-lived download URL for one backup.
func (a *API) CloudBackupLink(w http.ResponseWriter, r *http.Request) {
	key, ok := a.backupKey(w, r, r.URL.Query().Get("key"))
	if !ok {
		return
	}
	url, err := a.backups.PresignedURL(r.Context(), key, presignTTL)
	if err != nil {
		storageFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url":       url,
		"expiresAt": time.Now().Add(presignTTL).UTC().Format(time.RFC3339),
	})
}

// RestoreCloudBackup restores from a backup already in object storage.
func (a *API) RestoreCloudBackup(w http.ResponseWriter, r *http.Request) {
	var req backupKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	key, ok := a.backupKey(w, r, req.Key)
	if !ok {
		return
	}

	raw, err := a.backups.Download(r.Context(), key)
	if err != nil {
		storageFailed(w, r, err)
		return
	}
	var data models.BackupData
	if err := json.Unmarshal(raw, &data); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "stored backup is not valid JSON", Field: "key"})
		return
	}
	a.restore(w, r, data)
}

// DeleteCloudBackup removes one stored backup.
func (a *API) DeleteCloudBackup(w http.ResponseWriter, r *http.Request) {
	key, ok := a.backupKey(w, r, r.URL.Query().Get("key"))
	if !ok {
		return
	}
	if err := a.backups.Delete(r.Context(), key); err != nil {
		storageFailed(w, r, err)
		return
	}
	slog.Info("cloud backup deleted", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) restore(w http.ResponseWriter, r *http.Request, data models.BackupData) {
	if err := a.app.Restore(r.Context(), actorFrom(r), data); err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restoreResult{Archives: len(data.Archives), Categories: len(data.Categories)})
}

// storageFailed answers 502 for an object storage error.
func storageFailed(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("backup storage failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusBadGateway, "backup storage unavailable")
}

// backupKey checks that storage is configured and key names a backup
// object. It answers the request itself when it reports false.
func (a *API) backupKey(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	if a.backups == nil {
		respondErr(w, r, state.ErrCloudDisabled)
		return "", false
	}
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, storage.BackupPrefix) || strings.Contains(key, "..") || !strings.HasSuffix(key, ".json") {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "must name a stored backup", Field: "key"})
		return "", false
	}
	return key, true
}
