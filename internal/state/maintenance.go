// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"earsip/internal/apperr"
	"earsip/internal/category"
	"earsip/internal/models"
	"earsip/internal/storage"
)

// ErrCloudDisabled is returned by CloudSync when no backup store is
// configured.
var ErrCloudDisabled = errors.New("cloud backup storage is not configured")

// SyncResult describes a completed cloud sync.
type SyncResult struct {
	Key        string `json:"key"`
	Archives   int    `json:"archives"`
	LastSynced string `json:"lastSynced"`
}

// Backup returns the archives and categories as a backup document.
func (a *App) Backup() models.BackupData {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.backupLocked(a.now())
}

func (a *App) backupLocked(now time.Time) models.BackupData {
	return models.BackupData{
		Version:    models.BackupVersion,
		Timestamp:  now.UTC().Format(time.RFC3339),
		Archives:   cloneArchives(a.snap.archives),
		Categories: append([]models.Category{}, a.snap.categories...),
	}
}

// Restore replaces archives and categories with the contents of a backup.
// The category tree is checked before anything is replaced.
func (a *App) Restore(ctx context.Context, actor *Actor, data models.BackupData) error {
	if data.Version != "" && data.Version != models.BackupVersion {
		return apperr.Validation("version", fmt.Sprintf("unsupported backup version %q", data.Version))
	}
	if data.Archives == nil || data.Categories == nil {
		return apperr.Validation("backup", "archives and categories are required")
	}
	if err := category.Validate(data.Categories); err != nil {
		return err
	}
	ids := make(map[string]bool, len(data.Archives))
	for i, d := range data.Archives {
		if d.ID == "" {
			return apperr.Validation("archives", fmt.Sprintf("archive at position %d has no id", i))
		}
		if ids[d.ID] {
			return apperr.Validation("archives", "duplicate archive id "+d.ID)
		}
		ids[d.ID] = true
	}

	return a.update(ctx, func(t *tx) error {
		t.archives = cloneArchives(data.Archives)
		t.categories = append([]models.Category{}, data.Categories...)
		t.touch(partArchives | partCategories)
		t.log(actor, models.ActionRestore, fmt.Sprintf("Pulihkan cadangan: %d arsip, %d kategori", len(data.Archives), len(data.Categories)))
		return nil
	})
}

// CloudSync uploads a backup to object storage and marks every archive as
// synced.
func (a *App) CloudSync(ctx context.Context, actor *Actor) (SyncResult, error) {
	if a.backups == nil {
		return SyncResult{}, ErrCloudDisabled
	}

	var res SyncResult
	err := a.update(ctx, func(t *tx) error {
		synced := t.now.UTC().Format(time.RFC3339)
		docs := cloneArchives(t.archives)
		for i := range docs {
			docs[i].IsCloudSynced = true
			docs[i].LastSynced = synced
		}

		payload, err := json.Marshal(models.BackupData{
			Version:    models.BackupVersion,
			Timestamp:  synced,
			Archives:   docs,
			Categories: t.categories,
		})
		if err != nil {
			return fmt.Errorf("encode backup: %w", err)
		}
		key := storage.BackupKey(t.now)
		if err := a.backups.Upload(ctx, key, payload); err != nil {
			return fmt.Errorf("cloud sync: %w", err)
		}

		t.archives = docs
		t.touch(partArchives)
		t.log(actor, models.ActionCloudSync, fmt.Sprintf("Sinkronisasi Cloud: %d metadata dokumen dicadangkan", len(docs)))
		res = SyncResult{Key: key, Archives: len(docs), LastSynced: synced}
		return nil
	})
	return res, err
}
