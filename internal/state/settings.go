// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package state

import (
	"context"
	"strings"

	"earsip/internal/apperr"
	"earsip/internal/models"
)

// SettingsInput carries the editable settings. Nil fields are left as they
// are.
type SettingsInput struct {
	AppName    *string              `json:"appName"`
	ThemeColor *models.ThemeColor   `json:"themeColor"`
	Menus      []models.NavMenuItem `json:"menus"`
}

// Settings returns a copy of the application settings.
func (a *App) Settings() models.AppSettings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.settings.Clone()
}

// UpdateSettings applies in to the settings.
func (a *App) UpdateSettings(ctx context.Context, actor *Actor, in SettingsInput) (models.AppSettings, error) {
	if in.AppName != nil && strings.TrimSpace(*in.AppName) == "" {
		return models.AppSettings{}, apperr.Validation("appName", "is required")
	}
	if in.ThemeColor != nil && !in.ThemeColor.Valid() {
		return models.AppSettings{}, apperr.Validation("themeColor", "must be one of indigo, emerald, rose, amber or slate")
	}
	seen := make(map[models.ViewType]bool, len(in.Menus))
	for _, m := range in.Menus {
		if m.ID == "" || strings.TrimSpace(m.Label) == "" {
			return models.AppSettings{}, apperr.Validation("menus", "every menu needs an id and a label")
		}
		if seen[m.ID] {
			return models.AppSettings{}, apperr.Validation("menus", "duplicate menu "+string(m.ID))
		}
		seen[m.ID] = true
	}

	var out models.AppSettings
	err := a.update(ctx, func(t *tx) error {
		s := t.settings.Clone()
		if in.AppName != nil {
			s.AppName = strings.TrimSpace(*in.AppName)
		}
		if in.ThemeColor != nil {
			s.ThemeColor = *in.ThemeColor
		}
		if in.Menus != nil {
			s.Menus = append([]models.NavMenuItem(nil), in.Menus...)
		}
		t.settings = s
		t.touch(partSettings)
		t.log(actor, models.ActionSettings, "Perbarui pengaturan aplikasi")
		out = t.settings.Clone()
		return nil
	})
	return out, err
}

// AuditLogs returns the audit trail, newest first.
func (a *App) AuditLogs() []models.AuditLog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.AuditLog{}, a.snap.settings.AuditLogs...)
}

// DownloadHistory returns the download entries of the audit trail.
func (a *App) DownloadHistory() []models.AuditLog {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := []models.AuditLog{}
	for _, l := range a.snap.settings.AuditLogs {
		if l.Action == models.ActionDownload {
			out = append(out, l)
		}
	}
	return out
}

// ClearDownloadHistory drops every download entry from the audit trail.
func (a *App) ClearDownloadHistory(ctx context.Context, actor *Actor) error {
	return a.update(ctx, func(t *tx) error {
		s := t.settings.Clone()
		kept := make([]models.AuditLog, 0, len(s.AuditLogs))
		for _, l := range s.AuditLogs {
			if l.Action != models.ActionDownload {
				kept = append(kept, l)
			}
		}
		s.AuditLogs = kept
		t.settings = s
		t.touch(partSettings)
		t.log(actor, models.ActionSystem, "Membersihkan riwayat unduhan")
		return nil
	})
}
