// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"earsip/internal/models"
	"earsip/internal/state"
)

// settingsView is AppSettings without the audit trail, which has its own
// endpoint.
type settingsView struct {
	AppName    string               `json:"appName"`
	ThemeColor models.ThemeColor    `json:"themeColor"`
	Menus      []models.NavMenuItem `json:"menus"`
}

func viewSettings(s models.AppSettings) settingsView {
	return settingsView{AppName: s.AppName, ThemeColor: s.ThemeColor, Menus: s.Menus}
}

// GetSettings returns the application settings without the audit trail.
func (a *API) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewSettings(a.app.Settings()))
}

// UpdateSettings applies a partial settings update. Administrators only.
func (a *API) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in state.SettingsInput
	if !decodeJSON(w, r, &in) {
		return
	}

	s, err := a.app.UpdateSettings(r.Context(), actorFrom(r), in)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewSettings(s))
}

// AuditLogs returns the audit trail, newest first.
func (a *API) AuditLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.app.AuditLogs())
}

// DownloadHistory returns the download entries of the audit trail.
func (a *API) DownloadHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.app.DownloadHistory())
}

// ClearDownloadHistory drops the download entries. Administrators only.
func (a *API) ClearDownloadHistory(w http.ResponseWriter, r *http.Request) {
	if err := a.app.ClearDownloadHistory(r.Context(), actorFrom(r)); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
