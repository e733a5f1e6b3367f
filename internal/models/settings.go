// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ThemeColor is the accent colour of the client UI.
type ThemeColor string

const (
	ThemeIndigo  ThemeColor = "indigo"
	ThemeEmerald ThemeColor = "emerald"
	ThemeRose    ThemeColor = "rose"
	ThemeAmber   ThemeColor = "amber"
	ThemeSlate   ThemeColor = "slate"
)

// Valid reports whether c is a supported theme colour.
func (c ThemeColor) Valid() bool {
	switch c {
	case ThemeIndigo, ThemeEmerald, ThemeRose, ThemeAmber, ThemeSlate:
		return true
	}
	return false
}

// ViewType identifies a client screen.
type ViewType string

const (
	ViewDashboard       ViewType = "DASHBOARD"
	ViewList            ViewType = "LIST"
	ViewUpload          ViewType = "UPLOAD"
	ViewAISearch        ViewType = "AI_SEARCH"
	ViewCategories      ViewType = "CATEGORIES"
	ViewMaintenance     ViewType = "MAINTENANCE"
	ViewProfile         ViewType = "PROFILE"
	ViewSettings        ViewType = "SETTINGS"
	ViewFileManager     ViewType = "FILE_MANAGER"
	ViewUsers           ViewType = "USERS"
	ViewDownloadHistory ViewType = "DOWNLOAD_HISTORY"
)

// NavMenuItem is one entry of the configurable navigation menu.
type NavMenuItem struct {
	ID      ViewType `json:"id"`
	Label   string   `json:"label"`
	Icon    string   `json:"icon"`
	Show    bool     `json:"show"`
	Section string   `json:"section,omitempty"`
}

// Audit actions recorded by the application controller.
const (
	ActionUpload         = "UPLOAD"
	ActionEdit           = "EDIT"
	ActionDelete         = "DELETE"
	ActionDeleteAll      = "DELETE_ALL"
	ActionDownload       = "DOWNLOAD"
	ActionUserAdd        = "USER_ADD"
	ActionUserUpdate     = "USER_UPDATE"
	ActionUserDelete     = "USER_DELETE"
	ActionSystem         = "SYSTEM"
	ActionCategoryAdd    = "CATEGORY_ADD"
	ActionCategoryEdit   = "CATEGORY_EDIT"
	ActionCategoryDelete = "CATEGORY_DELETE"
	ActionCategoryMove   = "CATEGORY_MOVE"
	ActionRestore        = "RESTORE"
	ActionSettings       = "SETTINGS"
	ActionCloudSync      = "CLOUD_SYNC"
)

// AuditLog is one entry of the activity log.
type AuditLog struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Details   string `json:"details"`
}

// AppSettings holds the client configuration and the audit log.
type AppSettings struct {
	AppName    string        `json:"appName"`
	ThemeColor ThemeColor    `json:"themeColor"`
	Menus      []NavMenuItem `json:"menus"`
	AuditLogs  []AuditLog    `json:"auditLogs"`
}

// Clone returns a deep copy of the settings.
func (s AppSettings) Clone() AppSettings {
	c := s
	c.Menus = append([]NavMenuItem(nil), s.Menus...)
	c.AuditLogs = append([]AuditLog(nil), s.AuditLogs...)
	return c
}
