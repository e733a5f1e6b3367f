// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package state

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"earsip/internal/models"
)

// DefaultAdminPassword is used for the seeded administrator when none is
// configured. Change it after the first login.
const DefaultAdminPassword = "admin"

// SeedCategories returns the initial classification tree.
func SeedCategories() []models.Category {
	names := []struct{ id, name string }{
		{"cat-dasar", "Arsip Dasar"},
		{"cat-internal", "Arsip Internal"},
		{"cat-surat", "Arsip Surat"},
		{"cat-umum", "Arsip Umum"},
		{"cat-kerja", "Berkas Kerja"},
		{"cat-sehat", "Dokumen Kesehatan"},
		{"cat-sk", "Surat Keputusan"},
		{"cat-tenaga", "Urusan Tenaga"},
	}
	cats := make([]models.Category, len(names))
	for i, n := range names {
		cats[i] = models.Category{ID: n.id, Name: n.name, Order: i}
	}
	return cats
}

// SeedArchives returns the sample documents shipped with a fresh install.
func SeedArchives() []models.ArchiveDocument {
	return []models.ArchiveDocument{
		{
			ID:             "1",
			Title:          "Arsip 201608-D482",
			DocumentNumber: "201608-D482",
			Year:           "2016",
			Description:    "Dokumen arsip dasar unit 482",
			Category:       "Arsip Dasar",
			UploadDate:     "2020-01-28",
			TotalSize:      "77",
			Files:          []models.ArchiveFile{{ID: "f1", Name: "201608-D482.pdf", Size: "77 KB", MimeType: "application/pdf"}},
		},
		{
			ID:             "2",
			Title:          "Arsip 201608-D481",
			DocumentNumber: "201608-D481",
			Year:           "2016",
			Description:    "Dokumen arsip dasar unit 481",
			Category:       "Arsip Dasar",
			UploadDate:     "2020-01-28",
			TotalSize:      "67",
			Files:          []models.ArchiveFile{{ID: "f2", Name: "201608-D481.pdf", Size: "67 KB", MimeType: "application/pdf"}},
		},
		{
			ID:             "3",
			Title:          "Laporan Keuangan Internal",
			DocumentNumber: "INT-2023-001",
			Year:           "2023",
			Description:    "Rekapitulasi anggaran internal",
			Category:       "Arsip Internal",
			UploadDate:     "2023-10-15",
			TotalSize:      "124",
			Files:          []models.ArchiveFile{{ID: "f3", Name: "internal_report.pdf", Size: "124 KB", MimeType: "application/pdf"}},
		},
	}
}

// SeedUsers returns the initial administrator with a bcrypt hash of
// password, or of DefaultAdminPassword when password is empty.
func SeedUsers(password string) ([]models.User, error) {
	if password == "" {
		password = DefaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return []models.User{{
		ID:           "admin-1",
		Name:         "Administrator",
		Email:        "admin@e-arsip.com",
		Role:         models.RoleAdmin,
		Avatar:       "https://i.pravatar.cc/150?u=admin-1",
		Status:       models.StatusActive,
		JoinDate:     "2023-01-15",
		PasswordHash: string(hash),
	}}, nil
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() models.AppSettings {
	return models.AppSettings{
		AppName:    "DATA ARSIP UNIVERSITAS YPIB MAJALENGKA",
		ThemeColor: models.ThemeIndigo,
		AuditLogs:  []models.AuditLog{},
		Menus: []models.NavMenuItem{
			{ID: models.ViewDashboard, Label: "Dashboard", Icon: "LayoutDashboard", Show: true},
			{ID: models.ViewList, Label: "Eksplorasi Arsip", Icon: "FileText", Show: true},
			{ID: models.ViewFileManager, Label: "File Manager", Icon: "Archive", Show: true},
			{ID: models.ViewCategories, Label: "Kategori Arsip", Icon: "Tags", Show: true},
			{ID: models.ViewAISearch, Label: "AI Search Assistant", Icon: "Zap", Show: true},
			{ID: models.ViewDownloadHistory, Label: "Log Unduhan", Icon: "History", Show: true},
			{ID: models.ViewUsers, Label: "User Management", Icon: "UserIcon", Show: true},
			{ID: models.ViewSettings, Label: "App Settings", Icon: "Settings", Show: true},
			{ID: models.ViewMaintenance, Label: "Sistem & Backup", Icon: "Database", Show: true},
		},
	}
}
