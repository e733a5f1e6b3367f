// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"earsip/internal/apperr"
	"earsip/internal/category"
	"earsip/internal/models"
	"earsip/internal/store"
)

var (
	fixedNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	admin    = &Actor{ID: "admin-1", Name: "Administrator"}
)

func newApp(t *testing.T, kv store.KV, opts Options) *App {
	t.Helper()
	a, err := New(kv, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.now = func() time.Time { return fixedNow }
	if err := a.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return a
}

func ptr(s string) *string { return &s }

// failKV fails every write to one key.
type failKV struct {
	*store.Memory
	key string
}

func (f *failKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == f.key {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value, ttl)
}

type fakeBackups struct {
	keys []string
	body []byte
	err  error
}

func (f *fakeBackups) Upload(_ context.Context, key string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.body = data
	return nil
}

func TestLoadSeedsMissingCollections(t *testing.T) {
	a := newApp(t, store.NewMemory(), Options{})

	if diff := cmp.Diff(SeedCategories(), a.Categories()); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
	if got := len(a.Archives(ArchiveFilter{})); got != 3 {
		t.Errorf("archives: got %d, want 3", got)
	}
	if got := a.Settings().AppName; got != "DATA ARSIP UNIVERSITAS YPIB MAJALENGKA" {
		t.Errorf("app name: %q", got)
	}
	users := a.Users()
	if len(users) != 1 || users[0].Email != "admin@e-arsip.com" || users[0].PasswordHash != "" {
		t.Errorf("users: %+v", users)
	}
}

func TestLoadFallsBackOnCorruptSnapshot(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	kv.Set(ctx, KeyCategories, []byte("{not json"), 0)
	kv.Set(ctx, KeyArchives, []byte(`[]`), 0)

	a := newApp(t, kv, Options{})
	if diff := cmp.Diff(SeedCategories(), a.Categories()); diff != "" {
		t.Errorf("corrupt categories should fall back to seed (-want +got):\n%s", diff)
	}
	if got := a.Archives(ArchiveFilter{}); len(got) != 0 {
		t.Errorf("stored empty archive list should win over the seed, got %d", len(got))
	}
}

func TestMutationsPersist(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	a := newApp(t, kv, Options{})

	sub, err := a.AddCategory(ctx, admin, "Sub", ptr("cat-dasar"))
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if sub.Order != 0 {
		t.Errorf("first child order: got %d", sub.Order)
	}

	b := newApp(t, kv, Options{})
	if diff := cmp.Diff(a.Categories(), b.Categories()); diff != "" {
		t.Errorf("reloaded categories differ (-a +b):\n%s", diff)
	}
	logs := b.AuditLogs()
	if len(logs) != 1 || logs[0].Action != models.ActionCategoryAdd || logs[0].UserID != "admin-1" {
		t.Errorf("audit logs after reload: %+v", logs)
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	kv := &failKV{Memory: store.NewMemory(), key: KeySettings}
	ctx := context.Background()
	a := newApp(t, kv, Options{})
	before := a.Categories()

	_, err := a.AddCategory(ctx, admin, "Baru", nil)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected save error, got %v", err)
	}
	if diff := cmp.Diff(before, a.Categories()); diff != "" {
		t.Errorf("in-memory snapshot changed after failed save (-want +got):\n%s", diff)
	}

	// The categories write went through before settings failed; rollback
	// must have restored it.
	b := newApp(t, kv, Options{})
	if diff := cmp.Diff(before, b.Categories()); diff != "" {
		t.Errorf("stored categories not rolled back (-want +got):\n%s", diff)
	}

	// Without an actor nothing touches settings, so the write succeeds.
	if _, err := a.AddCategory(ctx, nil, "Baru", nil); err != nil {
		t.Errorf("AddCategory without actor: %v", err)
	}
}

func TestStructuralErrorsLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})
	sub, _ := a.AddCategory(ctx, admin, "Sub", ptr("cat-dasar"))
	before := a.Categories()
	logs := len(a.AuditLogs())

	tests := []struct {
		name  string
		run   func() error
		check func(error) bool
	}{
		{"empty name", func() error { _, err := a.AddCategory(ctx, admin, "  ", nil); return err }, apperr.IsValidation},
		{"missing parent", func() error { _, err := a.AddCategory(ctx, admin, "X", ptr("nope")); return err }, apperr.IsNotFound},
		{"self parent", func() error { _, err := a.UpdateCategory(ctx, admin, "cat-dasar", "Arsip Dasar", ptr("cat-dasar")); return err }, apperr.IsCycle},
		{"descendant parent", func() error { _, err := a.UpdateCategory(ctx, admin, "cat-dasar", "Arsip Dasar", ptr(sub.ID)); return err }, apperr.IsCycle},
		{"delete missing", func() error { _, err := a.DeleteCategory(ctx, admin, "nope"); return err }, apperr.IsNotFound},
		{"bad direction", func() error { _, err := a.MoveCategory(ctx, admin, "cat-sk", "sideways"); return err }, apperr.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(before, a.Categories()); diff != "" {
				t.Errorf("snapshot changed (-want +got):\n%s", diff)
			}
			if got := len(a.AuditLogs()); got != logs {
				t.Errorf("audit log grew to %d", got)
			}
		})
	}
}

func TestUpdateCategoryRenamesDocuments(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})

	c, err := a.UpdateCategory(ctx, admin, "cat-dasar", "Arsip Pokok", nil)
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if c.Name != "Arsip Pokok" || c.Order != 0 {
		t.Errorf("updated: %+v", c)
	}
	counts := a.DocumentCounts()
	if counts["Arsip Pokok"] != 2 || counts["Arsip Dasar"] != 0 || counts["Arsip Internal"] != 1 {
		t.Errorf("counts after rename: %v", counts)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})
	b, _ := a.AddCategory(ctx, admin, "B", ptr("cat-dasar"))
	c, _ := a.AddCategory(ctx, admin, "C", &b.ID)

	removed, err := a.DeleteCategory(ctx, admin, "cat-dasar")
	if err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if diff := cmp.Diff([]string{"cat-dasar", b.ID, c.ID}, removed); diff != "" {
		t.Errorf("removed (-want +got):\n%s", diff)
	}
	if got := len(a.Categories()); got != 7 {
		t.Errorf("remaining categories: got %d, want 7", got)
	}
	if got := len(a.Archives(ArchiveFilter{})); got != 3 {
		t.Errorf("documents must survive category deletion, got %d", got)
	}
}

func TestMoveCategoryAndTree(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})

	moved, err := a.MoveCategory(ctx, admin, "cat-internal", category.Up)
	if err != nil || !moved {
		t.Fatalf("MoveCategory: %v, %v", moved, err)
	}
	tree := a.CategoryTree(nil)
	if tree[0].ID != "cat-internal" || tree[1].ID != "cat-dasar" {
		t.Errorf("tree head: %s, %s", tree[0].ID, tree[1].ID)
	}
	if tree[0].CanMoveUp || !tree[0].CanMoveDown || tree[len(tree)-1].CanMoveDown {
		t.Errorf("move flags: %+v / %+v", tree[0], tree[len(tree)-1])
	}
	if tree[0].Documents != 1 || tree[1].Documents != 2 {
		t.Errorf("document counts: %d, %d", tree[0].Documents, tree[1].Documents)
	}

	logs := len(a.AuditLogs())
	moved, err = a.MoveCategory(ctx, admin, "cat-internal", category.Up)
	if err != nil || moved {
		t.Errorf("first up should be a no-op, got %v, %v", moved, err)
	}
	if got := len(a.AuditLogs()); got != logs {
		t.Error("no-op move must not be logged")
	}
}

func TestCategoryTreeSubtree(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})
	b, _ := a.AddCategory(ctx, nil, "B", ptr("cat-dasar"))
	a.AddCategory(ctx, nil, "C", &b.ID)

	tree := a.CategoryTree(ptr("cat-dasar"))
	if len(tree) != 2 || tree[0].Name != "B" || tree[0].Depth != 0 || tree[1].Name != "C" || tree[1].Depth != 1 {
		t.Errorf("subtree: %+v", tree)
	}
}

func TestArchivesFilter(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})
	sub, _ := a.AddCategory(ctx, nil, "Arsip Dasar Lama", ptr("cat-dasar"))
	a.AddArchive(ctx, nil, models.ArchiveDocument{Title: "Memo Lama", Category: sub.Name})

	tests := []struct {
		name   string
		filter ArchiveFilter
		want   int
	}{
		{"all", ArchiveFilter{}, 4},
		{"category with sub-categories", ArchiveFilter{CategoryID: "cat-dasar"}, 3},
		{"leaf category", ArchiveFilter{CategoryID: sub.ID}, 1},
		{"unknown category", ArchiveFilter{CategoryID: "nope"}, 0},
		{"title query ignores case", ArchiveFilter{Query: "LAPORAN"}, 1},
		{"description query", ArchiveFilter{Query: "unit 48"}, 2},
		{"document number query", ArchiveFilter{Query: "int-2023"}, 1},
		{"query within category", ArchiveFilter{CategoryID: "cat-dasar", Query: "482"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(a.Archives(tt.filter)); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestArchiveLifecycle(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})

	if _, err := a.AddArchive(ctx, admin, models.ArchiveDocument{Category: "Arsip Umum"}); !apperr.IsValidation(err) {
		t.Errorf("missing title: %v", err)
	}
	if _, err := a.AddArchive(ctx, admin, models.ArchiveDocument{Title: "X"}); !apperr.IsValidation(err) {
		t.Errorf("missing category: %v", err)
	}

	doc, err := a.AddArchive(ctx, admin, models.ArchiveDocument{Title: " SK Rektor ", Category: "Surat Keputusan"})
	if err != nil {
		t.Fatalf("AddArchive: %v", err)
	}
	if doc.ID == "" || doc.UploadDate != "2026-10-18" || doc.Title != "SK Rektor" || doc.Files == nil {
		t.Errorf("added: %+v", doc)
	}
	if first := a.Archives(ArchiveFilter{})[0]; first.ID != doc.ID {
		t.Errorf("new document should be first, got %s", first.ID)
	}
	if _, err := a.AddArchive(ctx, admin, doc); !apperr.IsConflict(err) {
		t.Errorf("duplicate id: %v", err)
	}

	doc.Description = "Penetapan panitia"
	doc.UploadDate = ""
	updated, err := a.UpdateArchive(ctx, admin, doc)
	if err != nil {
		t.Fatalf("UpdateArchive: %v", err)
	}
	if updated.Description != "Penetapan panitia" || updated.UploadDate != "2026-10-18" {
		t.Errorf("updated: %+v", updated)
	}
	if _, err := a.UpdateArchive(ctx, admin, models.ArchiveDocument{ID: "nope", Title: "x", Category: "y"}); !apperr.IsNotFound(err) {
		t.Errorf("update missing: %v", err)
	}

	if err := a.DeleteArchive(ctx, admin, doc.ID); err != nil {
		t.Fatalf("DeleteArchive: %v", err)
	}
	if _, err := a.Archive(doc.ID); !apperr.IsNotFound(err) {
		t.Errorf("Archive after delete: %v", err)
	}
	if err := a.DeleteArchive(ctx, admin, doc.ID); !apperr.IsNotFound(err) {
		t.Errorf("second delete: %v", err)
	}

	var actions []string
	for _, l := range a.AuditLogs() {
		actions = append(actions, l.Action+" "+l.Details)
	}
	want := []string{
		"DELETE Hapus arsip: SK Rektor",
		"EDIT Update metadata: SK Rektor",
		"UPLOAD Dokumen baru: SK Rektor",
	}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Errorf("audit trail (-want +got):\n%s", diff)
	}

	if err := a.ClearArchives(ctx, admin); err != nil {
		t.Fatalf("ClearArchives: %v", err)
	}
	if got := len(a.Archives(ArchiveFilter{})); got != 0 {
		t.Errorf("archives after clear: %d", got)
	}
	if a.AuditLogs()[0].Action != models.ActionDeleteAll {
		t.Errorf("clear not logged: %+v", a.AuditLogs()[0])
	}
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})

	local, err := a.Download(ctx, admin, "1", "")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if local.Filename != "201608-D482.pdf" || local.MimeType != "application/pdf" ||
		string(local.Body) != "Simulated physical file content for institutional record: 201608-D482.pdf" {
		t.Errorf("local: %+v", local)
	}

	cloud, err := a.Download(ctx, admin, "1", SourceCloud)
	if err != nil {
		t.Fatalf("Download cloud: %v", err)
	}
	if cloud.Filename != "[CLOUDSYNC]_201608-D482.pdf" || string(cloud.Body) != "Google Drive Cloud Content: 201608-D482.pdf" {
		t.Errorf("cloud: %+v", cloud)
	}

	if _, err := a.Download(ctx, admin, "1", "ftp"); !apperr.IsValidation(err) {
		t.Errorf("bad source: %v", err)
	}
	if _, err := a.Download(ctx, admin, "nope", ""); !apperr.IsNotFound(err) {
		t.Errorf("missing archive: %v", err)
	}
	doc, _ := a.AddArchive(ctx, nil, models.ArchiveDocument{Title: "Kosong", Category: "Arsip Umum"})
	if _, err := a.Download(ctx, admin, doc.ID, ""); !apperr.IsNotFound(err) {
		t.Errorf("document without files: %v", err)
	}

	history := a.DownloadHistory()
	if len(history) != 2 || history[0].Details != "Unduh file (Google Drive): 201608-D482.pdf" ||
		history[1].Details != "Unduh file (Local): 201608-D482.pdf" {
		t.Errorf("history: %+v", history)
	}
}

func TestAuditLogCap(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})
	for i := 0; i < MaxAuditLogs+5; i++ {
		if _, err := a.Download(ctx, admin, "3", ""); err != nil {
			t.Fatalf("Download %d: %v", i, err)
		}
	}
	a.ClearArchives(ctx, admin)

	logs := a.AuditLogs()
	if len(logs) != MaxAuditLogs {
		t.Fatalf("audit log length: got %d, want %d", len(logs), MaxAuditLogs)
	}
	if logs[0].Action != models.ActionDeleteAll {
		t.Errorf("newest entry should be first, got %s", logs[0].Action)
	}
	if logs[0].Timestamp != "2026-10-18T09:00:00Z" {
		t.Errorf("timestamp: %q", logs[0].Timestamp)
	}
}

func TestClearDownloadHistory(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})
	a.Download(ctx, admin, "1", "")
	a.AddCategory(ctx, admin, "Baru", nil)
	a.Download(ctx, admin, "2", "")

	if err := a.ClearDownloadHistory(ctx, admin); err != nil {
		t.Fatalf("ClearDownloadHistory: %v", err)
	}
	if got := a.DownloadHistory(); len(got) != 0 {
		t.Errorf("history not cleared: %+v", got)
	}
	var actions []string
	for _, l := range a.AuditLogs() {
		actions = append(actions, l.Action)
	}
	if diff := cmp.Diff([]string{models.ActionSystem, models.ActionCategoryAdd}, actions); diff != "" {
		t.Errorf("remaining logs (-want +got):\n%s", diff)
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{AdminPassword: "rahasia"})

	u, err := a.AddUser(ctx, admin, UserInput{Name: "Staf TU", Email: " Staf@YPIB.ac.id "})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if u.Status != models.StatusInvited || u.Role != models.RoleUser || u.JoinDate != "2026-10-18" ||
		u.Email != "staf@ypib.ac.id" || !strings.HasPrefix(u.ID, "user-") || len(u.ID) != len("user-")+8 {
		t.Errorf("invited user: %+v", u)
	}
	if u.Avatar != "https://i.pravatar.cc/150?u="+strings.TrimPrefix(u.ID, "user-") {
		t.Errorf("avatar: %q", u.Avatar)
	}
	if a.Users()[0].ID != u.ID {
		t.Error("new user should be listed first")
	}
	if _, err := a.AddUser(ctx, admin, UserInput{Name: "Dup", Email: "staf@ypib.ac.id"}); !apperr.IsConflict(err) {
		t.Errorf("duplicate email: %v", err)
	}
	if _, err := a.AddUser(ctx, admin, UserInput{Name: "X", Email: "not-an-email"}); !apperr.IsValidation(err) {
		t.Errorf("bad email: %v", err)
	}
	if _, err := a.AddUser(ctx, admin, UserInput{Name: "X", Email: "x@y.z", Role: "ROOT"}); !apperr.IsValidation(err) {
		t.Errorf("bad role: %v", err)
	}

	// Invited users have no password yet.
	if _, err := a.Authenticate("staf@ypib.ac.id", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("invited login: %v", err)
	}

	u, err = a.UpdateUser(ctx, admin, u.ID, UserInput{Name: "Staf Tata Usaha", Email: u.Email, Status: models.StatusActive, Password: "sandi123"})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if u.Name != "Staf Tata Usaha" || u.Status != models.StatusActive || u.PasswordHash != "" {
		t.Errorf("updated user: %+v", u)
	}
	got, err := a.Authenticate("STAF@ypib.ac.id", "sandi123")
	if err != nil || got.ID != u.ID {
		t.Errorf("Authenticate: %+v, %v", got, err)
	}

	if err := a.DeleteUser(ctx, admin, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := a.User(u.ID); !apperr.IsNotFound(err) {
		t.Errorf("User after delete: %v", err)
	}

	var details []string
	for _, l := range a.AuditLogs() {
		details = append(details, l.Details)
	}
	want := []string{
		"Hapus pengguna: staf@ypib.ac.id",
		"Perbarui profil: staf@ypib.ac.id",
		"Undang pengguna baru: staf@ypib.ac.id",
	}
	if diff := cmp.Diff(want, details); diff != "" {
		t.Errorf("audit (-want +got):\n%s", diff)
	}
}

func TestLastAdminGuard(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})

	err := a.DeleteUser(ctx, admin, "admin-1")
	if !apperr.IsConflict(err) || err.Error() != "Tidak dapat menghapus Administrator terakhir." {
		t.Errorf("delete last admin: %v", err)
	}
	if _, err := a.UpdateUser(ctx, admin, "admin-1", UserInput{Name: "Administrator", Email: "admin@e-arsip.com", Role: models.RoleUser}); !apperr.IsConflict(err) {
		t.Errorf("demote last admin: %v", err)
	}

	second, err := a.AddUser(ctx, admin, UserInput{Name: "Wakil", Email: "wakil@e-arsip.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := a.DeleteUser(ctx, admin, "admin-1"); err != nil {
		t.Errorf("delete with a second admin: %v", err)
	}
	if err := a.DeleteUser(ctx, admin, second.ID); !apperr.IsConflict(err) {
		t.Errorf("delete the remaining admin: %v", err)
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{AdminPassword: "rahasia"})

	if _, err := a.Authenticate("admin@e-arsip.com", "rahasia"); err != nil {
		t.Errorf("seeded admin login: %v", err)
	}
	if _, err := a.Authenticate("admin@e-arsip.com", "salah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", err)
	}
	if _, err := a.Authenticate("nobody@e-arsip.com", "rahasia"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: %v", err)
	}

	if _, err := a.Register(ctx, "Mahasiswa", "mhs@ypib.ac.id", "123"); !apperr.IsValidation(err) {
		t.Errorf("short password: %v", err)
	}
	u, err := a.Register(ctx, "Mahasiswa", "mhs@ypib.ac.id", "kuliah2026")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Status != models.StatusActive || u.Role != models.RoleUser {
		t.Errorf("registered: %+v", u)
	}
	if len(a.AuditLogs()) != 0 {
		t.Error("self-registration has no actor and must not be logged")
	}
	if _, err := a.Register(ctx, "Lagi", "MHS@ypib.ac.id", "kuliah2026"); !apperr.IsConflict(err) {
		t.Errorf("duplicate registration: %v", err)
	}

	a.UpdateUser(ctx, admin, u.ID, UserInput{Name: u.Name, Email: u.Email, Status: models.StatusSuspended})
	if _, err := a.Authenticate("mhs@ypib.ac.id", "kuliah2026"); !errors.Is(err, ErrSuspended) {
		t.Errorf("suspended login: %v", err)
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})

	pink := models.ThemeColor("pink")
	if _, err := a.UpdateSettings(ctx, admin, SettingsInput{ThemeColor: &pink}); !apperr.IsValidation(err) {
		t.Errorf("bad theme: %v", err)
	}
	if _, err := a.UpdateSettings(ctx, admin, SettingsInput{AppName: ptr(" ")}); !apperr.IsValidation(err) {
		t.Errorf("empty name: %v", err)
	}
	dup := []models.NavMenuItem{{ID: models.ViewList, Label: "A"}, {ID: models.ViewList, Label: "B"}}
	if _, err := a.UpdateSettings(ctx, admin, SettingsInput{Menus: dup}); !apperr.IsValidation(err) {
		t.Errorf("duplicate menus: %v", err)
	}

	rose := models.ThemeRose
	s, err := a.UpdateSettings(ctx, admin, SettingsInput{AppName: ptr("Arsip Fakultas"), ThemeColor: &rose})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if s.AppName != "Arsip Fakultas" || s.ThemeColor != models.ThemeRose || len(s.Menus) != 9 {
		t.Errorf("settings: %+v", s)
	}
	if len(s.AuditLogs) != 1 || s.AuditLogs[0].Action != models.ActionSettings {
		t.Errorf("settings change should be logged: %+v", s.AuditLogs)
	}

	s.AppName = "mutated"
	if a.Settings().AppName != "Arsip Fakultas" {
		t.Error("Settings must return a copy")
	}
}

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})

	data := a.Backup()
	if data.Version != models.BackupVersion || data.Timestamp != "2026-10-18T09:00:00Z" ||
		len(data.Archives) != 3 || len(data.Categories) != 8 {
		t.Errorf("backup: %+v", data)
	}

	a.ClearArchives(ctx, admin)
	a.AddCategory(ctx, admin, "Sementara", nil)

	if err := a.Restore(ctx, admin, data); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if diff := cmp.Diff(data.Categories, a.Categories()); diff != "" {
		t.Errorf("restored categories (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(data.Archives, a.Archives(ArchiveFilter{})); diff != "" {
		t.Errorf("restored archives (-want +got):\n%s", diff)
	}
	if a.AuditLogs()[0].Action != models.ActionRestore {
		t.Errorf("restore not logged: %+v", a.AuditLogs()[0])
	}
}

func TestRestoreRejectsInvalidBackups(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})
	before := a.Backup()

	cyclic := []models.Category{
		{ID: "a", Name: "A", ParentID: ptr("b")},
		{ID: "b", Name: "B", ParentID: ptr("a")},
	}
	tests := []struct {
		name string
		data models.BackupData
		ok   func(error) bool
	}{
		{"wrong version", models.BackupData{Version: "2.0.0", Archives: before.Archives, Categories: before.Categories}, apperr.IsValidation},
		{"missing archives", models.BackupData{Categories: before.Categories}, apperr.IsValidation},
		{"cyclic tree", models.BackupData{Archives: before.Archives, Categories: cyclic}, apperr.IsCycle},
		{"dangling parent", models.BackupData{Archives: before.Archives, Categories: []models.Category{{ID: "a", Name: "A", ParentID: ptr("zz")}}}, apperr.IsNotFound},
		{"duplicate archive id", models.BackupData{Archives: []models.ArchiveDocument{{ID: "1"}, {ID: "1"}}, Categories: before.Categories}, apperr.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.Restore(ctx, admin, tt.data); !tt.ok(err) {
				t.Errorf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(before, a.Backup()); diff != "" {
				t.Errorf("state changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBackupRestoreAfterTreeEdits(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})

	if _, err := a.DeleteCategory(ctx, admin, "cat-dasar"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	added, err := a.AddCategory(ctx, admin, "Baru", nil)
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	tenaga, _ := category.Find(a.Categories(), "cat-tenaga")
	if added.Order <= tenaga.Order {
		t.Errorf("new order %d does not follow cat-tenaga (%d)", added.Order, tenaga.Order)
	}
	if err := category.Validate(a.Categories()); err != nil {
		t.Fatalf("Validate after Add: %v", err)
	}

	moved, err := a.MoveCategory(ctx, admin, added.ID, category.Up)
	if err != nil || !moved {
		t.Fatalf("MoveCategory: moved=%v err=%v", moved, err)
	}
	got, _ := category.Find(a.Categories(), added.ID)
	tenaga, _ = category.Find(a.Categories(), "cat-tenaga")
	if got.Order >= tenaga.Order {
		t.Errorf("after move up: %s=%d cat-tenaga=%d", added.ID, got.Order, tenaga.Order)
	}

	data := a.Backup()
	if err := a.Restore(ctx, admin, data); err != nil {
		t.Fatalf("Restore(own backup): %v", err)
	}
	if diff := cmp.Diff(data.Categories, a.Categories()); diff != "" {
		t.Errorf("categories after restore (-want +got):\n%s", diff)
	}
}

func TestCategoryNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, store.NewMemory(), Options{})
	before := a.Backup()

	if _, err := a.AddCategory(ctx, admin, "arsip dasar", ptr("cat-umum")); !apperr.IsConflict(err) {
		t.Errorf("AddCategory duplicate: %v", err)
	}
	if _, err := a.UpdateCategory(ctx, admin, "cat-internal", "Arsip Dasar", nil); !apperr.IsConflict(err) {
		t.Errorf("UpdateCategory duplicate: %v", err)
	}
	if diff := cmp.Diff(before, a.Backup()); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}

	// Changing only the case of a category's own name is allowed.
	if _, err := a.UpdateCategory(ctx, admin, "cat-dasar", "ARSIP DASAR", nil); err != nil {
		t.Errorf("rename own case: %v", err)
	}
	if a.DocumentCounts()["ARSIP DASAR"] != 2 {
		t.Errorf("counts = %v", a.DocumentCounts())
	}
}

func TestCloudSync(t *testing.T) {
	ctx := context.Background()

	if _, err := newApp(t, store.NewMemory(), Options{}).CloudSync(ctx, admin); !errors.Is(err, ErrCloudDisabled) {
		t.Errorf("without storage: %v", err)
	}

	backups := &fakeBackups{}
	a := newApp(t, store.NewMemory(), Options{Backups: backups})
	res, err := a.CloudSync(ctx, admin)
	if err != nil {
		t.Fatalf("CloudSync: %v", err)
	}
	if res.Archives != 3 || res.Key != "backups/Backup_Arsip_YPIB_2026-10-18T090000Z.json" {
		t.Errorf("result: %+v", res)
	}
	for _, d := range a.Archives(ArchiveFilter{}) {
		if !d.IsCloudSynced || d.LastSynced != "2026-10-18T09:00:00Z" {
			t.Errorf("archive %s not marked synced: %+v", d.ID, d)
		}
	}
	var uploaded models.BackupData
	if err := json.Unmarshal(backups.body, &uploaded); err != nil {
		t.Fatalf("uploaded body: %v", err)
	}
	if len(uploaded.Archives) != 3 || len(uploaded.Categories) != 8 {
		t.Errorf("uploaded backup: %d archives, %d categories", len(uploaded.Archives), len(uploaded.Categories))
	}

	failing := &fakeBackups{err: fmt.Errorf("connection refused")}
	b := newApp(t, store.NewMemory(), Options{Backups: failing})
	if _, err := b.CloudSync(ctx, admin); err == nil {
		t.Fatal("expected upload error")
	}
	for _, d := range b.Archives(ArchiveFilter{}) {
		if d.IsCloudSynced {
			t.Error("failed sync must not mark archives")
		}
	}
}
