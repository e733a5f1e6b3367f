// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package state is the application-state controller. An App owns the
// archive, category, user and settings collections, applies every mutation
// under one lock, writes the affected snapshots back to the key-value store
// and records an audit entry for the acting user.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"earsip/internal/models"
	"earsip/internal/store"
)

// Snapshot keys.
const (
	KeyArchives   = "ad_archives"
	KeyCategories = "ad_categories"
	KeyUsers      = "ad_users"
	KeySettings   = "ad_settings"
)

// MaxAuditLogs caps the audit trail; older entries are dropped.
const MaxAuditLogs = 100

// Actor identifies the user performing a mutation. A nil *Actor performs
// the mutation without an audit entry.
type Actor struct {
	ID   string
	Name string
}

// BackupStore receives cloud backups.
type BackupStore interface {
	Upload(ctx context.Context, key string, data []byte) error
}

// Options configures an App.
type Options struct {
	// AdminPassword is the password of the seeded administrator.
	AdminPassword string
	// Backups is the cloud backup target. Nil disables CloudSync.
	Backups BackupStore
}

type part uint8

const (
	partArchives part = 1 << iota
	partCategories
	partUsers
	partSettings
)

type snapshot struct {
	archives   []models.ArchiveDocument
	categories []models.Category
	users      []models.User
	settings   models.AppSettings
}

// tx is a pending change set. Operations replace fields of the embedded
// snapshot with new values and mark them dirty; the committed snapshot is
// never modified in place.
type tx struct {
	snapshot
	dirty part
	now   time.Time
}

func (t *tx) touch(p part) { t.dirty |= p }

// log prepends an audit entry when there is an actor.
func (t *tx) log(actor *Actor, action, details string) {
	if actor == nil {
		return
	}
	entry := models.AuditLog{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		UserName:  actor.Name,
		Action:    action,
		Timestamp: t.now.Format(time.RFC3339),
		Details:   details,
	}
	logs := make([]models.AuditLog, 0, len(t.settings.AuditLogs)+1)
	logs = append(logs, entry)
	logs = append(logs, t.settings.AuditLogs...)
	if len(logs) > MaxAuditLogs {
		logs = logs[:MaxAuditLogs]
	}
	settings := t.settings.Clone()
	settings.AuditLogs = logs
	t.settings = settings
	t.touch(partSettings)
}

// App is the application-state controller.
type App struct {
	mu   sync.RWMutex
	snap snapshot

	archives   *store.Collection[[]models.ArchiveDocument]
	categories *store.Collection[[]models.Category]
	users      *store.Collection[[]models.User]
	settings   *store.Collection[models.AppSettings]

	backups BackupStore
	now     func() time.Time
}

// New creates an App over kv. Call Load before use.
func New(kv store.KV, opts Options) (*App, error) {
	users, err := SeedUsers(opts.AdminPassword)
	if err != nil {
		return nil, err
	}
	return &App{
		archives:   store.NewCollection(kv, KeyArchives, SeedArchives),
		categories: store.NewCollection(kv, KeyCategories, SeedCategories),
		users:      store.NewCollection(kv, KeyUsers, func() []models.User { return cloneUsers(users) }),
		settings:   store.NewCollection(kv, KeySettings, DefaultSettings),
		backups:    opts.Backups,
		now:        time.Now,
	}, nil
}

// Load reads every collection from the store. Missing or corrupt snapshots
// are replaced by their seed.
func (a *App) Load(ctx context.Context) error {
	archives, err := a.archives.Load(ctx)
	if err != nil {
		return err
	}
	categories, err := a.categories.Load(ctx)
	if err != nil {
		return err
	}
	users, err := a.users.Load(ctx)
	if err != nil {
		return err
	}
	settings, err := a.settings.Load(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.snap = snapshot{
		archives:   archives,
		categories: categories,
		users:      users,
		settings:   settings,
	}
	a.mu.Unlock()

	slog.Info("state loaded",
		"archives", len(archives),
		"categories", len(categories),
		"users", len(users),
		"audit_logs", len(settings.AuditLogs),
	)
	return nil
}

// update runs fn against a copy of the current snapshot and commits the
// result. Nothing is saved or published when fn returns an error.
func (a *App) update(ctx context.Context, fn func(t *tx) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := &tx{snapshot: a.snap, now: a.now()}
	if err := fn(t); err != nil {
		return err
	}
	if t.dirty == 0 {
		return nil
	}
	if err := a.commit(ctx, a.snap, t.snapshot, t.dirty); err != nil {
		return err
	}
	a.snap = t.snapshot
	return nil
}

// commit saves the dirty collections of next. If a save fails, the
// collections already written are restored from prev.
func (a *App) commit(ctx context.Context, prev, next snapshot, dirty part) error {
	var saved part
	for _, p := range []part{partArchives, partCategories, partUsers, partSettings} {
		if dirty&p == 0 {
			continue
		}
		if err := a.save(ctx, next, p); err != nil {
			a.rollback(ctx, prev, saved)
			return fmt.Errorf("commit: %w", err)
		}
		saved |= p
	}
	return nil
}

func (a *App) rollback(ctx context.Context, prev snapshot, saved part) {
	for _, p := range []part{partArchives, partCategories, partUsers, partSettings} {
		if saved&p == 0 {
			continue
		}
		if err := a.save(ctx, prev, p); err != nil {
			slog.Error("rollback failed, store may diverge until next save", "error", err)
		}
	}
}

func (a *App) save(ctx context.Context, s snapshot, p part) error {
	switch p {
	case partArchives:
		return a.archives.Save(ctx, s.archives)
	case partCategories:
		return a.categories.Save(ctx, s.categories)
	case partUsers:
		return a.users.Save(ctx, s.users)
	case partSettings:
		return a.settings.Save(ctx, s.settings)
	}
	return nil
}

// today formats t as a calendar date.
func today(t time.Time) string {
	return t.Format(time.DateOnly)
}

func cloneArchives(docs []models.ArchiveDocument) []models.ArchiveDocument {
	out := make([]models.ArchiveDocument, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out
}

func cloneUsers(users []models.User) []models.User {
	return append([]models.User(nil), users...)
}
