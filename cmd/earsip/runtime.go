// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"earsip/internal/cache"
	"earsip/internal/config"
	"earsip/internal/database"
	"earsip/internal/state"
	"earsip/internal/storage"
	"earsip/internal/store"
)

// runtime holds the services shared by every command.
type runtime struct {
	cfg     *config.Config
	kv      store.KV
	db      *sql.DB
	valkey  *redis.Client
	backups *storage.Client
	app     *state.App
}

// openRuntime loads configuration, opens the snapshot store and loads the
// application state.
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "store", cfg.StoreBackend)

	rt := &runtime{cfg: cfg}
	if err := rt.openStore(); err != nil {
		rt.Close()
		return nil, err
	}

	// Object storage is optional; cloud sync is disabled without it.
	rt.backups, err = storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("init s3 storage: %w", err)
	}
	opts := state.Options{AdminPassword: cfg.AdminPassword}
	if rt.backups != nil {
		opts.Backups = rt.backups
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, cloud sync disabled")
	}

	rt.app, err = state.New(rt.kv, opts)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.app.Load(ctx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	return rt, nil
}

// openStore connects the configured snapshot backend. Valkey is also
// connected when the AI response cache is on; for that use alone a failed
// connection only disables the cache.
func (rt *runtime) openStore() error {
	cfg := rt.cfg

	if cfg.UsesValkey() {
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		switch {
		case err == nil:
			rt.valkey = client
		case cfg.StoreBackend == config.BackendValkey:
			return fmt.Errorf("connect valkey: %w", err)
		default:
			slog.Warn("valkey unavailable, ai response cache disabled", "error", err)
		}
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		rt.kv = store.NewMemory()
		slog.Warn("using in-memory store, data is lost on exit")
	case config.BackendValkey:
		rt.kv = store.NewValkey(rt.valkey, store.DefaultValkeyPrefix)
	case config.BackendSQLite:
		db, err := database.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		rt.db = db
		if err := database.Migrate(db, database.DialectSQLite); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		rt.kv = store.NewSQL(db, database.DialectSQLite)
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return err
		}
		rt.db = db
		if err := database.Migrate(db, database.DialectPostgres); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		rt.kv = store.NewSQL(db, database.DialectPostgres)
	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return nil
}

// responseCache returns the AI response cache, or nil when disabled.
func (rt *runtime) responseCache() *cache.ResponseCache {
	if rt.valkey == nil || rt.cfg.AICacheTTL <= 0 {
		return nil
	}
	return cache.NewResponseCache(rt.valkey, rt.cfg.AICacheTTL)
}

// Close releases every open connection.
func (rt *runtime) Close() {
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			slog.Warn("close database", "error", err)
		}
	}
	if rt.valkey != nil {
		if err := rt.valkey.Close(); err != nil {
			slog.Warn("close valkey", "error", err)
		}
	}
}

// cliActor attributes audit entries written from the command line.
var cliActor = &state.Actor{ID: "system", Name: "CLI"}
