// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database opens the SQL databases that back the snapshot store and
// applies their goose migrations. PostgreSQL is reached through pgx, the
// embedded single-file database through modernc.org/sqlite.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Supported SQL dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

//go:embed migrations
var embedMigrations embed.FS

// Connect opens a PostgreSQL connection pool using the provided DSN.
// It verifies the connection with a ping before returning.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "dialect", DialectPostgres)
	return db, nil
}

// ConnectSQLite opens (creating if needed) the SQLite file at path.
// SQLite allows one writer, so the pool is pinned to one connection.
func ConnectSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	slog.Info("database connected", "dialect", DialectSQLite, "path", path)
	return db, nil
}

// Migrate runs all pending goose migrations for the dialect from the
// embedded SQL files.
func Migrate(db *sql.DB, dialect string) error {
	var gooseDialect string
	switch dialect {
	case DialectPostgres:
		gooseDialect = "postgres"
	case DialectSQLite:
		gooseDialect = "sqlite3"
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations/"+dialect); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied", "dialect", dialect)
	return nil
}
