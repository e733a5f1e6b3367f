// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"earsip/internal/database"
)

var placeholder = regexp.MustCompile(`\$\d+`)

// SQLStore keeps snapshots in the snapshots table of a PostgreSQL or
// SQLite database migrated by package database.
type SQLStore struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

// NewSQL returns a SQLStore for a database of the given dialect.
func NewSQL(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

// q adapts a $n-style query to the dialect's placeholder syntax.
func (s *SQLStore) q(query string) string {
	if s.dialect == database.DialectSQLite {
		return placeholder.ReplaceAllString(query, "?")
	}
	return query
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT value FROM snapshots
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`),
		key, s.now().Unix(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a snapshot. Creates it if it doesn't exist.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires sql.NullInt64
	if ttl > 0 {
		expires = sql.NullInt64{Int64: s.now().Add(ttl).Unix(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO snapshots (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`),
		key, value, expires,
	)
	if err != nil {
		return fmt.Errorf("set snapshot %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM snapshots WHERE key = $1`), key); err != nil {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}

// Prune deletes expired rows and returns how many were removed.
func (s *SQLStore) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM snapshots WHERE expires_at IS NOT NULL AND expires_at <= $1`),
		s.now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
