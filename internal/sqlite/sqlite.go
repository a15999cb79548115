// Package sqlite — локальное файловое хранилище моделей (modernc.org/sqlite,
// без cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite

	"adminschema/internal/sqlrepo"
)

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// Open открывает (или создаёт) файл базы. SQLite пишет одним писателем,
// поэтому пул ограничен одним соединением.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return db, nil
}

var Dialect = sqlrepo.Dialect{
	Name: "sqlite",
	DDL: `CREATE TABLE IF NOT EXISTS models (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL UNIQUE,
	label          TEXT NOT NULL DEFAULT '',
	primary_key    TEXT NOT NULL DEFAULT '',
	entry          TEXT NOT NULL DEFAULT 'list',
	parent         TEXT NOT NULL DEFAULT '""',
	action         TEXT NOT NULL DEFAULT '[]',
	fields         TEXT NOT NULL DEFAULT '[]',
	base_props     TEXT NOT NULL DEFAULT '{}',
	custom_actions TEXT NOT NULL DEFAULT '[]',
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
)`,
	Upsert: `INSERT INTO models (name, label, primary_key, entry, parent, action, fields, base_props, custom_actions, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
	label = excluded.label,
	primary_key = excluded.primary_key,
	entry = excluded.entry,
	parent = excluded.parent,
	action = excluded.action,
	fields = excluded.fields,
	base_props = excluded.base_props,
	custom_actions = excluded.custom_actions,
	updated_at = excluded.updated_at
RETURNING id`,
	Select: `SELECT id, name, label, primary_key, entry, parent, action, fields, base_props, custom_actions, created_at
FROM models ORDER BY created_at DESC, id DESC`,
	Delete: `DELETE FROM models WHERE id = ?`,
}

// NewModelRepository создаёт таблицу models и возвращает репозиторий.
func NewModelRepository(ctx context.Context, db *sql.DB) (*sqlrepo.Repository, error) {
	repo := sqlrepo.New(db, Dialect)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
