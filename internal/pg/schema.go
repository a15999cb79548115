package pg

import (
	"database/sql"

	"adminschema/internal/sqlrepo"
)

// DDL: вложенные части модели в json, а не jsonb: порядок ключей должен
// пережить запись. name уникален (upsert по имени).
var DDL = map[string]string{
	"01_models": `CREATE TABLE IF NOT EXISTS models (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL UNIQUE,
	label          TEXT NOT NULL DEFAULT '',
	primary_key    TEXT NOT NULL DEFAULT '',
	entry          TEXT NOT NULL DEFAULT 'list',
	parent         JSON NOT NULL DEFAULT '""'::json,
	action         JSON NOT NULL DEFAULT '[]'::json,
	fields         JSON NOT NULL DEFAULT '[]'::json,
	base_props     JSON NOT NULL DEFAULT '{}'::json,
	custom_actions JSON NOT NULL DEFAULT '[]'::json,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	"02_models_created_at_idx": `CREATE INDEX IF NOT EXISTS models_created_at_idx ON models (created_at DESC)`,
}

var Dialect = sqlrepo.Dialect{
	Name: "postgres",
	DDL:  DDL["01_models"],
	Upsert: `INSERT INTO models (name, label, primary_key, entry, parent, action, fields, base_props, custom_actions, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5::json, $6::json, $7::json, $8::json, $9::json, $10::timestamptz, $11::timestamptz)
ON CONFLICT (name) DO UPDATE SET
	label = EXCLUDED.label,
	primary_key = EXCLUDED.primary_key,
	entry = EXCLUDED.entry,
	parent = EXCLUDED.parent,
	action = EXCLUDED.action,
	fields = EXCLUDED.fields,
	base_props = EXCLUDED.base_props,
	custom_actions = EXCLUDED.custom_actions,
	updated_at = EXCLUDED.updated_at
RETURNING id`,
	Select: `SELECT id, name, label, primary_key, entry, parent::text, action::text, fields::text, base_props::text, custom_actions::text, created_at
FROM models ORDER BY created_at DESC, id DESC`,
	Delete: `DELETE FROM models WHERE id = $1`,
}

// NewModelRepository применяет DDL и возвращает репозиторий моделей.
func NewModelRepository(db *sql.DB) (*sqlrepo.Repository, error) {
	if err := ApplyDDL(db, DDL); err != nil {
		return nil, err
	}
	return sqlrepo.New(db, Dialect), nil
}
