// Package sqlrepo хранит модели в таблице models через database/sql.
// Диалект (postgres или sqlite) задаёт только тексты запросов.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"adminschema/internal/schema"
	"adminschema/internal/value"
)

// Dialect — запросы конкретной СУБД. Параметры upsert по порядку: name, label,
// primary_key, entry, parent, action, fields, base_props, custom_actions,
// created_at, updated_at.
type Dialect struct {
	Name   string
	DDL    string
	Upsert string // возвращает id строки
	Select string
	Delete string
}

// jsonColumns — ключи документа, которые лежат в колонках как JSON.
var jsonColumns = []string{"parent", "action", "fields", "base_props", "custom_actions"}

// timeLayout фиксированной ширины: в sqlite время лежит текстом и
// сортируется как строка.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func New(db *sql.DB, d Dialect) *Repository {
	return &Repository{db: db, dialect: d, now: time.Now}
}

func (r *Repository) Dialect() Dialect { return r.dialect }

// Migrate создаёт таблицу, если её нет.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.DDL); err != nil {
		return fmt.Errorf("%s: migrate models: %w", r.dialect.Name, err)
	}
	return nil
}

// FetchModels возвращает модели от новых к старым.
func (r *Repository) FetchModels(ctx context.Context) ([]*schema.Model, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Select)
	if err != nil {
		return nil, fmt.Errorf("%s: select models: %w", r.dialect.Name, err)
	}
	defer rows.Close()

	var out []*schema.Model
	for rows.Next() {
		var (
			id                            int64
			name, label, primaryKey, entry string
			cols                          [5]string
			createdAt                     any
		)
		if err := rows.Scan(&id, &name, &label, &primaryKey, &entry,
			&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &createdAt); err != nil {
			return nil, fmt.Errorf("%s: scan model: %w", r.dialect.Name, err)
		}
		doc := value.ObjectOf(
			"name", name,
			"label", label,
			"primary_key", primaryKey,
			"entry", entry,
		)
		for i, key := range jsonColumns {
			if cols[i] == "" {
				continue
			}
			v, err := value.Decode([]byte(cols[i]))
			if err != nil {
				return nil, fmt.Errorf("%s: model %q column %s: %w", r.dialect.Name, name, key, err)
			}
			doc.Set(key, v)
		}
		m, err := schema.FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: model %q: %w", r.dialect.Name, name, err)
		}
		m.RemoteID = strconv.FormatInt(id, 10)
		m.CreatedAt = scanTime(createdAt)
		m.State = schema.Persisted
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveModel делает upsert по имени; created_at при обновлении не меняется.
func (r *Repository) SaveModel(ctx context.Context, m *schema.Model) (string, error) {
	doc := m.Document()
	args := []any{m.Name, m.Label, m.PrimaryKey, string(m.Entry)}
	for _, key := range jsonColumns {
		v, _ := doc.Get(key)
		b, err := value.Encode(v)
		if err != nil {
			return "", fmt.Errorf("%s: encode %s: %w", r.dialect.Name, key, err)
		}
		args = append(args, string(b))
	}
	now := r.now().UTC()
	created := m.CreatedAt
	if created.IsZero() {
		created = now
	}
	args = append(args, created.UTC().Format(timeLayout), now.Format(timeLayout))

	var id int64
	if err := r.db.QueryRowContext(ctx, r.dialect.Upsert, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("%s: upsert model %q: %w", r.dialect.Name, m.Name, err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (r *Repository) DeleteModel(ctx context.Context, remoteID string) error {
	id, err := strconv.ParseInt(remoteID, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: bad model id %q", r.dialect.Name, remoteID)
	}
	res, err := r.db.ExecContext(ctx, r.dialect.Delete, id)
	if err != nil {
		return fmt.Errorf("%s: delete model %d: %w", r.dialect.Name, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoRows
	}
	return nil
}

var ErrNoRows = errors.New("model not found")

// Generate сохраняет экспортный документ по имени и отдаёт его обратно.
func (r *Repository) Generate(ctx context.Context, doc *value.Object) (*value.Object, error) {
	m, err := schema.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	if _, err := r.SaveModel(ctx, m); err != nil {
		return nil, err
	}
	return value.CloneObject(doc), nil
}

// scanTime принимает то, что отдаёт драйвер: time.Time или текст.
func scanTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	}
	return time.Time{}
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
