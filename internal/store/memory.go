package store

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"adminschema/internal/schema"
	"adminschema/internal/value"
)

// MemoryRepository — репозиторий в памяти процесса: upsert по имени,
// внешние id — возрастающие целые, выдача от новых к старым.
type MemoryRepository struct {
	mu     sync.RWMutex
	byName map[string]*schema.Model
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byName: map[string]*schema.Model{}}
}

func (r *MemoryRepository) FetchModels(ctx context.Context) ([]*schema.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*schema.Model, 0, len(r.byName))
	for _, m := range r.byName {
		out = append(out, m.Clone())
	}
	slices.SortFunc(out, func(a, b *schema.Model) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		ai, _ := strconv.Atoi(a.RemoteID)
		bi, _ := strconv.Atoi(b.RemoteID)
		return bi - ai
	})
	return out, nil
}

func (r *MemoryRepository) SaveModel(ctx context.Context, m *schema.Model) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upsert(m.Clone()), nil
}

func (r *MemoryRepository) upsert(m *schema.Model) string {
	if prev, ok := r.byName[m.Name]; ok {
		m.RemoteID = prev.RemoteID
		m.CreatedAt = prev.CreatedAt
	} else {
		r.nextID++
		m.RemoteID = strconv.Itoa(r.nextID)
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
	}
	m.State = schema.Persisted
	r.byName[m.Name] = m
	return m.RemoteID
}

func (r *MemoryRepository) DeleteModel(ctx context.Context, remoteID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, m := range r.byName {
		if m.RemoteID == remoteID {
			delete(r.byName, name)
			return nil
		}
	}
	return notFound("remote model", remoteID)
}

// Generate сохраняет экспортный документ по имени и возвращает его как есть.
func (r *MemoryRepository) Generate(ctx context.Context, doc *value.Object) (*value.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := schema.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.upsert(m)
	r.mu.Unlock()
	return value.CloneObject(doc), nil
}
