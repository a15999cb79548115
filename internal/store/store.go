// Package store держит изменяемый набор моделей, текущий выбор и меню
// навигации; все внешние вызовы идут через подключаемые Repository,
// Generator и Sink.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"adminschema/internal/logger"
	"adminschema/internal/schema"
	"adminschema/internal/sink"
	"adminschema/internal/value"
)

// Repository — внешнее хранилище моделей.
type Repository interface {
	FetchModels(ctx context.Context) ([]*schema.Model, error)
	// SaveModel делает upsert по имени и возвращает внешний id.
	SaveModel(ctx context.Context, m *schema.Model) (string, error)
	DeleteModel(ctx context.Context, remoteID string) error
}

// Generator — внешнее обогащение экспортного документа перед рендером.
type Generator interface {
	Generate(ctx context.Context, doc *value.Object) (*value.Object, error)
}

type Sink interface {
	SyncToFiles(ctx context.Context, items []sink.Item) (sink.Report, error)
}

var ErrNotFound = errors.New("not found")

// TransportError — сбой внешнего вызова (fetch/save/delete/generate/sync).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

type Store struct {
	mu       sync.RWMutex
	models   []*schema.Model
	current  string
	authored []schema.ParentMenu // меню, добавленные явно или из каталога
	derived  []schema.ParentMenu

	ids   *schema.IDSource
	repo  Repository
	gen   Generator
	sink  Sink
	log   *zap.Logger
	cache *lru.Cache[string, string] // id модели -> канонический текст
	now   func() time.Time
}

type Option func(*Store)

func WithRepository(r Repository) Option { return func(s *Store) { s.repo = r } }

func WithGenerator(g Generator) Option { return func(s *Store) { s.gen = g } }

func WithSink(k Sink) Option { return func(s *Store) { s.sink = k } }

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithRenderCache включает кеш отрендеренного текста; size<=0 выключает его.
func WithRenderCache(size int) Option {
	return func(s *Store) {
		if size <= 0 {
			s.cache = nil
			return
		}
		c, err := lru.New[string, string](size)
		if err == nil {
			s.cache = c
		}
	}
}

// WithParentMenus задаёт начальный список меню (например, из каталога).
func WithParentMenus(menus []schema.ParentMenu) Option {
	return func(s *Store) { s.authored = append([]schema.ParentMenu(nil), menus...) }
}

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// New собирает стор. Без WithRepository используется MemoryRepository.
func New(opts ...Option) *Store {
	s := &Store{
		ids: schema.NewIDSource(),
		log: logger.L(),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.repo == nil {
		s.repo = NewMemoryRepository()
	}
	s.recompute()
	return s
}

// recompute пересчитывает производные представления; вызывается один раз
// после любой мутации под блокировкой записи.
func (s *Store) recompute() {
	s.derived = deriveParentMenus(s.authored, s.models)
}

// invalidate сбрасывает кеш текста для изменённых моделей.
func (s *Store) invalidate(ids ...string) {
	if s.cache == nil {
		return
	}
	for _, id := range ids {
		s.cache.Remove(id)
	}
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.models, func(m *schema.Model) bool { return m.ID == id })
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// mutate применяет fn к копии модели и подменяет оригинал только при
// успехе: ошибка валидации не оставляет частичных изменений.
func (s *Store) mutate(id string, fn func(m *schema.Model) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return notFound("model", id)
	}
	m := s.models[i].Clone()
	if err := fn(m); err != nil {
		return err
	}
	s.models[i] = m
	s.invalidate(id)
	s.recompute()
	return nil
}

// LoadAll заменяет содержимое стора моделями из репозитория. При сбое
// стор не меняется, а вызывающему возвращается *TransportError.
func (s *Store) LoadAll(ctx context.Context) ([]*schema.Model, error) {
	fetched, err := s.repo.FetchModels(ctx)
	if err != nil {
		s.log.Error("load models failed", zap.Error(err))
		return nil, &TransportError{Op: "fetch", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	models := make([]*schema.Model, 0, len(fetched))
	for _, m := range fetched {
		m = m.Clone()
		if m.ID == "" {
			m.ID = s.ids.New()
		}
		s.ensureChildIDs(m)
		if m.RemoteID == "" {
			m.RemoteID = m.Name
		}
		m.State = schema.Persisted
		models = append(models, m)
	}
	s.models = models
	if s.index(s.current) < 0 {
		s.current = ""
	}
	if s.cache != nil {
		s.cache.Purge()
	}
	s.recompute()
	s.log.Info("models loaded", zap.Int("count", len(models)))
	return cloneAll(models), nil
}

// ensureChildIDs раздаёт id полям и пользовательским действиям без них.
func (s *Store) ensureChildIDs(m *schema.Model) {
	for i := range m.Fields {
		if m.Fields[i].ID == "" {
			m.Fields[i].ID = s.ids.New()
		}
	}
	for i := range m.CustomActions {
		if m.CustomActions[i].ID == "" {
			m.CustomActions[i].ID = s.ids.New()
		}
	}
}

// Create добавляет пустую модель с умолчаниями и делает её текущей.
func (s *Store) Create() *schema.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &schema.Model{
		ID:            s.ids.New(),
		Entry:         schema.EntryList,
		Actions:       []schema.Action{},
		Fields:        []schema.Field{},
		BaseProps:     value.NewObject(),
		CustomActions: []schema.CustomAction{},
		CreatedAt:     s.now(),
		Status:        schema.StatusActive,
		State:         schema.Draft,
	}
	s.models = append(s.models, m)
	s.current = m.ID
	s.recompute()
	return m.Clone()
}

func (s *Store) Get(id string) (*schema.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return nil, notFound("model", id)
	}
	return s.models[i].Clone(), nil
}

func (s *Store) List() []*schema.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.models)
}

func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(id) < 0 {
		return notFound("model", id)
	}
	s.current = id
	return nil
}

// Current — выбранная модель, если она есть.
func (s *Store) Current() (*schema.Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(s.current)
	if i < 0 {
		return nil, false
	}
	return s.models[i].Clone(), true
}

// Delete убирает модель локально. У сохранённой модели с внешним id затем
// вызывается Repository.DeleteModel; его сбой логируется и возвращается как
// *TransportError, локальное удаление при этом уже выполнено.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return notFound("model", id)
	}
	m := s.models[i]
	s.models = slices.Delete(s.models, i, i+1)
	if s.current == id {
		s.current = ""
	}
	s.invalidate(id)
	s.recompute()
	s.mu.Unlock()

	if m.State != schema.Persisted || m.RemoteID == "" {
		return nil
	}
	if err := s.repo.DeleteModel(ctx, m.RemoteID); err != nil {
		s.log.Warn("remote delete failed",
			zap.String("model", m.Name), zap.String("remote_id", m.RemoteID), zap.Error(err))
		return &TransportError{Op: "delete", Err: err}
	}
	return nil
}

func cloneAll(models []*schema.Model) []*schema.Model {
	out := make([]*schema.Model, len(models))
	for i, m := range models {
		out[i] = m.Clone()
	}
	return out
}
