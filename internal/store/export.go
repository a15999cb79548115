package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"adminschema/internal/schema"
	"adminschema/internal/serializer"
	"adminschema/internal/sink"
)

// Export готовит модель к выдаче: экспортный документ проходит через
// Generator (если он подключён) и затем сериализуется. После генерации
// модель лежит в репозитории, поэтому стор помечает её сохранённой.
func (s *Store) Export(ctx context.Context, id string) (string, error) {
	m, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if err := schema.ValidateComplete(m); err != nil {
		return "", err
	}
	doc := m.ExportDocument()
	if s.gen != nil {
		out, err := s.gen.Generate(ctx, doc)
		if err != nil {
			s.log.Error("generate failed", zap.String("model", m.Name), zap.Error(err))
			return "", &TransportError{Op: "generate", Err: err}
		}
		doc = out
		if err := s.persist(ctx, m); err != nil {
			return "", err
		}
	}
	return serializer.Serialize(doc)
}

// Render сериализует модель локально, без Generator. Результат кешируется
// до следующего изменения модели.
func (s *Store) Render(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return "", notFound("model", id)
	}
	if s.cache != nil {
		if text, ok := s.cache.Get(id); ok {
			return text, nil
		}
	}
	m := s.models[i]
	if err := schema.ValidateComplete(m); err != nil {
		return "", err
	}
	text, err := serializer.Serialize(m.ExportDocument())
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		s.cache.Add(id, text)
	}
	return text, nil
}

// Save отправляет модель в репозиторий и помечает её сохранённой.
func (s *Store) Save(ctx context.Context, id string) error {
	m, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := schema.ValidateComplete(m); err != nil {
		return err
	}
	return s.persist(ctx, m)
}

// persist пишет модель в репозиторий и проставляет ей Persisted и внешний id.
func (s *Store) persist(ctx context.Context, m *schema.Model) error {
	remoteID, err := s.repo.SaveModel(ctx, m)
	if err != nil {
		s.log.Error("save model failed", zap.String("model", m.Name), zap.Error(err))
		return &TransportError{Op: "save", Err: err}
	}
	return s.mutate(m.ID, func(m *schema.Model) error {
		m.State = schema.Persisted
		m.RemoteID = remoteID
		return nil
	})
}

// SyncToFiles рендерит каждую модель с исходным файлом и отдаёт их Sink.
// Модели, которые не удалось отрендерить, попадают в отчёт как сбои.
func (s *Store) SyncToFiles(ctx context.Context) (sink.Report, error) {
	if s.sink == nil {
		return sink.Report{}, errors.New("no sync sink configured")
	}
	var (
		items []sink.Item
		pre   sink.Report
	)
	for _, m := range s.List() {
		if m.SourceFile == "" {
			continue
		}
		text, err := s.Render(m.ID)
		if err != nil {
			pre.FailedCount++
			pre.Results = append(pre.Results, sink.Result{
				ModelName: m.Name, FilePath: m.SourceFile, Error: fmt.Sprintf("%s: %v", m.Name, err),
			})
			continue
		}
		items = append(items, sink.Item{FilePath: m.SourceFile, SchemaText: text, ModelName: m.Name})
	}
	if len(items) == 0 {
		return pre, nil
	}

	rep, err := s.sink.SyncToFiles(ctx, items)
	if err != nil {
		s.log.Error("sync failed", zap.Int("items", len(items)), zap.Error(err))
		return pre, &TransportError{Op: "sync", Err: err}
	}
	rep.FailedCount += pre.FailedCount
	rep.Results = append(pre.Results, rep.Results...)
	s.log.Info("sync finished", zap.Int("success", rep.SuccessCount), zap.Int("failed", rep.FailedCount))
	return rep, nil
}

// ImportModels добавляет импортированные модели как новые черновики с
// новыми id; меню добавляются, если их имени ещё нет.
func (s *Store) ImportModels(models []*schema.Model, parents []schema.ParentMenu, sourceFolder string) []*schema.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := make([]*schema.Model, 0, len(models))
	for _, in := range models {
		m := in.Clone()
		m.ID = s.ids.New()
		for i := range m.Fields {
			m.Fields[i].ID = ""
		}
		for i := range m.CustomActions {
			m.CustomActions[i].ID = ""
		}
		s.ensureChildIDs(m)
		m.State = schema.Draft
		m.RemoteID = ""
		m.SourceFolder = sourceFolder
		if m.CreatedAt.IsZero() {
			m.CreatedAt = s.now()
		}
		if m.Status == "" {
			m.Status = schema.StatusActive
		}
		if m.Entry == "" {
			m.Entry = schema.EntryList
		}
		s.models = append(s.models, m)
		added = append(added, m.Clone())
	}
	for _, p := range parents {
		s.addAuthored(p)
	}
	s.recompute()
	s.log.Info("models imported", zap.Int("count", len(added)), zap.String("folder", sourceFolder))
	return added
}

// Lint проверяет все модели стора.
func (s *Store) Lint() []schema.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return schema.Lint(s.models)
}
