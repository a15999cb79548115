package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/duke-git/lancet/v2/strutil"

	"adminschema/internal/schema"
	"adminschema/internal/value"
)

// BasicConfig — поля панели базовой конфигурации.
type BasicConfig struct {
	Name       string             `json:"name"`
	Label      string             `json:"label"`
	PrimaryKey string             `json:"primary_key"`
	Entry      schema.Entry       `json:"entry"`
	Parent     *schema.ParentMenu `json:"parent"`
}

// IsBasePropApplicable — применим ли ключ base_props к модели.
func (s *Store) IsBasePropApplicable(id, key string) (bool, error) {
	m, err := s.Get(id)
	if err != nil {
		return false, err
	}
	return schema.IsBasePropApplicable(m, key), nil
}

// ApplicableBaseProps — применимые ключи в каноническом порядке.
func (s *Store) ApplicableBaseProps(id string) ([]string, error) {
	m, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return schema.ApplicableBaseProps(m), nil
}

// SaveBasicConfig пишет name/label/primary_key/entry/parent. Новое меню
// родителя попадает в список явно заданных.
func (s *Store) SaveBasicConfig(id string, in BasicConfig) error {
	name := strings.TrimSpace(in.Name)
	label := strings.TrimSpace(in.Label)
	if err := schema.ValidateBasic(name, label, in.Entry); err != nil {
		return err
	}
	return s.mutate(id, func(m *schema.Model) error {
		for _, o := range s.models {
			if o.ID != id && o.Name == name {
				return schema.ValidationErrors{{Code: schema.ErrUniqueViolation, Field: "name",
					Message: "Model '" + name + "' already exists"}}
			}
		}
		m.Name = name
		m.Label = label
		m.PrimaryKey = strings.TrimSpace(in.PrimaryKey)
		m.Entry = in.Entry
		if m.Entry == "" {
			m.Entry = schema.EntryList
		}
		m.Parent = nil
		if in.Parent != nil && !strutil.IsBlank(in.Parent.Name) {
			p := normalizeMenu(*in.Parent)
			m.Parent = &p
			s.addAuthored(p)
		}
		return nil
	})
}

// SetActions заменяет набор действий. Повторы схлопываются (первое
// выигрывает), пустой шаблон получает значение по умолчанию, порядок
// приводится к порядку словаря действий.
func (s *Store) SetActions(id string, actions []schema.Action) error {
	uniq := make([]schema.Action, 0, len(actions))
	for _, a := range actions {
		if !slices.ContainsFunc(uniq, func(u schema.Action) bool { return u.Name == a.Name }) {
			uniq = append(uniq, a)
		}
	}
	if err := schema.ValidateActions(uniq); err != nil {
		return err
	}
	for i := range uniq {
		if uniq[i].Template == "" {
			uniq[i].Template = schema.ActionTemplates[uniq[i].Name][0]
		}
	}
	slices.SortStableFunc(uniq, func(a, b schema.Action) int {
		return slice.IndexOf(schema.ActionNames, a.Name) - slice.IndexOf(schema.ActionNames, b.Name)
	})
	return s.mutate(id, func(m *schema.Model) error {
		m.Actions = uniq
		return nil
	})
}

// AddField добавляет поле с новым id.
func (s *Store) AddField(id string, f schema.Field) (schema.Field, error) {
	f = f.Clone()
	f.ID = s.ids.New()
	err := s.mutate(id, func(m *schema.Model) error {
		if err := schema.ValidateField(f, m.Fields); err != nil {
			return err
		}
		m.Fields = append(m.Fields, f)
		return nil
	})
	if err != nil {
		return schema.Field{}, err
	}
	return f.Clone(), nil
}

// UpdateField заменяет поле по id; при смене имени ссылки в base_props
// переписываются.
func (s *Store) UpdateField(id string, f schema.Field) error {
	f = f.Clone()
	return s.mutate(id, func(m *schema.Model) error {
		i := m.FieldIndex(f.ID)
		if i < 0 {
			return notFound("field", f.ID)
		}
		if err := schema.ValidateField(f, m.Fields); err != nil {
			return err
		}
		schema.RenameFieldRefs(m.BaseProps, m.Fields[i].Name, f.Name)
		m.Fields[i] = f
		return nil
	})
}

// RemoveField удаляет поле и его упоминания в base_props.
func (s *Store) RemoveField(id, fieldID string) error {
	return s.mutate(id, func(m *schema.Model) error {
		i := m.FieldIndex(fieldID)
		if i < 0 {
			return notFound("field", fieldID)
		}
		name := m.Fields[i].Name
		m.Fields = slices.Delete(m.Fields, i, i+1)
		schema.PruneFieldRefs(m.BaseProps, name)
		return nil
	})
}

// MoveField переставляет поле на позицию to.
func (s *Store) MoveField(id, fieldID string, to int) error {
	return s.mutate(id, func(m *schema.Model) error {
		i := m.FieldIndex(fieldID)
		if i < 0 {
			return notFound("field", fieldID)
		}
		if to < 0 || to >= len(m.Fields) {
			return schema.ValidationErrors{{Code: schema.ErrEnumInvalid, Field: "position",
				Message: fmt.Sprintf("Position %d is out of range [0,%d)", to, len(m.Fields))}}
		}
		f := m.Fields[i]
		m.Fields = slices.Delete(m.Fields, i, i+1)
		m.Fields = slices.Insert(m.Fields, to, f)
		return nil
	})
}

// SaveBaseProps целиком заменяет base_props нормализованным вводом.
// clamped сообщает, что timeout был поправлен в допустимый диапазон.
func (s *Store) SaveBaseProps(id string, in *value.Object) (clamped bool, err error) {
	err = s.mutate(id, func(m *schema.Model) error {
		out, c, err := schema.NormalizeBaseProps(m, in)
		if err != nil {
			return err
		}
		m.BaseProps = out
		clamped = c
		return nil
	})
	return clamped, err
}

func (s *Store) AddCustomAction(id string, a schema.CustomAction) (schema.CustomAction, error) {
	if err := schema.ValidateCustomAction(a); err != nil {
		return schema.CustomAction{}, err
	}
	a = a.Clone()
	a.ID = s.ids.New()
	err := s.mutate(id, func(m *schema.Model) error {
		m.CustomActions = append(m.CustomActions, a)
		return nil
	})
	if err != nil {
		return schema.CustomAction{}, err
	}
	return a.Clone(), nil
}

// UpdateCustomAction заменяет действие с тем же id.
func (s *Store) UpdateCustomAction(id string, a schema.CustomAction) error {
	if err := schema.ValidateCustomAction(a); err != nil {
		return err
	}
	a = a.Clone()
	return s.mutate(id, func(m *schema.Model) error {
		i := m.CustomActionIndex(a.ID)
		if i < 0 {
			return notFound("custom action", a.ID)
		}
		m.CustomActions[i] = a
		return nil
	})
}

func (s *Store) RemoveCustomAction(id, actionID string) error {
	return s.mutate(id, func(m *schema.Model) error {
		i := m.CustomActionIndex(actionID)
		if i < 0 {
			return notFound("custom action", actionID)
		}
		m.CustomActions = slices.Delete(m.CustomActions, i, i+1)
		return nil
	})
}
