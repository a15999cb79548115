package store

import (
	"slices"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/duke-git/lancet/v2/strutil"

	"adminschema/internal/schema"
)

// deriveParentMenus: сначала явно заданные меню, затем родители моделей в
// порядке обнаружения; имя уникально, выигрывает первое вхождение.
func deriveParentMenus(authored []schema.ParentMenu, models []*schema.Model) []schema.ParentMenu {
	out := make([]schema.ParentMenu, 0, len(authored))
	seen := map[string]bool{}
	add := func(p schema.ParentMenu) {
		if p.Name == "" || seen[p.Name] {
			return
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	for _, p := range authored {
		add(p)
	}
	for _, m := range models {
		if m.Parent != nil {
			add(*m.Parent)
		}
	}
	return out
}

func menuIndex(menus []schema.ParentMenu, name string) int {
	return slices.IndexFunc(menus, func(p schema.ParentMenu) bool { return p.Name == name })
}

func normalizeMenu(p schema.ParentMenu) schema.ParentMenu {
	if strutil.IsBlank(p.Label) {
		p.Label = schema.Title(p.Name)
	}
	return p
}

// ParentMenus — производный список меню.
func (s *Store) ParentMenus() []schema.ParentMenu {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.derived)
}

// AssignToParent ставит модели слабую ссылку на меню; пустое имя снимает её.
func (s *Store) AssignToParent(id string, p schema.ParentMenu) error {
	return s.mutate(id, func(m *schema.Model) error {
		if strutil.IsBlank(p.Name) {
			m.Parent = nil
			return nil
		}
		np := normalizeMenu(p)
		m.Parent = &np
		return nil
	})
}

// AddParentMenu добавляет меню; имя должно быть новым.
func (s *Store) AddParentMenu(p schema.ParentMenu) error {
	if strutil.IsBlank(p.Name) {
		return schema.ValidationErrors{{Code: schema.ErrRequired, Field: "name", Message: "Field 'name' is required"}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if menuIndex(s.derived, p.Name) >= 0 {
		return schema.ValidationErrors{{Code: schema.ErrUniqueViolation, Field: "name",
			Message: "Parent menu '" + p.Name + "' already exists"}}
	}
	s.authored = append(s.authored, normalizeMenu(p))
	s.recompute()
	return nil
}

// RenameParentMenu меняет подпись и имя меню и переписывает parent у всех
// моделей, ссылавшихся на oldName. Пустой newName оставляет имя прежним.
func (s *Store) RenameParentMenu(oldName, newLabel, newName string) error {
	if strutil.IsBlank(newName) {
		newName = oldName
	}
	next := normalizeMenu(schema.ParentMenu{Label: newLabel, Name: newName})

	s.mu.Lock()
	defer s.mu.Unlock()
	if menuIndex(s.derived, oldName) < 0 {
		return notFound("parent menu", oldName)
	}
	if newName != oldName && menuIndex(s.derived, newName) >= 0 {
		return schema.ValidationErrors{{Code: schema.ErrUniqueViolation, Field: "name",
			Message: "Parent menu '" + newName + "' already exists"}}
	}
	if i := menuIndex(s.authored, oldName); i >= 0 {
		s.authored[i] = next
	}
	for i, m := range s.models {
		if m.ParentName() != oldName {
			continue
		}
		c := m.Clone()
		p := next
		c.Parent = &p
		s.models[i] = c
		s.invalidate(c.ID)
	}
	s.recompute()
	return nil
}

// RemoveParentMenu удаляет меню и очищает parent у ссылавшихся моделей.
func (s *Store) RemoveParentMenu(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if menuIndex(s.derived, name) < 0 {
		return notFound("parent menu", name)
	}
	s.authored = slice.Filter(s.authored, func(_ int, p schema.ParentMenu) bool { return p.Name != name })
	for i, m := range s.models {
		if m.ParentName() != name {
			continue
		}
		c := m.Clone()
		c.Parent = nil
		s.models[i] = c
		s.invalidate(c.ID)
	}
	s.recompute()
	return nil
}

// addAuthored регистрирует меню, если его имени ещё нет среди явно заданных.
func (s *Store) addAuthored(p schema.ParentMenu) {
	if p.Name == "" || menuIndex(s.authored, p.Name) >= 0 {
		return
	}
	s.authored = append(s.authored, normalizeMenu(p))
}

// SetParentMenus заменяет явно заданные меню (например, после перечитывания
// каталога). Ссылки моделей не трогаются.
func (s *Store) SetParentMenus(menus []schema.ParentMenu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authored = nil
	for _, p := range menus {
		s.addAuthored(p)
	}
	s.recompute()
}
