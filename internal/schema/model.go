// Package schema описывает модель админ-страницы: поля, действия, base_props
// и пользовательские действия, а также её документное представление.
package schema

import (
	"time"

	"adminschema/internal/value"
)

type Entry string

const (
	EntryList Entry = "list"
	EntryAdd  Entry = "add"
)

// State отмечает, есть ли у модели запись во внешнем хранилище.
type State int

const (
	Draft State = iota
	Persisted
)

func (s State) String() string {
	if s == Persisted {
		return "persisted"
	}
	return "draft"
}

func ParseState(s string) State {
	if s == "persisted" {
		return Persisted
	}
	return Draft
}

const StatusActive = "active"

// ParentMenu — одноуровневая группа в навигации; модели ссылаются на неё по Name.
type ParentMenu struct {
	Label string `json:"label" yaml:"label"`
	Name  string `json:"name" yaml:"name"`
}

type Action struct {
	Name     string `json:"name"`
	Template string `json:"template"`
}

// Field — поле модели. Всё, кроме name/label/type/copy_rule, лежит в Attrs
// в порядке документа.
type Field struct {
	ID       string
	Name     string
	Label    string
	Type     string
	CopyRule CopyRule
	Attrs    *value.Object
}

// CustomAction адресуется по стабильному ID, а не по позиции в списке.
type CustomAction struct {
	ID         string
	ActionName string
	Label      string
	Action     string
	Attrs      *value.Object
}

type Model struct {
	ID            string
	Name          string
	Label         string
	PrimaryKey    string
	Entry         Entry
	Parent        *ParentMenu
	Actions       []Action
	Fields        []Field
	BaseProps     *value.Object
	CustomActions []CustomAction

	CreatedAt    time.Time
	Status       string
	SourceFile   string
	SourceFolder string
	State        State
	RemoteID     string
}

// HasAction — есть ли действие с таким именем.
func (m *Model) HasAction(name string) bool {
	for _, a := range m.Actions {
		if a.Name == name {
			return true
		}
	}
	return false
}

// HasActionTemplate — есть ли действие с точной парой (name, template).
func (m *Model) HasActionTemplate(name, template string) bool {
	for _, a := range m.Actions {
		if a.Name == name && a.Template == template {
			return true
		}
	}
	return false
}

func (m *Model) FieldNames() []string {
	out := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		out = append(out, f.Name)
	}
	return out
}

func (m *Model) FieldIndex(id string) int {
	for i, f := range m.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) CustomActionIndex(id string) int {
	for i, a := range m.CustomActions {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// ParentName — имя родительского меню или "".
func (m *Model) ParentName() string {
	if m.Parent == nil {
		return ""
	}
	return m.Parent.Name
}

// Clone возвращает глубокую копию модели.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	out := *m
	if m.Parent != nil {
		p := *m.Parent
		out.Parent = &p
	}
	out.Actions = append([]Action(nil), m.Actions...)
	out.Fields = make([]Field, len(m.Fields))
	for i, f := range m.Fields {
		out.Fields[i] = f.Clone()
	}
	out.BaseProps = value.CloneObject(m.BaseProps)
	out.CustomActions = make([]CustomAction, len(m.CustomActions))
	for i, a := range m.CustomActions {
		out.CustomActions[i] = a.Clone()
	}
	return &out
}

func (f Field) Clone() Field {
	f.Attrs = value.CloneObject(f.Attrs)
	return f
}

func (a CustomAction) Clone() CustomAction {
	a.Attrs = value.CloneObject(a.Attrs)
	return a
}

// Attr возвращает дополнительный атрибут поля.
func (f Field) Attr(key string) (any, bool) {
	if f.Attrs == nil {
		return nil, false
	}
	return f.Attrs.Get(key)
}

// SetAttr пишет атрибут; nil удаляет его.
func (f *Field) SetAttr(key string, v any) {
	if v == nil {
		if f.Attrs != nil {
			f.Attrs.Delete(key)
		}
		return
	}
	if f.Attrs == nil {
		f.Attrs = value.NewObject()
	}
	f.Attrs.Set(key, v)
}
