package schema

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"adminschema/internal/value"
)

const createdAtLayout = time.RFC3339

// ExportDocument — нормализованная форма модели для генерации и сериализации:
// только ключи схемы, без id полей и пользовательских действий.
func (m *Model) ExportDocument() *value.Object {
	entry := m.Entry
	if entry == "" {
		entry = EntryList
	}
	doc := value.ObjectOf(
		"name", m.Name,
		"label", m.Label,
		"primary_key", m.PrimaryKey,
		"entry", string(entry),
		"parent", parentValue(m.Parent),
		"action", actionsValue(m.Actions),
	)
	fields := make([]any, 0, len(m.Fields))
	for _, f := range m.Fields {
		fields = append(fields, f.Document(false))
	}
	doc.Set("fields", fields)
	bp := value.CloneObject(m.BaseProps)
	if bp == nil {
		bp = value.NewObject()
	}
	doc.Set("base_props", bp)
	cas := make([]any, 0, len(m.CustomActions))
	for _, a := range m.CustomActions {
		cas = append(cas, a.Document(false))
	}
	doc.Set("custom_actions", cas)
	return doc
}

// Document — полная авторская форма: ExportDocument плюс id и служебные поля.
func (m *Model) Document() *value.Object {
	doc := value.ObjectOf("id", m.ID)
	exp := m.ExportDocument()
	for p := exp.Oldest(); p != nil; p = p.Next() {
		doc.Set(p.Key, p.Value)
	}
	fields := make([]any, 0, len(m.Fields))
	for _, f := range m.Fields {
		fields = append(fields, f.Document(true))
	}
	doc.Set("fields", fields)
	cas := make([]any, 0, len(m.CustomActions))
	for _, a := range m.CustomActions {
		cas = append(cas, a.Document(true))
	}
	doc.Set("custom_actions", cas)

	if !m.CreatedAt.IsZero() {
		doc.Set("created_at", m.CreatedAt.UTC().Format(createdAtLayout))
	}
	doc.Set("status", m.Status)
	if m.SourceFile != "" {
		doc.Set("source_file", m.SourceFile)
	}
	if m.SourceFolder != "" {
		doc.Set("source_folder", m.SourceFolder)
	}
	doc.Set("state", m.State.String())
	if m.RemoteID != "" {
		doc.Set("remote_id", m.RemoteID)
	}
	return doc
}

func parentValue(p *ParentMenu) any {
	if p == nil || p.Name == "" {
		return ""
	}
	return value.ObjectOf("label", p.Label, "name", p.Name)
}

func actionsValue(actions []Action) []any {
	out := make([]any, 0, len(actions))
	for _, a := range actions {
		out = append(out, value.ObjectOf("name", a.Name, "template", a.Template))
	}
	return out
}

// Document поля; id пишется только в авторской форме.
func (f Field) Document(withID bool) *value.Object {
	doc := value.NewObject()
	if withID && f.ID != "" {
		doc.Set("id", f.ID)
	}
	doc.Set("name", f.Name)
	doc.Set("label", f.Label)
	doc.Set("type", f.Type)
	if cr, ok := f.CopyRule.DocValue(); ok {
		doc.Set("copy_rule", cr)
	}
	if f.Attrs != nil {
		for p := f.Attrs.Oldest(); p != nil; p = p.Next() {
			if p.Key == "id" {
				continue
			}
			doc.Set(p.Key, value.Clone(p.Value))
		}
	}
	return doc
}

func (a CustomAction) Document(withID bool) *value.Object {
	doc := value.NewObject()
	if withID && a.ID != "" {
		doc.Set("id", a.ID)
	}
	doc.Set("action_name", a.ActionName)
	doc.Set("label", a.Label)
	doc.Set("action", a.Action)
	if a.Attrs != nil {
		for p := a.Attrs.Oldest(); p != nil; p = p.Next() {
			if p.Key == "id" {
				continue
			}
			doc.Set(p.Key, value.Clone(p.Value))
		}
	}
	return doc
}

// docReader собирает ошибки типов при разборе документа, чтобы вернуть их
// одним ValidationErrors.
type docReader struct {
	errs ValidationErrors
}

func (r *docReader) text(o *value.Object, key, path string) string {
	v, ok := o.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	}
	// старые данные хранили числовые id
	if f, ok := value.Number(v); ok {
		return value.FormatNumber(f)
	}
	r.errs = append(r.errs, ferr(ErrTypeMismatch, path, fmt.Sprintf("'%s' expected string, got %s", path, value.Kind(v))))
	return ""
}

func (r *docReader) objects(o *value.Object, key string) []*value.Object {
	v, ok := o.Get(key)
	if !ok || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		r.errs = append(r.errs, ferr(ErrTypeMismatch, key, fmt.Sprintf("'%s' expected array, got %s", key, value.Kind(v))))
		return nil
	}
	out := make([]*value.Object, 0, len(arr))
	for i, it := range arr {
		item, ok := it.(*value.Object)
		if !ok {
			r.errs = append(r.errs, ferr(ErrTypeMismatch, fmt.Sprintf("%s[%d]", key, i), "expected object, got "+value.Kind(it)))
			continue
		}
		out = append(out, item)
	}
	return out
}

// FromDocument строит модель из авторской или экспортной формы.
func FromDocument(o *value.Object) (*Model, error) {
	if o == nil {
		return nil, ValidationErrors{ferr(ErrTypeMismatch, "", "document is empty")}
	}
	r := &docReader{}
	m := &Model{
		ID:           r.text(o, "id", "id"),
		Name:         r.text(o, "name", "name"),
		Label:        r.text(o, "label", "label"),
		PrimaryKey:   r.text(o, "primary_key", "primary_key"),
		Entry:        Entry(r.text(o, "entry", "entry")),
		Status:       r.text(o, "status", "status"),
		SourceFile:   r.text(o, "source_file", "source_file"),
		SourceFolder: r.text(o, "source_folder", "source_folder"),
		State:        ParseState(r.text(o, "state", "state")),
		RemoteID:     r.text(o, "remote_id", "remote_id"),
	}
	if m.Entry == "" {
		m.Entry = EntryList
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	if ts := r.text(o, "created_at", "created_at"); ts != "" {
		m.CreatedAt = parseTime(ts)
	}

	if pv, ok := o.Get("parent"); ok {
		p, err := ParseParent(pv)
		if err != nil {
			r.errs = append(r.errs, ferr(ErrTypeMismatch, "parent", err.Error()))
		}
		m.Parent = p
	}

	for i, a := range r.objects(o, "action") {
		m.Actions = append(m.Actions, Action{
			Name:     r.text(a, "name", fmt.Sprintf("action[%d].name", i)),
			Template: r.text(a, "template", fmt.Sprintf("action[%d].template", i)),
		})
	}
	for i, fo := range r.objects(o, "fields") {
		f, err := fieldFromDocument(r, fo, fmt.Sprintf("fields[%d]", i))
		if err == nil {
			m.Fields = append(m.Fields, f)
		}
	}
	if bv, ok := o.Get("base_props"); ok && bv != nil {
		bp, ok := bv.(*value.Object)
		if !ok {
			r.errs = append(r.errs, ferr(ErrTypeMismatch, "base_props", "expected object, got "+value.Kind(bv)))
		} else {
			m.BaseProps = value.CloneObject(bp)
		}
	}
	if m.BaseProps == nil {
		m.BaseProps = value.NewObject()
	}
	for i, ao := range r.objects(o, "custom_actions") {
		m.CustomActions = append(m.CustomActions, customActionFromDocument(r, ao, fmt.Sprintf("custom_actions[%d]", i)))
	}

	if len(r.errs) > 0 {
		return nil, r.errs
	}
	return m, nil
}

// FieldFromDocument разбирает одно поле.
func FieldFromDocument(o *value.Object) (Field, error) {
	r := &docReader{}
	f, _ := fieldFromDocument(r, o, "field")
	if len(r.errs) > 0 {
		return Field{}, r.errs
	}
	return f, nil
}

func fieldFromDocument(r *docReader, o *value.Object, path string) (Field, error) {
	before := len(r.errs)
	f := Field{
		ID:    r.text(o, "id", path+".id"),
		Name:  r.text(o, "name", path+".name"),
		Label: r.text(o, "label", path+".label"),
		Type:  r.text(o, "type", path+".type"),
		Attrs: value.NewObject(),
	}
	for p := o.Oldest(); p != nil; p = p.Next() {
		switch p.Key {
		case "id", "name", "label", "type":
			continue
		case "copy_rule":
			if cr, ok := ParseCopyRule(p.Value); ok {
				f.CopyRule = cr
				continue
			}
		}
		f.Attrs.Set(p.Key, value.Clone(p.Value))
	}
	if len(r.errs) > before {
		return f, r.errs
	}
	return f, nil
}

// CustomActionFromDocument разбирает одно пользовательское действие.
func CustomActionFromDocument(o *value.Object) (CustomAction, error) {
	r := &docReader{}
	a := customActionFromDocument(r, o, "custom_action")
	if len(r.errs) > 0 {
		return CustomAction{}, r.errs
	}
	return a, nil
}

func customActionFromDocument(r *docReader, o *value.Object, path string) CustomAction {
	a := CustomAction{
		ID:         r.text(o, "id", path+".id"),
		ActionName: r.text(o, "action_name", path+".action_name"),
		Label:      r.text(o, "label", path+".label"),
		Action:     r.text(o, "action", path+".action"),
		Attrs:      value.NewObject(),
	}
	for p := o.Oldest(); p != nil; p = p.Next() {
		switch p.Key {
		case "id", "action_name", "label", "action":
			continue
		}
		a.Attrs.Set(p.Key, value.Clone(p.Value))
	}
	return a
}

// ParseParent принимает "", имя-строку или {label, name}. Для строки метка
// получается из имени через Title.
func ParseParent(v any) (*ParentMenu, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		return &ParentMenu{Name: t, Label: Title(t)}, nil
	case *value.Object:
		name, _ := value.String(t, "name")
		if name == "" {
			return nil, nil
		}
		label, ok := value.String(t, "label")
		if !ok || label == "" {
			label = Title(name)
		}
		return &ParentMenu{Name: name, Label: label}, nil
	}
	return nil, fmt.Errorf("parent: expected string or object, got %s", value.Kind(v))
}

// Title делает заглавной первую букву каждого слова, остальные строчными:
// "user_admin" -> "User_Admin".
func Title(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func parseTime(s string) time.Time {
	for _, layout := range []string{createdAtLayout, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (m *Model) MarshalJSON() ([]byte, error) {
	return value.Encode(m.Document())
}

func (m *Model) UnmarshalJSON(data []byte) error {
	o, err := value.DecodeObject(data)
	if err != nil {
		return err
	}
	parsed, err := FromDocument(o)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	return value.Encode(f.Document(true))
}

func (f *Field) UnmarshalJSON(data []byte) error {
	o, err := value.DecodeObject(data)
	if err != nil {
		return err
	}
	parsed, err := FieldFromDocument(o)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (a CustomAction) MarshalJSON() ([]byte, error) {
	return value.Encode(a.Document(true))
}

func (a *CustomAction) UnmarshalJSON(data []byte) error {
	o, err := value.DecodeObject(data)
	if err != nil {
		return err
	}
	parsed, err := CustomActionFromDocument(o)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
