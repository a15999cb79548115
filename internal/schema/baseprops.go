package schema

import (
	"fmt"
	"strings"

	"github.com/duke-git/lancet/v2/slice"

	"adminschema/internal/serializer"
	"adminschema/internal/value"
)

// IsBasePropApplicable решает, имеет ли смысл ключ base_props при текущих
// действиях и полях модели. Ключи вне канонического списка не применимы.
func IsBasePropApplicable(m *Model, key string) bool {
	switch key {
	case "column_list":
		return m.HasAction(ActionList)
	case "form_columns":
		return m.HasAction(ActionCreate)
	case "edit_form_columns":
		return m.HasActionTemplate(ActionEdit, TemplateEditSingle)
	case "ajax_form_columns":
		return m.HasActionTemplate(ActionAjax, TemplateAjaxBase)
	case "filter_form_columns", "form_filters":
		return m.HasActionTemplate(ActionAjax, TemplateFilterForm)
	case "export_list":
		return m.HasAction(ActionExport)
	case "column_details_list", "column_editable_list", "column_sortable_list", "column_filters":
		return len(m.Fields) > 0
	}
	return slice.Contain(serializer.BasePropsOrder, key)
}

// ApplicableBaseProps — все применимые ключи в каноническом порядке.
func ApplicableBaseProps(m *Model) []string {
	return slice.Filter(serializer.BasePropsOrder, func(_ int, key string) bool {
		return IsBasePropApplicable(m, key)
	})
}

// ClampTimeout приводит каждое значение к целому в [1,120]. Нечисловые
// значения выбрасываются. clamped=true, если хоть одно значение поправлено.
func ClampTimeout(in *value.Object) (out *value.Object, clamped bool) {
	out = value.NewObject()
	if in == nil {
		return out, false
	}
	for p := in.Oldest(); p != nil; p = p.Next() {
		n, ok := value.Int(p.Value)
		if !ok {
			continue
		}
		switch {
		case n > TimeoutMax:
			n = TimeoutMax
			clamped = true
		case n < TimeoutMin:
			n = TimeoutMin
			clamped = true
		}
		out.Set(p.Key, n)
	}
	return out, clamped
}

// NormalizeBaseProps проверяет и чистит ввод панели base_props: пустые
// значения не сохраняются, списки полей должны ссылаться на поля модели,
// timeout зажимается. Результат целиком заменяет base_props.
func NormalizeBaseProps(m *Model, in *value.Object) (out *value.Object, clamped bool, err error) {
	out = value.NewObject()
	if in == nil {
		return out, false, nil
	}
	var errs ValidationErrors
	names := m.FieldNames()

	for p := in.Oldest(); p != nil; p = p.Next() {
		key, v := p.Key, p.Value
		if !slice.Contain(serializer.BasePropsOrder, key) {
			errs = append(errs, ferr(ErrEnumInvalid, key, fmt.Sprintf("unknown base_props key %q", key)))
			continue
		}

		switch {
		case slice.Contain(FieldListKeys, key):
			list, ok := value.Strings(v)
			if !ok {
				errs = append(errs, ferr(ErrTypeMismatch, key, "'"+key+"' expected array of field names"))
				continue
			}
			list = slice.Unique(list)
			if len(list) == 0 {
				continue
			}
			if !IsBasePropApplicable(m, key) {
				errs = append(errs, ferr(ErrNotApplicable, key, "'"+key+"' is not applicable to the model's actions"))
				continue
			}
			if missing := slice.Difference(list, names); len(missing) > 0 {
				errs = append(errs, ferr(ErrRefNotFound, key, "unknown fields: "+strings.Join(missing, ", ")))
				continue
			}
			out.Set(key, value.FromStrings(list))

		case slice.Contain(FilterKeys, key):
			filters, ferrs := normalizeFilters(key, v, names)
			if len(ferrs) > 0 {
				errs = append(errs, ferrs...)
				continue
			}
			if filters.Len() == 0 {
				continue
			}
			if !IsBasePropApplicable(m, key) {
				errs = append(errs, ferr(ErrNotApplicable, key, "'"+key+"' is not applicable to the model"))
				continue
			}
			out.Set(key, filters)

		case key == "page_size" || key == "import_size":
			n, ok := value.Int(v)
			if !ok && v != nil && v != "" {
				errs = append(errs, ferr(ErrTypeMismatch, key, "'"+key+"' expected integer"))
				continue
			}
			if n < 0 {
				errs = append(errs, ferr(ErrTypeMismatch, key, "'"+key+"' must be positive"))
				continue
			}
			if n > 0 {
				out.Set(key, n)
			}

		case key == "timeout":
			if v == nil {
				continue
			}
			to, ok := v.(*value.Object)
			if !ok {
				errs = append(errs, ferr(ErrTypeMismatch, key, "'timeout' expected object of action -> seconds"))
				continue
			}
			norm, was := ClampTimeout(to)
			if norm.Len() == 0 {
				continue
			}
			clamped = clamped || was
			out.Set(key, norm)

		case key == "custom_style" || key == "filter_style" || key == "submit_style":
			if v == nil {
				continue
			}
			o, ok := v.(*value.Object)
			if !ok {
				errs = append(errs, ferr(ErrTypeMismatch, key, "'"+key+"' expected object"))
				continue
			}
			if pruned := pruneEmpty(o); pruned.Len() > 0 {
				out.Set(key, pruned)
			}

		default:
			if s, ok := v.(string); ok {
				v = strings.TrimSpace(s)
			}
			if !isEmpty(v) {
				out.Set(key, value.Clone(v))
			}
		}
	}
	if len(errs) > 0 {
		return nil, false, errs
	}
	return out, clamped, nil
}

func normalizeFilters(key string, v any, names []string) (*value.Object, ValidationErrors) {
	out := value.NewObject()
	if v == nil {
		return out, nil
	}
	in, ok := v.(*value.Object)
	if !ok {
		return nil, ValidationErrors{ferr(ErrTypeMismatch, key, "'"+key+"' expected object of field -> operators")}
	}
	var errs ValidationErrors
	for p := in.Oldest(); p != nil; p = p.Next() {
		path := key + "." + p.Key
		ops, ok := value.Strings(p.Value)
		if !ok {
			errs = append(errs, ferr(ErrTypeMismatch, path, "expected array of operators"))
			continue
		}
		ops = slice.Unique(ops)
		if len(ops) == 0 {
			continue
		}
		if !slice.Contain(names, p.Key) {
			errs = append(errs, ferr(ErrRefNotFound, path, "unknown field "+p.Key))
			continue
		}
		if bad := slice.Difference(ops, FilterOperators); len(bad) > 0 {
			errs = append(errs, ferr(ErrEnumInvalid, path, "unknown operators: "+strings.Join(bad, ", ")))
			continue
		}
		out.Set(p.Key, value.FromStrings(ops))
	}
	return out, errs
}

func pruneEmpty(o *value.Object) *value.Object {
	out := value.NewObject()
	for p := o.Oldest(); p != nil; p = p.Next() {
		v := p.Value
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		if !isEmpty(v) {
			out.Set(p.Key, value.Clone(v))
		}
	}
	return out
}

// isEmpty — значение, которое панель не сохраняет.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case *value.Object:
		return t.Len() == 0
	}
	if f, ok := value.Number(v); ok {
		return f == 0
	}
	return false
}

// PruneFieldRefs убирает поле из списков и фильтров base_props; опустевшие
// ключи удаляются.
func PruneFieldRefs(bp *value.Object, name string) {
	rewriteFieldRefs(bp, func(s string) (string, bool) { return s, s != name })
}

// RenameFieldRefs переписывает имя поля в списках и фильтрах base_props.
func RenameFieldRefs(bp *value.Object, oldName, newName string) {
	if oldName == newName {
		return
	}
	rewriteFieldRefs(bp, func(s string) (string, bool) {
		if s == oldName {
			return newName, true
		}
		return s, true
	})
}

func rewriteFieldRefs(bp *value.Object, fn func(string) (string, bool)) {
	if bp == nil {
		return
	}
	for _, key := range FieldListKeys {
		v, ok := bp.Get(key)
		if !ok {
			continue
		}
		list, ok := value.Strings(v)
		if !ok {
			continue
		}
		kept := make([]string, 0, len(list))
		for _, s := range list {
			if ns, keep := fn(s); keep {
				kept = append(kept, ns)
			}
		}
		if len(kept) == 0 {
			bp.Delete(key)
		} else {
			bp.Set(key, value.FromStrings(kept))
		}
	}
	for _, key := range FilterKeys {
		v, ok := bp.Get(key)
		if !ok {
			continue
		}
		filters, ok := v.(*value.Object)
		if !ok {
			continue
		}
		rebuilt := value.NewObject()
		for p := filters.Oldest(); p != nil; p = p.Next() {
			if ns, keep := fn(p.Key); keep {
				rebuilt.Set(ns, p.Value)
			}
		}
		if rebuilt.Len() == 0 {
			bp.Delete(key)
		} else {
			bp.Set(key, rebuilt)
		}
	}
}
