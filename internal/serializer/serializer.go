// Package serializer печатает нормализованный документ модели в канонический
// текст конфигурации для рантайма админки:
//
//	schema = {
//	    "name": "user",
//	    ...
//	}
//
// Рендер — чистая функция документа: порядок ключей задают фиксированные
// списки приоритета и порядок самого документа. Одинаковый вход даёт
// одинаковые байты.
package serializer

import (
	"fmt"
	"strings"

	"adminschema/internal/value"
)

const indentUnit = "    "

// actionContinuation выравнивает 2..n-е действие под первым.
var actionContinuation = indentUnit + strings.Repeat(" ", 11)

// TopLevelOrder — порядок ключей документа модели; прочие ключи не печатаются.
var TopLevelOrder = []string{
	"name", "label", "primary_key", "entry", "parent",
	"action", "fields", "base_props", "custom_actions",
}

// FieldOrder — атрибуты поля, которые идут первыми; остальные в порядке
// документа.
var FieldOrder = []string{
	"name", "label", "type", "placeholder", "explain", "default", "coerce",
	"choices", "copy_rule", "tooltip", "show_rule", "method", "style", "config",
}

// BasePropsOrder — все ключи base_props в порядке вывода. Ключи вне списка
// не печатаются.
var BasePropsOrder = []string{
	"form_columns", "column_list", "column_details_list", "column_filters",
	"edit_form_columns", "column_editable_list", "column_sortable_list",
	"ajax_form_columns", "filter_form_columns", "form_filters",
	"export_list", "page_size", "import_size",
	"submit_jump", "submit_jump_edit",
	"detail_style", "form_submit_style", "field_style", "editable_list_style",
	"submit_alert", "detail_label_width", "form_label_width",
	"operation_width", "table_height", "table_column_fixed",
	"explain", "timeout", "filter_style", "submit_style", "custom_style",
}

// CustomActionOrder — порядок атрибутов пользовательского действия.
var CustomActionOrder = []string{
	"action_name", "label", "action", "params", "location", "icon", "config", "jump",
}

const (
	commentFormSubmitStyle = "# form 页是否展示提交按钮"
	commentSubmitType      = "# 提交类型. alert(弹出)"
	commentAlertContent    = "# 提交时提示文案"
	commentCustomActions   = "# 自定义action"
)

// UnsupportedValueError — значение, для которого в формате нет записи.
type UnsupportedValueError struct {
	Path  string
	Value any
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("serializer: unsupported value %s at %s", value.Kind(e.Value), e.Path)
}

// Serialize печатает doc как канонический текст.
func Serialize(doc *value.Object) (string, error) {
	if doc == nil {
		return "", &UnsupportedValueError{Path: "$", Value: nil}
	}
	var b strings.Builder
	b.WriteString("schema = {\n")

	for _, key := range orderedKeys(doc, TopLevelOrder, false) {
		v, _ := doc.Get(key)
		var err error
		switch key {
		case "action":
			err = writeActions(&b, v)
		case "fields":
			err = writeFields(&b, v)
		case "base_props":
			err = writeBaseProps(&b, v)
		case "custom_actions":
			err = writeCustomActions(&b, v)
		default:
			var s string
			s, err = formatAt(v, 1, key)
			if err == nil {
				fmt.Fprintf(&b, "%s\"%s\": %s,\n", indentUnit, key, s)
			}
		}
		if err != nil {
			return "", err
		}
	}

	b.WriteString("}\n")
	return b.String(), nil
}

// orderedKeys: ключи o из priority в его порядке, затем (если rest) прочие
// в порядке документа.
func orderedKeys(o *value.Object, priority []string, rest bool) []string {
	out := make([]string, 0, o.Len())
	for _, k := range priority {
		if value.Has(o, k) {
			out = append(out, k)
		}
	}
	if !rest {
		return out
	}
	seen := make(map[string]struct{}, len(priority))
	for _, k := range priority {
		seen[k] = struct{}{}
	}
	for _, k := range value.Keys(o) {
		if _, ok := seen[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func writeActions(b *strings.Builder, v any) error {
	items, ok := v.([]any)
	if !ok {
		return &UnsupportedValueError{Path: "action", Value: v}
	}
	fmt.Fprintf(b, "%s\"action\": [", indentUnit)
	for i, it := range items {
		a, ok := it.(*value.Object)
		if !ok {
			return &UnsupportedValueError{Path: fmt.Sprintf("action[%d]", i), Value: it}
		}
		if i > 0 {
			b.WriteString(",\n" + actionContinuation)
		}
		fmt.Fprintf(b, `{"name": "%s", "template": "%s"}`, attrText(a, "name"), attrText(a, "template"))
	}
	b.WriteString("],\n")
	return nil
}

// attrText — plain(a[key]) или пусто, если ключа нет.
func attrText(a *value.Object, key string) string {
	v, ok := a.Get(key)
	if !ok {
		return ""
	}
	return plain(v)
}

func writeFields(b *strings.Builder, v any) error {
	items, ok := v.([]any)
	if !ok {
		return &UnsupportedValueError{Path: "fields", Value: v}
	}
	ind2 := strings.Repeat(indentUnit, 2)
	ind3 := strings.Repeat(indentUnit, 3)

	fmt.Fprintf(b, "%s\"fields\": [\n", indentUnit)
	for i, it := range items {
		f, ok := it.(*value.Object)
		if !ok {
			return &UnsupportedValueError{Path: fmt.Sprintf("fields[%d]", i), Value: it}
		}
		b.WriteString(ind2 + "{\n")
		for _, prop := range orderedKeys(f, FieldOrder, true) {
			pv, _ := f.Get(prop)
			s, err := formatAt(pv, 3, fmt.Sprintf("fields[%d].%s", i, prop))
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%s\"%s\": %s,\n", ind3, prop, s)
		}
		// каждое поле, включая последнее, закрывается запятой
		b.WriteString(ind2 + "},\n")
	}
	b.WriteString(indentUnit + "],\n")
	return nil
}

func writeBaseProps(b *strings.Builder, v any) error {
	bp, ok := v.(*value.Object)
	if !ok {
		return &UnsupportedValueError{Path: "base_props", Value: v}
	}
	ind2 := strings.Repeat(indentUnit, 2)
	ind3 := strings.Repeat(indentUnit, 3)

	b.WriteString(indentUnit + "\"base_props\": {\n")
	for _, prop := range orderedKeys(bp, BasePropsOrder, false) {
		pv, _ := bp.Get(prop)
		path := "base_props." + prop

		switch {
		case prop == "form_submit_style":
			s, err := formatAt(pv, 2, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%s\"%s\": %s,  %s\n", ind2, prop, s, commentFormSubmitStyle)

		case prop == "timeout" && isObjectLike(pv):
			fmt.Fprintf(b, "%s\"%s\": {\n", ind2, prop)
			keys, vals := entries(pv)
			for i, k := range keys {
				fmt.Fprintf(b, "%s\"%s\": %s", ind3, k, plain(vals[i]))
				if i < len(keys)-1 {
					b.WriteString(",\n")
				} else {
					b.WriteString("\n")
				}
			}
			b.WriteString(ind2 + "},\n")

		case prop == "submit_style" && truthy(member(pv, "type")):
			fmt.Fprintf(b, "%s\"%s\": {\n", ind2, prop)
			fmt.Fprintf(b, "%s'type': '%s',  %s\n", ind3, plain(member(pv, "type")), commentSubmitType)
			if ac := member(pv, "alert_content"); truthy(ac) {
				fmt.Fprintf(b, "%s'alert_content': \"%s\",  %s\n", ind3, plain(ac), commentAlertContent)
			}
			b.WriteString(ind2 + "},\n")

		case prop == "custom_style":
			s, err := formatAt(pv, 2, path)
			if err != nil {
				return err
			}
			// последний ключ блока, без запятой
			fmt.Fprintf(b, "%s\"%s\": %s\n", ind2, prop, s)

		default:
			s, err := formatAt(pv, 2, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%s\"%s\": %s,\n", ind2, prop, s)
		}
	}
	b.WriteString("\n" + indentUnit + "},\n")
	return nil
}

func writeCustomActions(b *strings.Builder, v any) error {
	items, ok := v.([]any)
	if !ok {
		return &UnsupportedValueError{Path: "custom_actions", Value: v}
	}
	ind2 := strings.Repeat(indentUnit, 2)
	ind3 := strings.Repeat(indentUnit, 3)

	b.WriteString(indentUnit + commentCustomActions + "\n")
	b.WriteString(indentUnit + "\"custom_actions\": [\n")
	for i, it := range items {
		a, ok := it.(*value.Object)
		if !ok {
			return &UnsupportedValueError{Path: fmt.Sprintf("custom_actions[%d]", i), Value: it}
		}
		b.WriteString(ind2 + "{\n")
		for _, prop := range orderedKeys(a, CustomActionOrder, false) {
			pv, _ := a.Get(prop)
			s, err := formatAt(pv, 3, fmt.Sprintf("custom_actions[%d].%s", i, prop))
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "%s\"%s\": %s,\n", ind3, prop, s)
		}
		b.WriteString(ind2 + "},\n")
	}
	b.WriteString(indentUnit + "]\n")
	return nil
}
