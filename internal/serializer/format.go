package serializer

import (
	"fmt"
	"math"
	"strings"

	"adminschema/internal/value"
)

// inlineArrayLimit: массив скаляров короче этой длины JSON пишется в строку.
const inlineArrayLimit = 60

// copyRuleOpen — старое правило {"status": "开启"}, печатается как {"开启"}.
const copyRuleOpen = "开启"

// FormatValue печатает v по общим правилам на уровне level (уровень — четыре
// пробела).
func FormatValue(v any, level int) (string, error) {
	return formatAt(v, level, "$")
}

func formatAt(v any, level int, path string) (string, error) {
	switch t := v.(type) {
	case nil:
		return "None", nil
	case bool:
		if t {
			return "True", nil
		}
		return "False", nil
	case string:
		return `"` + t + `"`, nil
	case []string:
		return formatArray(value.FromStrings(t), level, path)
	case []any:
		return formatArray(t, level, path)
	case *value.Object:
		return formatObject(t, level, path)
	case map[string]any:
		return formatObject(value.Clone(t).(*value.Object), level, path)
	}
	if f, ok := value.Number(v); ok {
		return value.FormatNumber(f), nil
	}
	return "", &UnsupportedValueError{Path: path, Value: v}
}

func formatArray(items []any, level int, path string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	indent := strings.Repeat(indentUnit, level)

	if allScalar(items) {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = singleQuoted(it)
		}
		if jsonLen(items) < inlineArrayLimit {
			return "[" + strings.Join(parts, ", ") + "]", nil
		}
		sep := indent + indentUnit
		return "[\n" + sep + strings.Join(parts, ",\n"+sep) + "\n" + indent + "]", nil
	}

	if isArray(items[0]) {
		tuples := make([]string, len(items))
		for i, it := range items {
			elems, ok := asArray(it)
			if !ok {
				return "", &UnsupportedValueError{Path: fmt.Sprintf("%s[%d]", path, i), Value: it}
			}
			parts := make([]string, len(elems))
			for j, x := range elems {
				if s, ok := x.(string); ok {
					parts[j] = "'" + s + "'"
				} else {
					parts[j] = joinElem(x)
				}
			}
			tuples[i] = "(" + strings.Join(parts, ", ") + ")"
		}
		return "[" + strings.Join(tuples, ", ") + "]", nil
	}

	lines := make([]string, len(items))
	for i, it := range items {
		s, err := formatAt(it, level+1, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return "", err
		}
		lines[i] = indent + indentUnit + s
	}
	return "[\n" + strings.Join(lines, ",\n") + "\n" + indent + "]", nil
}

func formatObject(o *value.Object, level int, path string) (string, error) {
	keys := value.Keys(o)
	if len(keys) == 0 {
		return "{}", nil
	}
	if len(keys) == 1 && keys[0] == "status" {
		if s, _ := value.String(o, "status"); s == copyRuleOpen {
			return `{"` + copyRuleOpen + `"}`, nil
		}
	}

	if len(keys) <= 3 && compactable(o) {
		parts := make([]string, len(keys))
		for i, k := range keys {
			v, _ := o.Get(k)
			s, err := formatAt(v, level+1, path+"."+k)
			if err != nil {
				return "", err
			}
			parts[i] = `"` + k + `": ` + s
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	}

	indent := strings.Repeat(indentUnit, level)
	var b strings.Builder
	b.WriteString("{\n")
	for i, k := range keys {
		v, _ := o.Get(k)
		s, err := formatAt(v, level+1, path+"."+k)
		if err != nil {
			return "", err
		}
		// строки ключей на удвоенном отступе блока
		b.WriteString(indent + indent + `"` + k + `": ` + s)
		if i < len(keys)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
	b.WriteString(indent + "}")
	return b.String(), nil
}

// compactable: все значения o — строки, числа или массивы не длиннее двух.
func compactable(o *value.Object) bool {
	for p := o.Oldest(); p != nil; p = p.Next() {
		switch t := p.Value.(type) {
		case string:
		case []any:
			if len(t) > 2 {
				return false
			}
		case []string:
			if len(t) > 2 {
				return false
			}
		default:
			if _, ok := value.Number(t); !ok {
				return false
			}
		}
	}
	return true
}

func allScalar(items []any) bool {
	for _, it := range items {
		if _, ok := it.(string); ok {
			continue
		}
		if _, ok := value.Number(it); ok {
			continue
		}
		return false
	}
	return true
}

func singleQuoted(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return plain(v)
}

func isArray(v any) bool {
	_, ok := asArray(v)
	return ok
}

func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		return value.FromStrings(t), true
	}
	return nil, false
}

// plain — текст значения внутри шаблона: строки без кавычек, массивы через
// запятую.
func plain(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case *value.Object:
		return "[object Object]"
	}
	if arr, ok := asArray(v); ok {
		parts := make([]string, len(arr))
		for i, it := range arr {
			parts[i] = joinElem(it)
		}
		return strings.Join(parts, ",")
	}
	if f, ok := value.Number(v); ok {
		return value.FormatNumber(f)
	}
	return fmt.Sprint(v)
}

// joinElem — plain для элементов массива; null пустой.
func joinElem(v any) string {
	if v == nil {
		return ""
	}
	return plain(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := value.Number(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func member(v any, key string) any {
	o, ok := v.(*value.Object)
	if !ok || o == nil {
		return nil
	}
	m, _ := o.Get(key)
	return m
}

func isObjectLike(v any) bool {
	switch t := v.(type) {
	case *value.Object:
		return t != nil
	case []any, []string:
		return true
	}
	return false
}

func entries(v any) ([]string, []any) {
	if o, ok := v.(*value.Object); ok {
		keys := value.Keys(o)
		vals := make([]any, len(keys))
		for i, k := range keys {
			vals[i], _ = o.Get(k)
		}
		return keys, vals
	}
	arr, _ := asArray(v)
	keys := make([]string, len(arr))
	for i := range arr {
		keys[i] = fmt.Sprint(i)
	}
	return keys, arr
}

// jsonLen — длина компактного JSON массива в единицах UTF-16.
func jsonLen(items []any) int {
	n := 2 + len(items) - 1
	for _, it := range items {
		if s, ok := it.(string); ok {
			n += 2
			for _, r := range s {
				switch {
				case r == '"' || r == '\\' || r == '\b' || r == '\f' || r == '\n' || r == '\r' || r == '\t':
					n += 2
				case r < 0x20:
					n += 6
				case r > 0xFFFF:
					n += 2
				default:
					n++
				}
			}
			continue
		}
		f, _ := value.Number(it)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			n += len("null")
		} else {
			n += len(value.FormatNumber(f))
		}
	}
	return n
}
