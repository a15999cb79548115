// Package value — дерево документа схемы с сохранением порядка ключей.
//
// Значение: nil, bool, число (float64 или любой целый тип), string, []any
// или *Object. Объект помнит порядок вставки ключей, поэтому рендер не
// зависит от обхода map.
package value

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object — map со строковыми ключами в порядке вставки.
type Object = orderedmap.OrderedMap[string, any]

func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// ObjectOf собирает объект из пар ключ, значение.
func ObjectOf(kv ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("value.ObjectOf: key %v is not a string", kv[i]))
		}
		o.Set(k, kv[i+1])
	}
	return o
}

// Keys — ключи o по порядку.
func Keys(o *Object) []string {
	if o == nil {
		return nil
	}
	out := make([]string, 0, o.Len())
	for p := o.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

func Has(o *Object, key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.Get(key)
	return ok
}

// String отдаёт o[key], если это строка.
func String(o *Object, key string) (string, bool) {
	if o == nil {
		return "", false
	}
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings приводит v к []string, если все элементы строки.
func Strings(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// FromStrings — []string в виде []any для дерева.
func FromStrings(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// Clone — глубокая копия v.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		return CloneObject(t)
	case []any:
		out := make([]any, len(t))
		for i, it := range t {
			out[i] = Clone(it)
		}
		return out
	case []string:
		return FromStrings(t)
	case map[string]any:
		// неупорядоченный вход бывает только у значений, собранных вручную
		o := NewObject()
		for _, k := range sortedKeys(t) {
			o.Set(k, Clone(t[k]))
		}
		return o
	default:
		return v
	}
}

// CloneObject — глубокая копия o; nil остаётся nil.
func CloneObject(o *Object) *Object {
	if o == nil {
		return nil
	}
	out := NewObject()
	for p := o.Oldest(); p != nil; p = p.Next() {
		out.Set(p.Key, Clone(p.Value))
	}
	return out
}

// Encode пишет v как JSON с порядком ключей объектов.
func Encode(v any) ([]byte, error) {
	return json.Marshal(Clone(v))
}
