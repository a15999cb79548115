package value

import (
	"errors"
	"fmt"
	"sort"

	"github.com/buger/jsonparser"
)

// ErrEmpty — пустой вход Decode.
var ErrEmpty = errors.New("value: empty document")

// Decode разбирает JSON в упорядоченное дерево. Ключи идут в порядке
// документа, числа становятся float64.
func Decode(data []byte) (any, error) {
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		if typ == jsonparser.NotExist {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return decode(raw, typ)
}

// DecodeObject — Decode для документа, корень которого объект.
func DecodeObject(data []byte) (*Object, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	o, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("decode: root is %s, want object", Kind(v))
	}
	return o, nil
}

func decode(raw []byte, typ jsonparser.ValueType) (any, error) {
	switch typ {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(raw)
	case jsonparser.Number:
		return jsonparser.ParseFloat(raw)
	case jsonparser.String:
		return jsonparser.ParseString(raw)
	case jsonparser.Array:
		out := []any{}
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(v []byte, t jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			item, err := decode(v, t)
			if err != nil {
				inner = err
				return
			}
			out = append(out, item)
		})
		if err != nil {
			return nil, fmt.Errorf("decode array: %w", err)
		}
		if inner != nil {
			return nil, inner
		}
		return out, nil
	case jsonparser.Object:
		o := NewObject()
		// ObjectEach отдаёт ключ уже без экранирования
		err := jsonparser.ObjectEach(raw, func(k []byte, v []byte, t jsonparser.ValueType, _ int) error {
			key := string(k)
			item, err := decode(v, t)
			if err != nil {
				return err
			}
			o.Set(key, item)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("decode object: %w", err)
		}
		return o, nil
	}
	return nil, fmt.Errorf("decode: unsupported token type %s", typ)
}

// Kind называет форму v для сообщений об ошибках.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case []any, []string:
		return "array"
	case *Object:
		return "object"
	}
	if _, ok := Number(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
