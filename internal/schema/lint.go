package schema

import (
	"errors"
	"fmt"

	"github.com/duke-git/lancet/v2/slice"

	"adminschema/internal/value"
)

type Issue struct {
	Model   string `json:"model"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Lint проверяет набор моделей на противоречия, которые не ловит разбор
// документа: дубли имён, битые ссылки base_props на поля, ключи, не
// применимые к действиям модели.
func Lint(models []*Model) []Issue {
	var issues []Issue
	seen := map[string]bool{}

	for _, m := range models {
		name := m.Name
		if name == "" {
			issues = append(issues, Issue{Model: m.ID, Code: ErrRequired, Message: "model has no name"})
		} else if seen[name] {
			issues = append(issues, Issue{Model: name, Code: ErrUniqueViolation, Message: fmt.Sprintf("model %q defined more than once", name)})
		}
		seen[name] = true

		if err := ValidateActions(m.Actions); err != nil {
			issues = append(issues, fromValidation(name, err)...)
		}
		for _, f := range m.Fields {
			if f.Type != "" && !slice.Contain(FieldTypes, f.Type) {
				issues = append(issues, Issue{Model: name, Field: f.Name, Code: ErrEnumInvalid, Message: fmt.Sprintf("unknown field type %q", f.Type)})
			}
		}

		names := m.FieldNames()
		for _, key := range value.Keys(m.BaseProps) {
			v, _ := m.BaseProps.Get(key)
			var refs []string
			switch {
			case slice.Contain(FieldListKeys, key):
				refs, _ = value.Strings(v)
			case slice.Contain(FilterKeys, key):
				if o, ok := v.(*value.Object); ok {
					refs = value.Keys(o)
				}
			default:
				continue
			}
			if !IsBasePropApplicable(m, key) {
				issues = append(issues, Issue{Model: name, Field: key, Code: ErrNotApplicable,
					Message: fmt.Sprintf("base_props.%s has no matching action", key)})
			}
			for _, r := range slice.Difference(refs, names) {
				issues = append(issues, Issue{Model: name, Field: key, Code: ErrRefNotFound,
					Message: fmt.Sprintf("base_props.%s references unknown field %q", key, r)})
			}
		}
	}
	return issues
}

func fromValidation(model string, err error) []Issue {
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		return []Issue{{Model: model, Code: ErrTypeMismatch, Message: err.Error()}}
	}
	out := make([]Issue, 0, len(ve))
	for _, e := range ve {
		out = append(out, Issue{Model: model, Field: e.Field, Code: e.Code, Message: e.Message})
	}
	return out
}
