package api

import (
	"fmt"

	"adminschema/internal/schema"
	"adminschema/internal/value"
)

// fieldFromBody разбирает тело запроса поля. Кроме документной формы
// принимаются поля формы редактора: copy_rule_name (default|with_button|disabled)
// и validators, где kws — строка, как её ввёл пользователь.
func fieldFromBody(body *value.Object) (schema.Field, error) {
	var errs schema.ValidationErrors

	ruleName, hasRule := body.Delete("copy_rule_name")
	if vs, ok := body.Get("validators"); ok {
		if items, ok := vs.([]any); ok {
			for i, it := range items {
				o, ok := it.(*value.Object)
				if !ok {
					continue
				}
				kws, ok := o.Get("kws")
				text, isText := kws.(string)
				if !ok || !isText {
					continue
				}
				name, _ := value.String(o, "name")
				items[i] = schema.NewValidator(name, text)
			}
		}
	}

	f, err := schema.FieldFromDocument(body)
	if err != nil {
		return f, err
	}
	if hasRule {
		s, _ := ruleName.(string)
		rule, ok := schema.ParseCopyRuleName(s)
		if !ok {
			errs = append(errs, schema.FieldError{Code: schema.ErrEnumInvalid, Field: "copy_rule_name",
				Message: fmt.Sprintf("Invalid value for 'copy_rule_name': %q (allowed: default|with_button|disabled)", s)})
			return f, errs
		}
		f.CopyRule = rule
	}
	return f, nil
}
