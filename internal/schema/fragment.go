package schema

import (
	"strings"

	"adminschema/internal/value"
)

// ParseFragment разбирает вставленный пользователем JSON (choices,
// field_chains, show_rule, ...). Если текст не разбирается, возвращается
// сама строка: одно битое поле не должно ронять всё сохранение.
func ParseFragment(text string) any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := value.Decode([]byte(text))
	if err != nil {
		return text
	}
	return v
}

// NewValidator собирает элемент validators. Неразбираемые kws сохраняются
// как {"raw": "<текст>"}.
func NewValidator(name, kws string) *value.Object {
	out := value.ObjectOf("name", name)
	kws = strings.TrimSpace(kws)
	if kws == "" {
		return out
	}
	if parsed, ok := ParseFragment(kws).(*value.Object); ok {
		out.Set("kws", parsed)
	} else {
		out.Set("kws", value.ObjectOf("raw", kws))
	}
	return out
}

// validateShowRule: {name, hideis, и ровно одно из value|contain}.
// Строка (сохранённый сырой фрагмент) не проверяется.
func validateShowRule(v any) ValidationErrors {
	o, ok := v.(*value.Object)
	if !ok {
		return nil
	}
	var errs ValidationErrors
	if s, _ := value.String(o, "name"); s == "" {
		errs = append(errs, ferr(ErrRequired, "show_rule.name", "show_rule needs 'name'"))
	}
	if value.Has(o, "value") == value.Has(o, "contain") {
		errs = append(errs, ferr(ErrRequired, "show_rule", "show_rule needs exactly one of 'value' or 'contain'"))
	}
	return errs
}
