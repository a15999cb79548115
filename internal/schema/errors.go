package schema

import (
	"fmt"
	"strings"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/duke-git/lancet/v2/strutil"
)

type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Коды ошибок, которыми будем пользоваться
const (
	ErrRequired        = "required"
	ErrTypeMismatch    = "type_mismatch"
	ErrEnumInvalid     = "enum_invalid"
	ErrUniqueViolation = "unique_violation"
	ErrRefNotFound     = "ref_not_found"
	ErrNotFound        = "not_found"
	ErrNotApplicable   = "not_applicable"
)

// ValidationErrors — отказ до любой мутации; отдаётся клиенту списком.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func ferr(code, field, msg string) FieldError {
	return FieldError{Code: code, Field: field, Message: msg}
}

func orNil(errs ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateComplete проверяет, что модель готова к экспорту: name и label заданы.
func ValidateComplete(m *Model) error {
	var errs ValidationErrors
	if strutil.IsBlank(m.Name) {
		errs = append(errs, ferr(ErrRequired, "name", "Field 'name' is required"))
	}
	if strutil.IsBlank(m.Label) {
		errs = append(errs, ferr(ErrRequired, "label", "Field 'label' is required"))
	}
	return orNil(errs)
}

// ValidateBasic проверяет name/label/entry из панели базовой конфигурации.
func ValidateBasic(name, label string, entry Entry) error {
	var errs ValidationErrors
	if strutil.IsBlank(name) {
		errs = append(errs, ferr(ErrRequired, "name", "Field 'name' is required"))
	}
	if strutil.IsBlank(label) {
		errs = append(errs, ferr(ErrRequired, "label", "Field 'label' is required"))
	}
	if entry != "" && entry != EntryList && entry != EntryAdd {
		errs = append(errs, ferr(ErrEnumInvalid, "entry", fmt.Sprintf("Invalid value for 'entry': %q (allowed: list|add)", entry)))
	}
	return orNil(errs)
}

// ValidateField проверяет поле; others — остальные поля модели (для уникальности имени).
func ValidateField(f Field, others []Field) error {
	var errs ValidationErrors
	if strutil.IsBlank(f.Name) {
		errs = append(errs, ferr(ErrRequired, "name", "Field 'name' is required"))
	}
	if strutil.IsBlank(f.Label) {
		errs = append(errs, ferr(ErrRequired, "label", "Field 'label' is required"))
	}
	if strutil.IsBlank(f.Type) {
		errs = append(errs, ferr(ErrRequired, "type", "Field 'type' is required"))
	} else if !slice.Contain(FieldTypes, f.Type) {
		errs = append(errs, ferr(ErrEnumInvalid, "type", fmt.Sprintf("Invalid value for 'type': %q", f.Type)))
	}
	for _, o := range others {
		if o.ID != f.ID && o.Name == f.Name && f.Name != "" {
			errs = append(errs, ferr(ErrUniqueViolation, "name", "Field '"+f.Name+"' already exists"))
			break
		}
	}
	if sr, ok := f.Attr("show_rule"); ok {
		errs = append(errs, validateShowRule(sr)...)
	}
	return orNil(errs)
}

// ValidateActions: имена из словаря, не более одного действия на имя,
// шаблон из списка допустимых для действия.
func ValidateActions(actions []Action) error {
	var errs ValidationErrors
	seen := map[string]bool{}
	for i, a := range actions {
		path := fmt.Sprintf("action[%d]", i)
		tpls, ok := ActionTemplates[a.Name]
		if !ok {
			errs = append(errs, ferr(ErrEnumInvalid, path+".name", fmt.Sprintf("Invalid action %q", a.Name)))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, ferr(ErrUniqueViolation, path+".name", fmt.Sprintf("Action %q listed twice", a.Name)))
			continue
		}
		seen[a.Name] = true
		if a.Template != "" && !slice.Contain(tpls, a.Template) {
			errs = append(errs, ferr(ErrEnumInvalid, path+".template",
				fmt.Sprintf("Invalid template %q for action %q (allowed: %s)", a.Template, a.Name, strings.Join(tpls, "|"))))
		}
	}
	return orNil(errs)
}

func ValidateCustomAction(a CustomAction) error {
	var errs ValidationErrors
	if strutil.IsBlank(a.ActionName) {
		errs = append(errs, ferr(ErrRequired, "action_name", "Field 'action_name' is required"))
	}
	if strutil.IsBlank(a.Label) {
		errs = append(errs, ferr(ErrRequired, "label", "Field 'label' is required"))
	}
	if !slice.Contain(CustomActionTypes, a.Action) {
		errs = append(errs, ferr(ErrEnumInvalid, "action",
			fmt.Sprintf("Invalid value for 'action': %q (allowed: %s)", a.Action, strings.Join(CustomActionTypes, "|"))))
	}
	return orNil(errs)
}
