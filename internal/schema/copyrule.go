package schema

import "adminschema/internal/value"

// CopyRule — три состояния копирования поля. В документе они кодируются
// несимметрично: отсутствие ключа, пустой объект {} и строка "关闭".
type CopyRule int

const (
	CopyDefault CopyRule = iota
	CopyWithButton
	CopyDisabled
)

const (
	copyDisabledText = "关闭"
	copyLegacyOpen   = "开启"
)

func (c CopyRule) String() string {
	switch c {
	case CopyWithButton:
		return "with_button"
	case CopyDisabled:
		return "disabled"
	}
	return "default"
}

// DocValue — значение ключа copy_rule; ok=false, когда ключ не пишется.
func (c CopyRule) DocValue() (any, bool) {
	switch c {
	case CopyWithButton:
		return value.NewObject(), true
	case CopyDisabled:
		return copyDisabledText, true
	}
	return nil, false
}

// ParseCopyRule разбирает значение copy_rule из документа. Устаревший
// {"status": "开启"} означает состояние по умолчанию. ok=false для формы,
// которую нельзя свести к трём состояниям.
func ParseCopyRule(v any) (CopyRule, bool) {
	switch t := v.(type) {
	case string:
		if t == copyDisabledText {
			return CopyDisabled, true
		}
	case *value.Object:
		if t.Len() == 0 {
			return CopyWithButton, true
		}
		if s, _ := value.String(t, "status"); t.Len() == 1 && s == copyLegacyOpen {
			return CopyDefault, true
		}
	}
	return CopyDefault, false
}

// ParseCopyRuleName разбирает имя состояния из API.
func ParseCopyRuleName(s string) (CopyRule, bool) {
	switch s {
	case "", "default":
		return CopyDefault, true
	case "with_button":
		return CopyWithButton, true
	case "disabled":
		return CopyDisabled, true
	}
	return CopyDefault, false
}
