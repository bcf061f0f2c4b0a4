package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/parcelkeep/internal/constants"

	"github.com/shopspring/decimal"
)

// Kind 字段校验类型
type Kind string

const (
	KindName    Kind = "name"
	KindEmail   Kind = "email"
	KindContact Kind = "contact"
	KindAddress Kind = "address"
	KindStatus  Kind = "status"
	KindAmount  Kind = "amount"
)

const (
	addressMinLength = 10
	addressMaxLength = 100
	contactMinDigits = 10
	contactMaxDigits = 15
	amountMaxScale   = 2
)

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	addressPattern = regexp.MustCompile(`^[a-zA-Z0-9\s,.'-]+$`)
)

// rule 单条校验规则，message 模板中 %[1]v 为被拒绝的值，%[2]s 为字段名
type rule struct {
	check   func(value interface{}) bool
	message string
}

var rules = map[Kind]rule{
	KindName: {
		check:   isValidName,
		message: "%[1]v is not a valid %[2]s! Only letters and spaces are allowed.",
	},
	KindEmail: {
		check:   isValidEmail,
		message: "%[1]v is not a valid email address!",
	},
	KindContact: {
		check:   isValidContact,
		message: "%[1]v is not a valid contact number! It must contain 10 to 15 digits.",
	},
	KindAddress: {
		check:   isValidAddress,
		message: "%[1]v is not a valid address! It must be 10-100 characters of letters, numbers, spaces and , . ' -",
	},
	KindStatus: {
		check:   isValidStatus,
		message: "%[1]v is not a valid status! Allowed values: " + strings.Join(constants.PackageStatuses, ", "),
	},
	KindAmount: {
		check:   isValidAmount,
		message: "%[1]v is not a valid %[2]s! It must be greater than 0 with at most 2 decimal places.",
	},
}

// FieldError 字段校验失败
type FieldError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Field 待校验字段
type Field struct {
	Name  string
	Kind  Kind
	Value interface{}
}

// Required 构造必填字段缺失错误
func Required(field string) *FieldError {
	return &FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s is required", field),
	}
}

// Check 按字段类型校验单个值
func Check(field string, kind Kind, value interface{}) error {
	r, ok := rules[kind]
	if !ok {
		return fmt.Errorf("unknown validation kind: %s", kind)
	}
	if r.check(value) {
		return nil
	}
	return &FieldError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(r.message, displayValue(value), field),
	}
}

// Validate 依次校验给定字段，返回第一个失败
func Validate(fields ...Field) error {
	for _, f := range fields {
		if err := Check(f.Name, f.Kind, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// IsValidStatus 判断包裹状态是否合法
func IsValidStatus(status string) bool {
	return isValidStatus(status)
}

func isValidName(value interface{}) bool {
	text, ok := value.(string)
	if !ok {
		return false
	}
	return namePattern.MatchString(text)
}

func isValidEmail(value interface{}) bool {
	text, ok := value.(string)
	if !ok {
		return false
	}
	return emailPattern.MatchString(text)
}

func isValidContact(value interface{}) bool {
	var digits string
	switch v := value.(type) {
	case int64:
		if v <= 0 {
			return false
		}
		digits = strconv.FormatInt(v, 10)
	case int:
		if v <= 0 {
			return false
		}
		digits = strconv.Itoa(v)
	case string:
		digits = strings.TrimSpace(v)
		if _, err := strconv.ParseUint(digits, 10, 64); err != nil {
			return false
		}
	default:
		return false
	}
	return len(digits) >= contactMinDigits && len(digits) <= contactMaxDigits
}

func isValidAddress(value interface{}) bool {
	text, ok := value.(string)
	if !ok {
		return false
	}
	length := utf8.RuneCountInString(text)
	if length < addressMinLength || length > addressMaxLength {
		return false
	}
	return addressPattern.MatchString(text)
}

func isValidStatus(value interface{}) bool {
	text, ok := value.(string)
	if !ok {
		return false
	}
	for _, status := range constants.PackageStatuses {
		if text == status {
			return true
		}
	}
	return false
}

func isValidAmount(value interface{}) bool {
	var d decimal.Decimal
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case decimal.Decimal:
		d = v
	default:
		return false
	}
	return d.GreaterThan(decimal.Zero) && d.Equal(d.Truncate(amountMaxScale))
}

func displayValue(value interface{}) interface{} {
	if value == nil {
		return "<empty>"
	}
	if f, ok := value.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return value
}
