package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is shared by every record type. Field errors carry JSON names.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	RegisterCustomValidators(v)
	return v
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("phone", ValidatePhoneRule)
}

func ValidatePhoneRule(fl validator.FieldLevel) bool {
	return ValidatePhone(fl.Field().String())
}

// ValidatePhone accepts an optional leading '+' followed by 6 to 15 digits.
// Spaces, dots and dashes are tolerated as separators.
func ValidatePhone(phone string) bool {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	digits := 0
	for _, char := range phone {
		switch {
		case char >= '0' && char <= '9':
			digits++
		case char == ' ' || char == '-' || char == '.':
		default:
			return false
		}
	}
	return digits >= 6 && digits <= 15
}
