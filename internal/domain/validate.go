package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Decimals and dates are structs, so hand the validator comparable values instead.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch val := field.Interface().(type) {
		case decimal.Decimal:
			return val.InexactFloat64()
		case decimal.NullDecimal:
			if !val.Valid {
				return nil
			}
			return val.Decimal.InexactFloat64()
		case Date:
			if val.IsZero() {
				return nil
			}
			return val.Time
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{}, Date{})
	return v
}

// Money is stored as NUMERIC(12, 2): two decimal places, below 10^10.
const moneyScale = 2

var moneyLimit = decimal.New(1, 10)

// checkMoney rejects amounts the store would round or overflow.
func checkMoney(field string, d decimal.Decimal) error {
	if !d.Round(moneyScale).Equal(d) {
		return NewValidationError(field, "must have at most 2 decimal places")
	}
	if d.Abs().GreaterThanOrEqual(moneyLimit) {
		return NewValidationError(field, "must be less than 10000000000")
	}
	return nil
}

// validateStruct runs the struct tags and reports the first failure as a field-level
// ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", err.Error())
	}
	fe := fieldErrs[0]
	return NewValidationError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "uuid":
		return "must be a valid identifier"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
