package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// currencyRe accepts plain decimal amounts with optional symbol, thousands
// separators and up to two decimals ("19.99", "$1,200", "7").
var currencyRe = regexp.MustCompile(`^[+-]?\$?(\d{1,3}(,\d{3})*|\d+)(\.\d{1,2})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	registerCurrency(v)
	return v
}

func registerCurrency(v *validator.Validate) {
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return currencyRe.MatchString(fl.Field().String())
	})
}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the currency rule for price fields.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		registerCurrency(v)
	}
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsCurrency reports whether s is a syntactically valid currency amount.
func IsCurrency(s string) bool {
	return currencyRe.MatchString(s)
}

// ToDetails converts binding errors into a map[field]message suitable for
// API error details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "currency":
		return "must be a valid amount"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	case "eqfield":
		return "must be equal to " + fe.Param() + " field"
	case "url":
		return "must be a valid URL"
	default:
		return "validation failed for '" + fe.Tag() + "'"
	}
}
