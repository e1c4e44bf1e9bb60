package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// present fails on empty and whitespace-only strings.
	if err := v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// checkFields validates a tagged field view. The validator stops at the
// first failing tag of a field, so a blank field reports only presence.
func checkFields(view any) []FieldError {
	err := validate.Struct(view)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		panic(err)
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		n, _ := strconv.Atoi(fe.Param())
		switch fe.Tag() {
		case "min":
			out = append(out, TooShort(fe.Field(), n))
		case "max":
			out = append(out, TooLong(fe.Field(), n))
		default:
			out = append(out, Required(fe.Field()))
		}
	}
	return out
}

// fieldRule adapts a tagged view of T into a rule that runs on every save.
func fieldRule[T, V any](name string, view func(*T) V) Rule[T] {
	return Rule[T]{
		Name:  name,
		Scope: OnSave,
		Check: func(candidate, _ *T) []FieldError {
			return checkFields(view(candidate))
		},
	}
}
