package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bloodGroups = map[string]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {},
	"AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

// FieldError is a single failed validation rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register installs the hospital validation tags on gin's binding engine and
// reports struct fields by their json names.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

// RegisterOn installs the hospital validation tags on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("bloodgroup", validateBloodGroup); err != nil {
		return err
	}
	if err := v.RegisterValidation("triagelevel", validateTriageLevel); err != nil {
		return err
	}
	return nil
}

func validateBloodGroup(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, ok := bloodGroups[strings.ToUpper(s)]
	return ok
}

func validateTriageLevel(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= 1 && n <= 5
}

// Describe flattens a binding error into a readable message.
func Describe(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	fields := Fields(errs)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return strings.Join(parts, "; ")
}

// Fields converts validator errors to FieldErrors
func Fields(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "bloodgroup":
		return "must be a valid blood group"
	case "triagelevel":
		return "must be between 1 and 5"
	case "gtfield":
		return fmt.Sprintf("must be after %s", e.Param())
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
