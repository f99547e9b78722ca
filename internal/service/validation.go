package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Tags are static; registration only fails on programmer error.
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// isStrongPassword requires at least one upper-case letter, one lower-case
// letter and one digit. Length is checked separately.
func isStrongPassword(s string) bool {
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// validateStruct runs v over s and converts failures into a *ValidationError
// with one entry per JSON field.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		path := fe.Field()
		if i := strings.IndexByte(path, '['); i >= 0 {
			path = path[:i]
		}
		if out.Has(path) {
			continue
		}
		out.Fields = append(out.Fields, FieldError{Path: path, Msg: fieldMessage(path, fe)})
	}
	return out
}

func fieldMessage(path string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "min":
		return path + " must be at least " + fe.Param() + " characters long"
	case "max":
		return path + " must be at most " + fe.Param() + " characters long"
	case "email":
		return "Please provide a valid email"
	case "username":
		return "Username can only contain letters, numbers and underscores"
	case "password":
		return "Password must contain at least one uppercase letter, one lowercase letter and one number"
	case "oneof":
		return path + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return path + " is invalid"
	}
}
