// Package validate checks request payloads with go-playground/validator.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate *validator.Validate

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Slugs that would be shadowed by fixed routes. Routing is case-sensitive.
var reservedSlugs = []string{"links", "health"}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("slug", validateSlug)
}

// Struct validates s field by field in declaration order and returns the first failure.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	return errors.New(message(fieldErrs[0]))
}

func validateSlug(fl validator.FieldLevel) bool {
	return IsValidSlug(fl.Field().String())
}

func IsValidSlug(slug string) bool {
	return slugPattern.MatchString(slug) && !IsReservedSlug(slug)
}

func IsReservedSlug(slug string) bool {
	return lo.Contains(reservedSlugs, slug)
}

func message(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "slug":
		return fmt.Sprintf("%s must be 1-64 letters, digits, '-' or '_' and not one of %s",
			field, strings.Join(reservedSlugs, ", "))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// EchoValidator plugs Struct into echo.Context.Validate.
type EchoValidator struct{}

func (EchoValidator) Validate(i any) error {
	return Struct(i)
}
