package model

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their serialized names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(errors.WithStack(err))
	}

	return v
}

// validateStruct checks the constraints declared by the validate tags of s
// and reports every failing field in a *ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe), fieldMessage(fe))
	}

	return verr.Err()
}

// fieldPath returns the dotted path of the failing field, skipping the root
// struct and the embedded ones which have no serialized name.
func fieldPath(fe validator.FieldError) string {
	segments := strings.Split(fe.Namespace(), ".")

	path := make([]string, 0, len(segments))
	for _, s := range segments[1:] {
		if s == "" || unicode.IsUpper([]rune(s)[0]) {
			continue
		}
		path = append(path, s)
	}

	if len(path) == 0 {
		return fe.Field()
	}

	return strings.Join(path, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "required_with":
		return fmt.Sprintf("is required when %s is set", serializedName(fe.Param()))
	case "email":
		return "is not a valid email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must not be before %s", serializedName(fe.Param()))
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "unique":
		return "must not contain duplicates"
	default:
		return fmt.Sprintf("failed on the '%s' constraint", fe.Tag())
	}
}

// serializedName turns the Go name of a sibling field, as used in tag
// parameters, into its serialized form.
func serializedName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
