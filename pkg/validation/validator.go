package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	// MaxParameterKey bounds method parameter names
	MaxParameterKey = 100

	paramKeyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.-]*$`)
)

func init() {
	validate = validator.New()
}

// ValidateStruct checks v against its `validate` struct tags
func ValidateStruct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// ValidateParameterKey validates a method parameter name
func ValidateParameterKey(key string) error {
	if key == "" {
		return errors.New("parameter key cannot be empty")
	}
	if len(key) > MaxParameterKey {
		return fmt.Errorf("parameter key exceeds maximum length of %d characters", MaxParameterKey)
	}
	if !paramKeyPattern.MatchString(key) {
		return fmt.Errorf("parameter key '%s' is invalid (must start with letter or underscore)", key)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
