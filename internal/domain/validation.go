package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// getValidator lazily initializes the shared validator instance.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
	})
	return validatorInst
}

// ValidateStruct validates a struct using go-playground/validator and maps
// errors into the package's ValidationErrors format for consistent handling.
func ValidateStruct(model interface{}) error {
	if err := getValidator().Struct(model); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			mapped := make(ValidationErrors, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				mapped = append(mapped, &ValidationError{
					Field:   fieldErr.Field(),
					Message: formatValidationMessage(fieldErr),
					Type:    ErrInvalidField,
				})
			}
			return mapped
		}
		return err
	}
	return nil
}

func formatValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "field is required"
	case "max":
		return fmt.Sprintf("must not exceed %s", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "url":
		return "must be a valid URL"
	default:
		return err.Error()
	}
}

// Sanitizer strips HTML from user-supplied free text before it is persisted.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *Sanitizer) Sanitize(input string) string {
	return s.policy.Sanitize(input)
}

func (s *Sanitizer) SanitizeMap(inputs map[string]string) map[string]string {
	out := make(map[string]string, len(inputs))
	for k, v := range inputs {
		out[s.policy.Sanitize(k)] = s.policy.Sanitize(v)
	}
	return out
}
