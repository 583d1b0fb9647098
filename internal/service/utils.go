package service

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/xjudge/xjudge/internal/xjudge_errors"
)

// custom function for translating validation error into user readable errors
func translateValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
	case "numeric":
		return fmt.Sprintf("%s must be a numeric value", e.Field())
	default:
		return fmt.Sprintf("Validation failed for %s with rule %s", e.Field(), e.Tag())
	}
}

// ValidateInput validates the input struct using the shared validator.
// If validation fails, it logs and returns the first user-friendly
// error message wrapped in ErrInvalidInput.
func ValidateInput(inp any) error {
	if err := validate.Struct(inp); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			if len(validationErrors) > 0 {
				errorMessage := translateValidationError(validationErrors[0])
				log.Error(errorMessage)
				return fmt.Errorf("%w, %s", xjudge_errors.ErrInvalidInput, errorMessage)
			}
		}
	}
	return nil
}

// ValidationFieldErrors returns a field -> message map for every failed
// rule, used by the api layer to build validation error payloads.
func ValidationFieldErrors(inp any) map[string]string {
	err := validate.Struct(inp)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[fieldError.Field()] = translateValidationError(fieldError)
	}
	return fields
}
