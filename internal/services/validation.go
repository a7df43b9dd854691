package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"luxe/internal/apperror"
)

var validate = validator.New()

// validateStruct runs the struct's validate tags and reports every failing field.
func validateStruct(message string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag()))
	}
	return apperror.Validation(message, details...)
}
