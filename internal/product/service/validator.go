package service

import (
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/abgdnv/productcatalog/internal/product/store"
	"github.com/go-playground/validator/v10"
)

const invalidNameMessage = "product name is invalid, it cannot be empty"

// ValidationError reports the fields of a product that broke a validation rule.
// It matches ErrInvalidName with errors.Is.
type ValidationError struct {
	// Fields maps a field name to the rule it failed, e.g. "Name" -> "failed on rule: required".
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return invalidNameMessage
}

func (e *ValidationError) Unwrap() error {
	return perrors.ErrInvalidName
}

// Validator checks products before they are persisted.
// The only rule is that the name is present and non-empty; whitespace-only names pass.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator backed by go-playground/validator struct tags.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate returns nil for a valid product, or a *ValidationError.
func (v *Validator) Validate(product *store.Product) error {
	if product == nil {
		return &ValidationError{Fields: map[string]string{"Name": "failed on rule: required"}}
	}
	if err := v.validate.Struct(product); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string, len(validationErrors))
			for _, fieldErr := range validationErrors {
				// fieldErr.Tag() returns "required", "max", etc.
				fields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			return &ValidationError{Fields: fields}
		}
		return fmt.Errorf("failed to validate product: %w", err)
	}
	return nil
}
