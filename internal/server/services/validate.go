package services

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the tag rules of v through the package validator and
// returns its raw error, so callers can inspect validator.ValidationErrors.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// validID reports whether id is a well-formed UUID. Anything else cannot
// name a stored row and is treated as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
