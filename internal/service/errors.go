package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every NotFoundError
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for requests the store must never see
	ErrValidation = errors.New("validation failed")
)

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id: %s was not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func recipeNotFound(id string) error {
	return &NotFoundError{Entity: "recipe", ID: id}
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
