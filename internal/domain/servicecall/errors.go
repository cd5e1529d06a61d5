package servicecall

import "errors"

var (
	ErrCallNotFound       = errors.New("service call not found")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrEmptyNote          = errors.New("note text cannot be empty")
	ErrDescriptionMissing = errors.New("description is required")
)
