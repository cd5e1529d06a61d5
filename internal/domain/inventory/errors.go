package inventory

import "errors"

var (
	ErrItemNotFound    = errors.New("inventory item not found")
	ErrItemInactive    = errors.New("inventory item is inactive")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativeStock   = errors.New("stock levels cannot be negative")
)
