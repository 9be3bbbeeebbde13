package order

import "errors"

// Service errors
var (
	ErrInvalidItems      = errors.New("some items are invalid or inactive for this tenant")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrderState = errors.New("order state does not allow this transition")
)
