package pending

import "errors"

// Sentinel kinds for pending-action errors.
var (
	ErrNotFound = errors.New("pending action not found")
	ErrExpired  = errors.New("pending action expired")
	ErrInvalid  = errors.New("invalid pending action")
)
