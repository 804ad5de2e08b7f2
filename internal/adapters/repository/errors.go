package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEvent = errors.New("duplicate event id")
	ErrClosed         = errors.New("store closed")
)

// IsDuplicate reports whether err marks an already-recorded event id.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEvent)
}
