package model

import "errors"

// Sentinel kinds for model validation errors. These allow errors.Is from callers.
var (
	ErrMissingEventID       = errors.New("missing event id")
	ErrMissingUserID        = errors.New("missing user id")
	ErrUnknownKind          = errors.New("unknown event kind")
	ErrMissingTimestamp     = errors.New("missing timestamp")
	ErrUnknownFamily        = errors.New("unknown metric family")
	ErrInvalidTimeRange     = errors.New("invalid time range")
	ErrScoreOutOfRange      = errors.New("score out of range")
	ErrConfidenceOutOfRange = errors.New("confidence out of range")
	ErrInvalidSchedule      = errors.New("invalid schedule")
)
