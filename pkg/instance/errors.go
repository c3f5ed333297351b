package instance

import "errors"

var (
	// ErrNotRanked is returned when a hospital/resident pair has no rank.
	ErrNotRanked = errors.New("not ranked")
	// ErrInvalidPartner is returned for partner lookups on single residents.
	ErrInvalidPartner = errors.New("resident is not a couple member")
	// ErrInvariantViolation signals asymmetric or otherwise broken preference lists.
	ErrInvariantViolation = errors.New("invariant violation")
)
