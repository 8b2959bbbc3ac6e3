package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("resource conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrPickWindowClosed rejects submissions at or after the episode's lock
	// time; ErrCastawayNotEligible rejects castaways outside the member's
	// active roster or no longer playable.
	ErrPickWindowClosed    = errors.New("pick window closed")
	ErrCastawayNotEligible = errors.New("castaway not eligible")
)
