package domain

import "errors"

// Sentinel errors shared across layers. Adapters wrap these with context via
// fmt.Errorf("%w: ..."); the HTTP layer maps them to status codes with
// errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUpstream         = errors.New("upstream failure")
)
