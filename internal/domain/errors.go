package domain

import "errors"

var (
	ErrAuth          = errors.New("authentication failed")
	ErrForbidden     = errors.New("access denied")
	ErrProfileLookup = errors.New("profile lookup failed")
	ErrDataLoad      = errors.New("data load failed")
	ErrGeneration    = errors.New("generation failed")
	ErrPersistence   = errors.New("persistence failed")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidJob    = errors.New("invalid job")
	ErrJobInProgress = errors.New("job already in progress")
	ErrNotFound      = errors.New("not found")
)
