package errs

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrBadEvent marks a message that can never be processed and must be skipped.
	ErrBadEvent = errors.New("malformed loan event")
)
