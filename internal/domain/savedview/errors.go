package savedview

import "errors"

var (
	// ErrViewNotFound indicates the saved view doesn't exist for the caller.
	ErrViewNotFound = errors.New("saved view not found")
	// ErrInvalidInput indicates invalid saved view input.
	ErrInvalidInput = errors.New("invalid saved view input")
)
