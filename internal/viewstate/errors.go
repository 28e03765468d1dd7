package viewstate

import "errors"

var (
	// ErrInvalidMode indicates an unknown view mode.
	ErrInvalidMode = errors.New("invalid view mode")
	// ErrInvalidPage indicates a page number below 1.
	ErrInvalidPage = errors.New("invalid page")
	// ErrForbidden indicates the caller's role may not perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrEmptySelection indicates a bulk action with nothing selected.
	ErrEmptySelection = errors.New("selection is empty")
	// ErrMutationInFlight indicates the project already has a pending mutation.
	ErrMutationInFlight = errors.New("mutation already in flight")
)
