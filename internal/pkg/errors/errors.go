package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidPermutation marks a reorder whose ids are not exactly the current card ids.
	ErrInvalidPermutation = errors.New("invalid permutation")
	// ErrInvalidTransition marks a playback operation invoked from a state that forbids it.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
)
