package service

import "errors"

// Sentinel kinds for recommendation errors.
var (
	// ErrUserNotFound marks a request for a user the profile store
	// does not know. Propagated to the caller as-is.
	ErrUserNotFound = errors.New("user not found")

	// ErrInternal folds every unexpected failure (collaborator error,
	// timeout, malformed data). The cause is wrapped and logged; the
	// caller sees only the kind.
	ErrInternal = errors.New("recommendation failed")
)
