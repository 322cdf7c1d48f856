package dataaccess

import "errors"

var (
	// ErrStorage marks a durable read/write failure on one of the stores.
	// Write failures are always surfaced wrapped in this error; read decode
	// failures on the file stores substitute the empty default instead.
	ErrStorage = errors.New("storage failure")

	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint would be violated,
	// e.g. creating a panel user with a taken username.
	ErrDuplicate = errors.New("already exists")
)
