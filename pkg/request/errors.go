package request

import "errors"

var (
	// ErrInternalServer is returned to clients when a handler fails for a
	// reason the client cannot fix.
	ErrInternalServer = errors.New("internal server error")

	// ErrUnauthorized is returned to clients that are not logged in.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned to clients whose role does not permit the
	// request.
	ErrForbidden = errors.New("forbidden")
)
