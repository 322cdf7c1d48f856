package ticket

import "errors"

var (
	// ErrPermissionDenied is returned when a close or reopen reason is
	// submitted by someone other than the ticket owner. Nothing is mutated.
	ErrPermissionDenied = errors.New("only the ticket opener may do this")

	// ErrExternalResource is returned when the channel rename or permission
	// sync fails. There is no retry and no rollback of state persisted
	// before the failure; the caller decides whether to try again.
	ErrExternalResource = errors.New("channel update failed")
)
