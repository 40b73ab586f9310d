package admin

import "errors"

// Closed error set for the admin surface. Handlers map these to HTTP
// statuses at the boundary; nothing else crosses it.
var (
	ErrInvalidInput    = errors.New("admin: invalid input")
	ErrUnauthenticated = errors.New("admin: unauthenticated")
	ErrNotAdmin        = errors.New("admin: not an admin")
	ErrForbidden       = errors.New("admin: forbidden")
	ErrNotFound        = errors.New("admin: not found")
	ErrConflict        = errors.New("admin: conflict")
	ErrUnavailable     = errors.New("admin: service unavailable")
)
