package domain

import "errors"

// Sentinel errors wrapped by services and repositories. Handlers map them
// to HTTP status codes; the scheduler uses ErrNotFound to drop requests for
// users that no longer exist.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")
)
