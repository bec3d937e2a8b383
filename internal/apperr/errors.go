package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrAuth signals a failed authentication handshake; the connection is never admitted.
var ErrAuth = errors.New("authentication failed")

// ErrForbidden signals that an authenticated caller is not permitted to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a uniqueness or state conflict.
var ErrConflict = errors.New("conflict")

// ErrNoDevice signals that an identity has no registered push device.
// This is an expected dispatch outcome, not a failure.
var ErrNoDevice = errors.New("no device registered")
