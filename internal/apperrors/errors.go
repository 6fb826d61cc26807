package apperrors

import "errors"

// Error kinds shared across the core packages. Stores and the dispatcher wrap
// these with fmt.Errorf("%w: ...") so callers can match with errors.Is while
// still seeing a specific message.
var (
	ErrNotFound  = errors.New("not found")
	ErrInvalid   = errors.New("invalid input")
	ErrForbidden = errors.New("mutating statement rejected in read-only mode")
	ErrBusy      = errors.New("a query is already running on this connection")
)
