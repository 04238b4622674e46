package layout

import "github.com/pkg/errors"

// Common errors.
var (
	// ErrInvalidArgument marks a contract violation: invalid shape, axis out of
	// range, mismatched operands, invalid order and the like.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotAvailable marks an operation that exists but is not supported for
	// the element type (or is not implemented for the requested variant).
	ErrNotAvailable = errors.New("operation not available")
)

// Invalidf wraps ErrInvalidArgument with a formatted message.
func Invalidf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// NotAvailablef wraps ErrNotAvailable with a formatted message.
func NotAvailablef(format string, args ...any) error {
	return errors.Wrapf(ErrNotAvailable, format, args...)
}
