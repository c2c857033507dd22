package jsonkv

import "errors"

var (
	// ErrInvalidArgument covers malformed command input: unparseable
	// paths, values that are not JSON, non-numeric operands.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRootRequired: SET on a missing key must address the root.
	ErrRootRequired = errors.New("new objects must be created at the root")
)

// IsInvalidArgument reports whether err classifies as client-visible
// bad input rather than an internal failure.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrRootRequired)
}
