package jitter

import "github.com/pkg/errors"

// Sentinel error categories. Concrete errors wrap one of these with
// errors.Wrapf so callers can test with errors.Is while still getting a
// specific message.
var (
	// ErrInvalidArgument marks a caller-supplied value that is malformed
	// or out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState marks an operation attempted while the Jitterer or
	// one of its collaborators is not in a state that permits it.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotImplemented marks a feature referenced but intentionally
	// unimplemented by the configured RobotAdapter.
	ErrNotImplemented = errors.New("not implemented")
	// ErrCommandNotSupported marks a command rejected because the
	// underlying numeric backend cannot service it.
	ErrCommandNotSupported = errors.New("command not supported")
)
