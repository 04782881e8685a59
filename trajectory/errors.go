package trajectory

import "github.com/pkg/errors"

// Sentinel error categories, tested with errors.Is, mirroring the
// categories used by the jitter package.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidState        = errors.New("invalid state")
	ErrNotImplemented      = errors.New("not implemented")
	ErrCommandNotSupported = errors.New("command not supported")

	// ErrLegacyFormat is returned by Deserialize when the input stream
	// does not begin with this package's binary magic number. Parsing
	// the legacy XML format those streams use is an external
	// collaborator's responsibility; callers that need it should catch
	// this sentinel and hand the stream to that parser themselves.
	ErrLegacyFormat = errors.New("legacy (non-binary) trajectory format")
)
