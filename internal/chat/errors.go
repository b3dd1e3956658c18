package chat

import "errors"

// Validation failures are normal client noise: the payload is dropped
// without persistence, broadcast, or an error frame.
var (
	// ErrNoContent marks a payload whose text is empty after trimming and
	// whose file field resolves to nothing.
	ErrNoContent = errors.New("payload has neither text nor file")

	// ErrNoParties marks a payload missing both the sender and the target
	// (receiver or group id).
	ErrNoParties = errors.New("payload missing sender and target")
)
