package model

import "errors"

// Error kinds reported by the harness. Concrete errors wrap one of these and
// are matched with errors.Is.
var (
	// ErrConfiguration covers unknown cases, invalid CPU indexes and noise
	// modes used without pinning.
	ErrConfiguration = errors.New("configuration error")
	// ErrResource covers the OS rejecting an affinity change or a thread
	// failing to start.
	ErrResource = errors.New("resource error")
	// ErrEnvironment covers machines that cannot satisfy a request, such as
	// a single online CPU for noise=other.
	ErrEnvironment = errors.New("environment error")
)
