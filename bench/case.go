// Package bench holds the benchmark case abstraction, the case registry and
// the runner that executes the timed protocol.
package bench

// State is opaque, case-owned data created by Setup and handed to RunOnce and
// Teardown. Its lifetime is exactly one run; the harness never inspects it.
type State any

// Case is one benchmark variant.
//
// RunOnce is the measured operation and must not allocate per call if the
// results are to be trusted at nanosecond scale. Setup and Teardown run once
// per run, outside the timed region. Embed NopLifecycle for cases without
// either.
type Case interface {
	Name() string
	Setup() (State, error)
	RunOnce(s State)
	Teardown(s State) error
}

// NopLifecycle provides no-op Setup and Teardown methods.
type NopLifecycle struct{}

// Setup returns a nil State.
func (NopLifecycle) Setup() (State, error) { return nil, nil }

// Teardown does nothing.
func (NopLifecycle) Teardown(State) error { return nil }
