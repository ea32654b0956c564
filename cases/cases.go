// Package cases contains the built-in benchmark cases.
//
// Cases are registered explicitly: Factories lists every case available on
// the current platform and RegisterAll adds them to a registry in that order.
package cases

import "github.com/perfgo/latencylab/bench"

// Factories returns the constructors of all built-in cases in registration
// order. The first entry is the default case.
func Factories() []func() bench.Case {
	return append([]func() bench.Case{NewNoop}, platformFactories()...)
}

// RegisterAll constructs every built-in case and registers it with r.
func RegisterAll(r *bench.Registry) {
	for _, factory := range Factories() {
		r.Register(factory())
	}
}

type noop struct {
	bench.NopLifecycle
}

// NewNoop returns the "noop" case, which measures the cost of the timing
// loop itself.
func NewNoop() bench.Case {
	return noop{}
}

func (noop) Name() string { return "noop" }

func (noop) RunOnce(bench.State) {
	barrier()
}

// barrier is an empty call the compiler cannot inline or remove, so the
// timed region always contains one real call.
//
//go:noinline
func barrier() {}
