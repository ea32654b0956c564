//go:build !linux

package cases

import "github.com/perfgo/latencylab/bench"

func platformFactories() []func() bench.Case {
	return nil
}
