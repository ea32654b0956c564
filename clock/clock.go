// Package clock provides the nanosecond time sources used to bracket
// measured iterations.
package clock

import (
	"time"

	"github.com/perfgo/latencylab/model"
)

// Clock returns a monotonically increasing nanosecond count. Values are only
// meaningful relative to other values of the same Clock.
type Clock func() uint64

var base = time.Now()

// Mono reads the Go runtime's monotonic clock.
func Mono() uint64 {
	return uint64(time.Since(base))
}

// New returns the clock for kind. A raw clock that is unavailable on this
// platform degrades to Mono without reporting an error.
func New(kind model.ClockKind) Clock {
	if kind == model.ClockRaw && rawAvailable() {
		return Raw
	}
	return Mono
}

// Resolve reports which clock New actually selects for kind.
func Resolve(kind model.ClockKind) model.ClockKind {
	if kind == model.ClockRaw && rawAvailable() {
		return model.ClockRaw
	}
	return model.ClockMono
}
