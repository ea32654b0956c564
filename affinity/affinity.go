// Package affinity binds OS threads to logical CPUs.
//
// Affinity is applied to the calling OS thread, so callers must hold
// runtime.LockOSThread for as long as the placement matters. A goroutine that
// exits while still locked takes its thread with it, which is how pinned
// threads are kept out of the Go scheduler's pool.
package affinity

import (
	"errors"
	"fmt"

	"github.com/perfgo/latencylab/model"
)

// ErrUnsupported is returned on platforms without thread affinity control.
var ErrUnsupported = fmt.Errorf("%w: cpu pinning is only supported on Linux", model.ErrResource)

// validate rejects indexes that cannot be represented in a CPU mask.
func validate(cpu int) error {
	if cpu < 0 {
		return fmt.Errorf("%w: cpu index must be >= 0, got %d", model.ErrConfiguration, cpu)
	}
	if cpu >= MaxCPU {
		return fmt.Errorf("%w: cpu index %d is out of range (max %d)", model.ErrConfiguration, cpu, MaxCPU-1)
	}
	return nil
}

// IsUnsupported reports whether err means pinning is unavailable here.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
