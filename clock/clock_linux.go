//go:build linux

package clock

import (
	"sync"

	"golang.org/x/sys/unix"
)

var probeRaw = sync.OnceValue(func() bool {
	var ts unix.Timespec
	return unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts) == nil
})

func rawAvailable() bool {
	return probeRaw()
}

// Raw reads CLOCK_MONOTONIC_RAW, which is not subject to NTP slewing.
func Raw() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		return Mono()
	}
	return uint64(ts.Sec)*1_000_000_000 + uint64(ts.Nsec)
}
