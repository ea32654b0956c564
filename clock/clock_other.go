//go:build !linux

package clock

func rawAvailable() bool {
	return false
}

// Raw falls back to Mono on platforms without CLOCK_MONOTONIC_RAW.
func Raw() uint64 {
	return Mono()
}
