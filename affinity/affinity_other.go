//go:build !linux

package affinity

import "runtime"

// MaxCPU mirrors the Linux mask size so validation behaves the same.
const MaxCPU = 1024

// Pin always fails with ErrUnsupported after validating cpu.
func Pin(cpu int) error {
	if err := validate(cpu); err != nil {
		return err
	}
	return ErrUnsupported
}

// Reset always fails with ErrUnsupported.
func Reset() error {
	return ErrUnsupported
}

// Current always fails with ErrUnsupported.
func Current() ([]int, error) {
	return nil, ErrUnsupported
}

// ThreadID returns -1; thread ids are not exposed on this platform.
func ThreadID() int {
	return -1
}

// OfThread always fails with ErrUnsupported.
func OfThread(int) ([]int, error) {
	return nil, ErrUnsupported
}

// OnlineCPUs returns the number of CPUs usable by the process.
func OnlineCPUs() int {
	return runtime.NumCPU()
}
