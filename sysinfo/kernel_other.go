//go:build !unix

package sysinfo

// KernelVersion is not available on this platform.
func KernelVersion() string {
	return unknown
}
