//go:build unix

package sysinfo

import "golang.org/x/sys/unix"

// KernelVersion returns the kernel release reported by uname.
func KernelVersion() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return unknown
	}
	return unix.ByteSliceToString(u.Release[:])
}
