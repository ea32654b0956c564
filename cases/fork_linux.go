//go:build linux && (amd64 || arm64)

package cases

import "golang.org/x/sys/unix"

// clone's argument order differs between architectures; with only the flags
// argument set it matches fork(2) on the ones listed in the build tag.
const rawForkSupported = true

// forkAndExit forks the process with a raw clone. The child calls
// exit_group immediately without returning into Go code.
//
//go:norace
func forkAndExit() (int, error) {
	pid, _, errno := unix.RawSyscall6(unix.SYS_CLONE, uintptr(unix.SIGCHLD), 0, 0, 0, 0, 0)
	if errno != 0 {
		return 0, errno
	}
	if pid == 0 {
		unix.RawSyscall(unix.SYS_EXIT_GROUP, 0, 0, 0)
	}
	return int(pid), nil
}
