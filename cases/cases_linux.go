//go:build linux

package cases

// This file contains the Linux process and syscall cases.

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/perfgo/latencylab/bench"
	"golang.org/x/sys/unix"
)

// ChildExecEnv overrides the location of the child_exec binary.
const ChildExecEnv = "LATENCYLAB_CHILD_EXEC"

const childExecName = "child_exec"

func platformFactories() []func() bench.Case {
	factories := []func() bench.Case{NewGetpid}
	if rawForkSupported {
		factories = append(factories, NewForkWait)
	}
	return append(factories, NewForkExecWait, NewExecCmd)
}

type getpid struct {
	bench.NopLifecycle
}

// NewGetpid returns the "getpid" case: one cheap raw syscall.
func NewGetpid() bench.Case {
	return getpid{}
}

func (getpid) Name() string { return "getpid" }

func (getpid) RunOnce(bench.State) {
	unix.Getpid()
}

type forkWait struct {
	bench.NopLifecycle
}

// NewForkWait returns the "fork_wait" case: fork a child that exits
// immediately and reap it.
func NewForkWait() bench.Case {
	return forkWait{}
}

func (forkWait) Name() string { return "fork_wait" }

func (forkWait) RunOnce(bench.State) {
	pid, err := forkAndExit()
	if err != nil {
		return
	}
	waitChild(pid)
}

// childExec carries the resolved child binary between runs of the exec cases.
type childExec struct {
	path string
	argv []string
	attr *syscall.ProcAttr
}

func setupChildExec() (bench.State, error) {
	path, err := ResolveChildExec()
	if err != nil {
		return nil, err
	}
	return &childExec{
		path: path,
		argv: []string{path},
		attr: &syscall.ProcAttr{Env: []string{}},
	}, nil
}

type forkExecWait struct{}

// NewForkExecWait returns the "fork_exec_wait" case: fork, exec child_exec
// and reap it.
func NewForkExecWait() bench.Case {
	return forkExecWait{}
}

func (forkExecWait) Name() string { return "fork_exec_wait" }

func (forkExecWait) Setup() (bench.State, error) {
	return setupChildExec()
}

func (forkExecWait) RunOnce(s bench.State) {
	child := s.(*childExec)
	pid, err := syscall.ForkExec(child.path, child.argv, child.attr)
	if err != nil {
		return
	}
	waitChild(pid)
}

func (forkExecWait) Teardown(bench.State) error { return nil }

type execCmd struct{}

// NewExecCmd returns the "exec_cmd" case: run child_exec through os/exec,
// the path most Go programs take to start a process.
func NewExecCmd() bench.Case {
	return execCmd{}
}

func (execCmd) Name() string { return "exec_cmd" }

func (execCmd) Setup() (bench.State, error) {
	return setupChildExec()
}

func (execCmd) RunOnce(s bench.State) {
	child := s.(*childExec)
	_ = exec.Command(child.path).Run()
}

func (execCmd) Teardown(bench.State) error { return nil }

// ResolveChildExec locates the child_exec binary: the path in
// LATENCYLAB_CHILD_EXEC if set, otherwise child_exec next to the running
// executable.
func ResolveChildExec() (string, error) {
	if override := os.Getenv(ChildExecEnv); override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("%s was set but does not exist: %s", ChildExecEnv, override)
		}
		return override, nil
	}

	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path (set %s): %w", ChildExecEnv, err)
	}
	candidate := filepath.Join(filepath.Dir(self), childExecName)
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("%s not found next to %s: %s (set %s to override)", childExecName, filepath.Base(self), candidate, ChildExecEnv)
	}
	return candidate, nil
}

// waitChild reaps pid, retrying when interrupted by a signal.
func waitChild(pid int) {
	var status unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &status, 0, nil)
		if !errors.Is(err, unix.EINTR) {
			return
		}
	}
}
