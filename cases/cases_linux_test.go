package cases

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/perfgo/latencylab/bench"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func trueBinary(t *testing.T) string {
	t.Helper()
	for _, p := range []string{"/bin/true", "/usr/bin/true"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Skip("no true binary available")
	return ""
}

// requireNoChildren fails if the test process still has an unreaped child.
func requireNoChildren(t *testing.T) {
	t.Helper()
	var status unix.WaitStatus
	_, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
	require.ErrorIs(t, err, unix.ECHILD)
}

func TestLinuxCaseOrder(t *testing.T) {
	r := bench.NewRegistry()
	RegisterAll(r)

	want := []string{"noop", "getpid"}
	if rawForkSupported {
		want = append(want, "fork_wait")
	}
	want = append(want, "fork_exec_wait", "exec_cmd")
	require.Equal(t, want, r.Names())
}

func TestGetpid(t *testing.T) {
	c := NewGetpid()
	state, err := c.Setup()
	require.NoError(t, err)
	c.RunOnce(state)
	require.NoError(t, c.Teardown(state))
}

func TestForkWaitReapsChild(t *testing.T) {
	if !rawForkSupported {
		t.Skip("raw fork not supported on this architecture")
	}
	c := NewForkWait()
	for i := 0; i < 10; i++ {
		c.RunOnce(nil)
	}
	requireNoChildren(t)
}

func TestResolveChildExecOverride(t *testing.T) {
	path := trueBinary(t)
	t.Setenv(ChildExecEnv, path)

	got, err := ResolveChildExec()
	require.NoError(t, err)
	require.Equal(t, path, got)
}

func TestResolveChildExecMissingOverride(t *testing.T) {
	t.Setenv(ChildExecEnv, filepath.Join(t.TempDir(), "missing"))

	_, err := ResolveChildExec()
	require.ErrorContains(t, err, ChildExecEnv)
}

func TestResolveChildExecNextToExecutable(t *testing.T) {
	t.Setenv(ChildExecEnv, "")

	// The test binary has no child_exec beside it.
	_, err := ResolveChildExec()
	require.ErrorContains(t, err, "child_exec not found")
}

func TestExecCasesRunChild(t *testing.T) {
	t.Setenv(ChildExecEnv, trueBinary(t))

	for _, c := range []bench.Case{NewForkExecWait(), NewExecCmd()} {
		t.Run(c.Name(), func(t *testing.T) {
			state, err := c.Setup()
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				c.RunOnce(state)
			}
			require.NoError(t, c.Teardown(state))
			requireNoChildren(t)
		})
	}
}

func TestExecCasesSetupFailsWithoutChild(t *testing.T) {
	t.Setenv(ChildExecEnv, filepath.Join(t.TempDir(), "missing"))

	for _, c := range []bench.Case{NewForkExecWait(), NewExecCmd()} {
		_, err := c.Setup()
		require.Error(t, err, c.Name())
	}
}
