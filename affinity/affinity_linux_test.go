//go:build linux

package affinity

import (
	"runtime"
	"slices"
	"testing"

	"github.com/perfgo/latencylab/model"
	"github.com/stretchr/testify/require"
)

// onLockedThread runs fn on a fresh goroutine locked to its OS thread. The
// thread is never unlocked, so any affinity change dies with it.
func onLockedThread(fn func()) {
	done := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer close(done)
		fn()
	}()
	<-done
}

func TestPinCurrentCPU(t *testing.T) {
	allowed, err := Current()
	require.NoError(t, err)
	require.NotEmpty(t, allowed)
	target := allowed[len(allowed)-1]

	var pinErr error
	var after []int
	onLockedThread(func() {
		pinErr = Pin(target)
		after, _ = Current()
	})

	require.NoError(t, pinErr)
	require.Equal(t, []int{target}, after)
}

func TestPinAbsentCPUIsResourceError(t *testing.T) {
	allowed, err := Current()
	require.NoError(t, err)
	absent := MaxCPU - 1
	if slices.Contains(allowed, absent) {
		t.Skip("every representable cpu is present")
	}

	var pinErr error
	onLockedThread(func() {
		pinErr = Pin(absent)
	})
	require.ErrorIs(t, pinErr, model.ErrResource)
}

func TestReset(t *testing.T) {
	allowed, err := Current()
	require.NoError(t, err)

	var resetErr error
	var after []int
	onLockedThread(func() {
		if err := Pin(allowed[0]); err != nil {
			resetErr = err
			return
		}
		resetErr = Reset()
		after, _ = Current()
	})

	require.NoError(t, resetErr)
	require.Equal(t, allowed, after)
}

func TestOnlineCPUs(t *testing.T) {
	require.GreaterOrEqual(t, OnlineCPUs(), 1)
}

func TestParseCPUList(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "single", in: "0", want: 1},
		{name: "range", in: "0-7", want: 8},
		{name: "mixed", in: "0-3,8,10-11", want: 7},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "a-b", wantErr: true},
		{name: "reversed range", in: "4-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCPUList(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
