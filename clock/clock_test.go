package clock

import (
	"runtime"
	"testing"

	"github.com/perfgo/latencylab/model"
	"github.com/stretchr/testify/require"
)

func TestMonoNeverDecreases(t *testing.T) {
	prev := Mono()
	for i := 0; i < 10000; i++ {
		now := Mono()
		require.GreaterOrEqual(t, now, prev)
		prev = now
	}
}

func TestNewFallsBackToMono(t *testing.T) {
	require.Equal(t, model.ClockMono, Resolve(model.ClockMono))
	require.Equal(t, model.ClockMono, Resolve(""))

	if runtime.GOOS != "linux" {
		require.Equal(t, model.ClockMono, Resolve(model.ClockRaw))
	}

	c := New(model.ClockRaw)
	a := c()
	b := c()
	require.GreaterOrEqual(t, b, a)
}
