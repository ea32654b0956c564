package cases

import (
	"testing"

	"github.com/perfgo/latencylab/bench"
	"github.com/stretchr/testify/require"
)

func TestRegisterAllKeepsFactoryOrder(t *testing.T) {
	r := bench.NewRegistry()
	RegisterAll(r)

	factories := Factories()
	names := r.Names()
	require.Len(t, names, len(factories))
	for i, factory := range factories {
		require.Equal(t, factory().Name(), names[i])
	}
}

func TestNoopIsDefault(t *testing.T) {
	r := bench.NewRegistry()
	RegisterAll(r)

	c, err := r.Resolve("")
	require.NoError(t, err)
	require.Equal(t, "noop", c.Name())

	state, err := c.Setup()
	require.NoError(t, err)
	c.RunOnce(state)
	require.NoError(t, c.Teardown(state))
}

func TestCaseNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, factory := range Factories() {
		name := factory().Name()
		require.False(t, seen[name], "duplicate case %s", name)
		seen[name] = true
	}
}
