package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/perfgo/latencylab/model"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `
case: fork_wait
iterations: 20000
warmup: 0
pin: 2
noise: other
clock: raw
gc_off: true
out: results/fork
format: table
profile: true
tags: [baseline, "kernel 6.8"]
`
	cfg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Equal(t, "fork_wait", cfg.Case)
	require.NotNil(t, cfg.Iterations)
	require.Equal(t, uint64(20000), *cfg.Iterations)
	require.NotNil(t, cfg.Warmup)
	require.Zero(t, *cfg.Warmup)
	require.NotNil(t, cfg.Pin)
	require.Equal(t, 2, *cfg.Pin)
	require.Equal(t, "other", cfg.Noise)
	require.Equal(t, "raw", cfg.Clock)
	require.True(t, cfg.GCOff)
	require.Equal(t, "results/fork", cfg.Out)
	require.Equal(t, "table", cfg.Format)
	require.True(t, cfg.Profile)
	require.Equal(t, []string{"baseline", "kernel 6.8"}, cfg.Tags)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Nil(t, cfg.Iterations)
	require.Nil(t, cfg.Pin)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown key", doc: "iters: 10\n"},
		{name: "negative pin", doc: "pin: -1\n"},
		{name: "unknown noise", doc: "noise: loud\n"},
		{name: "unknown clock", doc: "clock: tsc\n"},
		{name: "unknown format", doc: "format: json\n"},
		{name: "wrong type", doc: "iterations: many\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, model.ErrConfiguration)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("case: noop\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "noop", cfg.Case)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
