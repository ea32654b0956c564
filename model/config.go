package model

import (
	"fmt"
	"math"
	"strings"
)

// NoiseMode selects how the background interference thread is placed.
type NoiseMode string

const (
	NoiseOff   NoiseMode = "off"
	NoiseFree  NoiseMode = "free"
	NoiseSame  NoiseMode = "same"
	NoiseOther NoiseMode = "other"
)

// NoiseModes lists the accepted noise modes in display order.
var NoiseModes = []NoiseMode{NoiseOff, NoiseFree, NoiseSame, NoiseOther}

// ParseNoiseMode parses a noise mode label. The empty string means off.
func ParseNoiseMode(s string) (NoiseMode, error) {
	if s == "" {
		return NoiseOff, nil
	}
	for _, m := range NoiseModes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return NoiseOff, fmt.Errorf("%w: unknown noise mode %q (expected off, free, same or other)", ErrConfiguration, s)
}

// RequiresPin reports whether the mode places the noise thread relative to
// the pinned measurement CPU.
func (m NoiseMode) RequiresPin() bool {
	return m == NoiseSame || m == NoiseOther
}

func (m NoiseMode) String() string {
	if m == "" {
		return string(NoiseOff)
	}
	return string(m)
}

// ClockKind selects the clock source used for timing samples.
type ClockKind string

const (
	ClockMono ClockKind = "mono"
	ClockRaw  ClockKind = "raw"
)

// ParseClockKind parses a clock label. The empty string means mono.
func ParseClockKind(s string) (ClockKind, error) {
	switch strings.ToLower(s) {
	case "", string(ClockMono):
		return ClockMono, nil
	case string(ClockRaw):
		return ClockRaw, nil
	}
	return ClockMono, fmt.Errorf("%w: unknown clock %q (expected mono or raw)", ErrConfiguration, s)
}

// PinRequest asks for the measurement thread to be bound to one CPU.
// CPU is meaningless when Enabled is false.
type PinRequest struct {
	Enabled bool
	CPU     int
}

// NoiseConfig describes the optional interference workload.
type NoiseConfig struct {
	Mode NoiseMode
	Pin  PinRequest
}

// RunConfig is the complete input of a single benchmark run.
type RunConfig struct {
	// Case name; empty selects the first registered case.
	Case string
	// Measured iterations, one sample each.
	Iterations uint64
	// Untimed iterations executed before measuring.
	Warmup uint64
	Pin    PinRequest
	Noise  NoiseConfig
	Clock  ClockKind
	// Disable the garbage collector for the warmup and measured loops.
	DisableGC bool
}

// Validate checks the invariants that can be verified without touching the OS.
func (c RunConfig) Validate() error {
	if c.Iterations > math.MaxInt {
		return fmt.Errorf("%w: iterations must be <= %d, got %d", ErrConfiguration, math.MaxInt, c.Iterations)
	}
	if c.Pin.Enabled && c.Pin.CPU < 0 {
		return fmt.Errorf("%w: pin cpu must be >= 0, got %d", ErrConfiguration, c.Pin.CPU)
	}
	if c.Noise.Mode.RequiresPin() && !c.Noise.Pin.Enabled {
		return fmt.Errorf("%w: noise mode %s requires pinning", ErrConfiguration, c.Noise.Mode)
	}
	if _, err := ParseNoiseMode(string(c.Noise.Mode)); err != nil {
		return err
	}
	if _, err := ParseClockKind(string(c.Clock)); err != nil {
		return err
	}
	return nil
}
