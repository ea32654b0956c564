package bench

// This file contains the runner that executes one case under a RunConfig:
// pin, start noise, setup, warmup, measure, teardown, stop noise.

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/perfgo/latencylab/affinity"
	"github.com/perfgo/latencylab/clock"
	"github.com/perfgo/latencylab/model"
	"github.com/perfgo/latencylab/noise"
	"github.com/perfgo/latencylab/stats"
	"github.com/rs/zerolog"
)

// NoiseRunner is the part of noise.Runner the harness depends on.
type NoiseRunner interface {
	Start(cfg model.NoiseConfig) error
	Stop()
	CPU() int
}

// Result is the outcome of one run.
type Result struct {
	Case      string
	Samples   stats.SampleSet
	Quantiles stats.Quantiles
	// CPU the noise thread ran on, -1 when unpinned or off
	NoiseCPU int
	// Clock actually used, after any fallback
	Clock model.ClockKind
}

// Runner executes benchmark cases.
type Runner struct {
	logger    zerolog.Logger
	registry  *Registry
	clock     clock.Clock
	clockKind model.ClockKind
	pin       func(cpu int) error
	newNoise  func(logger zerolog.Logger) NoiseRunner
}

// Option customizes a Runner.
type Option func(*Runner)

// WithClock replaces the clock selected from RunConfig.Clock. kind is
// reported in Result.Clock.
func WithClock(kind model.ClockKind, c clock.Clock) Option {
	return func(r *Runner) {
		r.clock = c
		r.clockKind = kind
	}
}

// WithPinner replaces affinity.Pin.
func WithPinner(pin func(cpu int) error) Option {
	return func(r *Runner) { r.pin = pin }
}

// WithNoise replaces the noise runner factory.
func WithNoise(newNoise func(logger zerolog.Logger) NoiseRunner) Option {
	return func(r *Runner) { r.newNoise = newNoise }
}

// NewRunner creates a Runner resolving cases from registry.
func NewRunner(logger zerolog.Logger, registry *Registry, opts ...Option) *Runner {
	r := &Runner{
		logger:   logger,
		registry: registry,
		pin:      affinity.Pin,
		newNoise: func(logger zerolog.Logger) NoiseRunner { return noise.New(logger) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type outcome struct {
	result *Result
	err    error
}

// Run executes the case named by cfg.Case and returns its samples and
// quantiles.
//
// The protocol runs on a dedicated goroutine locked to its OS thread. If the
// thread was pinned it is never unlocked and is discarded by the runtime when
// the goroutine exits.
//
// Failures before the measured loop abort the run and return a nil Result. A
// teardown failure returns the complete Result together with the error.
func (r *Runner) Run(cfg model.RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := r.registry.Resolve(cfg.Case)
	if err != nil {
		return nil, err
	}

	done := make(chan outcome, 1)
	go func() {
		runtime.LockOSThread()
		res, pinned, err := r.execute(c, cfg)
		if !pinned {
			runtime.UnlockOSThread()
		}
		done <- outcome{result: res, err: err}
	}()
	out := <-done

	if out.result != nil {
		out.result.Quantiles = stats.Compute(out.result.Samples)
		r.logger.Debug().
			Str("case", out.result.Case).
			Int("samples", len(out.result.Samples)).
			Uint64("p50", out.result.Quantiles.P50).
			Uint64("p99", out.result.Quantiles.P99).
			Msg("Computed quantiles")
	}
	return out.result, out.err
}

// execute runs the protocol on the calling, locked goroutine. pinned reports
// whether the thread's affinity was changed.
func (r *Runner) execute(c Case, cfg model.RunConfig) (res *Result, pinned bool, err error) {
	logger := r.logger.With().Str("case", c.Name()).Logger()

	if cfg.Pin.Enabled {
		if err := r.pin(cfg.Pin.CPU); err != nil {
			return nil, false, fmt.Errorf("pin cpu %d: %w", cfg.Pin.CPU, err)
		}
		pinned = true
		logger.Debug().Int("cpu", cfg.Pin.CPU).Msg("Pinned measurement thread")
	}

	res = &Result{
		Case:     c.Name(),
		NoiseCPU: -1,
		Clock:    clock.Resolve(cfg.Clock),
	}
	if r.clock != nil {
		res.Clock = r.clockKind
	}

	if cfg.Noise.Mode != "" && cfg.Noise.Mode != model.NoiseOff {
		// The noise goroutine holds a P for the whole run; with a single P
		// the measurement goroutine would only run when it is preempted.
		if runtime.GOMAXPROCS(0) < 2 {
			prev := runtime.GOMAXPROCS(2)
			defer runtime.GOMAXPROCS(prev)
		}
		nr := r.newNoise(r.logger)
		if err := nr.Start(cfg.Noise); err != nil {
			return nil, pinned, fmt.Errorf("start noise: %w", err)
		}
		defer nr.Stop()
		res.NoiseCPU = nr.CPU()
		logger.Debug().Str("mode", cfg.Noise.Mode.String()).Int("noise_cpu", res.NoiseCPU).Msg("Started noise")
	}

	state, err := c.Setup()
	if err != nil {
		return nil, pinned, fmt.Errorf("setup %s: %w", c.Name(), err)
	}

	now := r.clock
	if now == nil {
		now = clock.New(cfg.Clock)
	}

	logger.Debug().
		Uint64("warmup", cfg.Warmup).
		Uint64("iters", cfg.Iterations).
		Bool("gc_off", cfg.DisableGC).
		Msg("Measuring")
	res.Samples = measure(c, state, cfg, now)

	if err := c.Teardown(state); err != nil {
		return res, pinned, fmt.Errorf("teardown %s: %w", c.Name(), err)
	}
	return res, pinned, nil
}

// measure runs the warmup loop followed by the timed loop. Only the RunOnce
// call sits between the two clock reads.
func measure(c Case, state State, cfg model.RunConfig, now clock.Clock) stats.SampleSet {
	if cfg.DisableGC {
		runtime.GC()
		prev := debug.SetGCPercent(-1)
		defer debug.SetGCPercent(prev)
	}

	for i := uint64(0); i < cfg.Warmup; i++ {
		c.RunOnce(state)
	}

	samples := make(stats.SampleSet, cfg.Iterations)
	for i := range samples {
		start := now()
		c.RunOnce(state)
		end := now()
		samples[i] = end - start
	}
	return samples
}
