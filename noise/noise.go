// Package noise runs an optional CPU-bound interference thread next to a
// measured benchmark.
package noise

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/perfgo/latencylab/affinity"
	"github.com/perfgo/latencylab/model"
	"github.com/rs/zerolog"
)

type state uint8

const (
	stateIdle state = iota
	stateStarting
	stateRunning
)

// sink receives the final spin value so the workload cannot be optimized out.
var sink atomic.Uint64

// Runner owns at most one interference goroutine, locked to its own OS
// thread. The zero value is not usable; create one with New.
//
// Runner is not safe for concurrent use: Start and Stop must be called from
// the same goroutine.
type Runner struct {
	logger  zerolog.Logger
	running atomic.Bool
	done    chan struct{}
	state   state
	mode    model.NoiseMode
	cpu     int
	tid     int

	// Overridable for tests.
	pin      func(cpu int) error
	unpin    func() error
	onlineFn func() int
}

// New returns an idle Runner.
func New(logger zerolog.Logger) *Runner {
	return &Runner{
		logger:   logger,
		mode:     model.NoiseOff,
		cpu:      -1,
		tid:      -1,
		pin:      affinity.Pin,
		unpin:    affinity.Reset,
		onlineFn: affinity.OnlineCPUs,
	}
}

// Mode returns the mode of the last successful Start.
func (r *Runner) Mode() model.NoiseMode {
	return r.mode
}

// CPU returns the CPU the noise thread is pinned to, or -1.
func (r *Runner) CPU() int {
	return r.cpu
}

// ThreadID returns the OS thread id of the running noise goroutine, or -1.
func (r *Runner) ThreadID() int {
	if r.state != stateRunning {
		return -1
	}
	return r.tid
}

// Running reports whether an interference goroutine is active.
func (r *Runner) Running() bool {
	return r.state == stateRunning
}

// TargetCPU computes where the noise thread goes for cfg: the pinned CPU for
// same, the next online CPU for other and -1 for free.
func TargetCPU(cfg model.NoiseConfig, online int) (int, error) {
	if cfg.Mode.RequiresPin() {
		if !cfg.Pin.Enabled {
			return -1, fmt.Errorf("%w: noise mode %s requires pinning", model.ErrConfiguration, cfg.Mode)
		}
		if cfg.Pin.CPU < 0 {
			return -1, fmt.Errorf("%w: pin cpu must be >= 0 for noise mode %s", model.ErrConfiguration, cfg.Mode)
		}
	}

	switch cfg.Mode {
	case model.NoiseSame:
		return cfg.Pin.CPU, nil
	case model.NoiseOther:
		if online < 2 {
			return -1, fmt.Errorf("%w: cannot pick a different cpu (only %d online)", model.ErrEnvironment, online)
		}
		candidate := (cfg.Pin.CPU + 1) % online
		if candidate == cfg.Pin.CPU {
			return -1, fmt.Errorf("%w: failed to pick a cpu other than %d", model.ErrEnvironment, cfg.Pin.CPU)
		}
		return candidate, nil
	default:
		return -1, nil
	}
}

// Start launches the interference workload and blocks until it is confirmed
// running on its target CPU, or confirmed not started. Mode off is a no-op.
func (r *Runner) Start(cfg model.NoiseConfig) error {
	if r.state != stateIdle {
		return fmt.Errorf("%w: noise runner already started", model.ErrConfiguration)
	}
	if cfg.Mode == "" || cfg.Mode == model.NoiseOff {
		r.mode = model.NoiseOff
		r.cpu = -1
		return nil
	}
	if _, err := model.ParseNoiseMode(string(cfg.Mode)); err != nil {
		return err
	}

	target, err := TargetCPU(cfg, r.onlineFn())
	if err != nil {
		return err
	}

	r.state = stateStarting
	r.running.Store(true)
	r.done = make(chan struct{})
	started := make(chan error, 1)

	go r.loop(target, started)

	if err := <-started; err != nil {
		<-r.done
		r.done = nil
		r.running.Store(false)
		r.state = stateIdle
		return fmt.Errorf("failed to start noise thread: %w", err)
	}

	r.mode = cfg.Mode
	r.cpu = target
	r.state = stateRunning
	r.logger.Debug().Str("mode", cfg.Mode.String()).Int("cpu", target).Msg("Noise thread running")
	return nil
}

// loop is the body of the interference goroutine. It reports the outcome of
// placing its thread exactly once on started before spinning.
func (r *Runner) loop(target int, started chan<- error) {
	// Never unlocked: the thread carries a custom affinity and must exit
	// with the goroutine.
	runtime.LockOSThread()
	defer close(r.done)
	r.tid = affinity.ThreadID()

	var err error
	if target >= 0 {
		err = r.pin(target)
	} else if err = r.unpin(); affinity.IsUnsupported(err) {
		// Without affinity control the thread was never restricted.
		err = nil
	}
	if err != nil {
		started <- err
		return
	}
	started <- nil

	spin(&r.running)
}

// spin burns cycles without allocating or entering the kernel until running
// is cleared.
func spin(running *atomic.Bool) {
	v := uint64(0x12345678)
	for running.Load() {
		v = v*1664525 + 1013904223
	}
	sink.Store(v)
}

// Stop signals the workload to exit and waits for it. Calling Stop when
// nothing is running is a no-op.
func (r *Runner) Stop() {
	r.running.Store(false)
	if r.done != nil {
		<-r.done
		r.done = nil
		r.logger.Debug().Int("cpu", r.cpu).Msg("Noise thread stopped")
	}
	r.state = stateIdle
}

// Close stops the runner. It always returns nil.
func (r *Runner) Close() error {
	r.Stop()
	return nil
}
