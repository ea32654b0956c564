package model

import "time"

// RunMetadata describes the conditions a benchmark run was measured under.
// It is written next to the raw samples as meta.json.
type RunMetadata struct {
	// Unique ID for this run
	ID string `json:"id"`
	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp"`
	// Name of the measured case
	Case string `json:"case"`
	// Number of measured iterations
	Iterations uint64 `json:"iters"`
	// Number of untimed warmup iterations
	Warmup uint64 `json:"warmup"`
	// CPU model string as reported by the kernel
	CPUModel string `json:"cpu_model"`
	// Number of online CPUs
	CPUCores uint32 `json:"cpu_cores"`
	// Kernel release
	KernelVersion string `json:"kernel_version"`
	// Shell-quoted command line of the run
	CommandLine string `json:"command_line"`
	// Go toolchain that built the binary
	GoVersion string `json:"go_version"`
	// Build settings recorded by the toolchain (e.g. -gcflags, CGO_ENABLED)
	BuildFlags string `json:"build_flags"`
	// Whether the measurement thread was pinned
	Pinning bool `json:"pinning"`
	// CPU the measurement thread was pinned to (only set when pinning)
	PinnedCPU *int `json:"pinned_cpu,omitempty"`
	// Noise mode used for the run
	NoiseMode NoiseMode `json:"noise_mode"`
	// CPU the noise thread ran on, -1 when unpinned or off
	NoiseCPU int `json:"noise_cpu"`
	// Clock source used for timing
	Clock ClockKind `json:"clock"`
	// Whether the garbage collector was disabled while measuring
	GCDisabled bool `json:"gc_disabled"`
	// Free-form labels supplied by the user
	Tags []string `json:"tags"`
	// Git information of the working directory (if any)
	Git *Git `json:"git,omitempty"`
}

// Git contains git repository information
type Git struct {
	// Git commit hash at time of execution
	Commit string `json:"commit,omitempty"`
	// Git branch at time of execution
	Branch string `json:"branch,omitempty"`
}
