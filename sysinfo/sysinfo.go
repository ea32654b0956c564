// Package sysinfo collects the machine and build details recorded next to
// every benchmark run.
package sysinfo

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/google/uuid"
	"github.com/perfgo/latencylab/affinity"
	"github.com/perfgo/latencylab/model"
	"github.com/rs/zerolog"
)

const unknown = "unknown"

// Run describes a finished run whose metadata should be collected.
type Run struct {
	// Resolved case name
	Case     string
	Config   model.RunConfig
	NoiseCPU int
	// Clock actually used
	Clock model.ClockKind
	Args  []string
	Tags  []string
	Start time.Time
}

// Collect builds the RunMetadata for run. Details that cannot be read are
// recorded as "unknown" instead of failing the run.
func Collect(logger zerolog.Logger, run Run) model.RunMetadata {
	tags := run.Tags
	if tags == nil {
		tags = []string{}
	}
	meta := model.RunMetadata{
		ID:            uuid.NewString(),
		Timestamp:     run.Start,
		Case:          run.Case,
		Iterations:    run.Config.Iterations,
		Warmup:        run.Config.Warmup,
		CPUModel:      CPUModel(),
		CPUCores:      uint32(affinity.OnlineCPUs()),
		KernelVersion: KernelVersion(),
		CommandLine:   CommandLine(run.Args),
		GoVersion:     runtime.Version(),
		BuildFlags:    BuildFlags(),
		Pinning:       run.Config.Pin.Enabled,
		NoiseMode:     run.Config.Noise.Mode,
		NoiseCPU:      run.NoiseCPU,
		Clock:         run.Clock,
		GCDisabled:    run.Config.DisableGC,
		Tags:          tags,
	}
	if meta.NoiseMode == "" {
		meta.NoiseMode = model.NoiseOff
	}
	if run.Config.Pin.Enabled {
		cpu := run.Config.Pin.CPU
		meta.PinnedCPU = &cpu
	}

	git, err := GitInfo("")
	if err != nil {
		logger.Debug().Err(err).Msg("Not recording git information")
	}
	meta.Git = git
	return meta
}

// CPUModel returns the processor name from /proc/cpuinfo.
func CPUModel() string {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return unknown
	}
	defer f.Close()
	return parseCPUModel(f)
}

// parseCPUModel returns the first non-empty value of the keys different
// architectures use for the processor name.
func parseCPUModel(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "model name", "Hardware", "Processor", "Model":
			if v := strings.TrimSpace(value); v != "" {
				return v
			}
		}
	}
	return unknown
}

// CommandLine renders args as a shell-quoted command line.
func CommandLine(args []string) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}

// buildSettings are the toolchain settings that change generated code.
var buildSettings = []string{"-compiler", "-gcflags", "-ldflags", "-tags", "-race", "-trimpath", "CGO_ENABLED", "GOARCH", "GOAMD64", "GOARM64"}

// BuildFlags returns the code generation settings embedded by the Go
// toolchain, as space-separated key=value pairs.
func BuildFlags() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return unknown
	}
	values := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		values[s.Key] = s.Value
	}
	var parts []string
	for _, key := range buildSettings {
		if v, ok := values[key]; ok {
			parts = append(parts, shellescape.Quote(key+"="+v))
		}
	}
	return strings.Join(parts, " ")
}
