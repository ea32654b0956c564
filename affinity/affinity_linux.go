//go:build linux

package affinity

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/perfgo/latencylab/model"
	"golang.org/x/sys/unix"
)

// MaxCPU is the number of CPUs a unix.CPUSet can describe.
const MaxCPU = len(unix.CPUSet{}) * 64

const onlinePath = "/sys/devices/system/cpu/online"

// initial is the affinity mask of the thread running package init, which is
// the process's mask before any pinning.
var initial, initialErr = func() (unix.CPUSet, error) {
	var set unix.CPUSet
	err := unix.SchedGetaffinity(0, &set)
	return set, err
}()

// Pin restricts the calling OS thread to cpu.
func Pin(cpu int) error {
	if err := validate(cpu); err != nil {
		return err
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("%w: failed to pin to cpu %d: %w", model.ErrResource, cpu, err)
	}
	return nil
}

// Reset restores the calling OS thread to the process's initial mask.
func Reset() error {
	if initialErr != nil {
		return fmt.Errorf("%w: initial affinity unknown: %w", model.ErrResource, initialErr)
	}
	set := initial
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("%w: failed to reset affinity: %w", model.ErrResource, err)
	}
	return nil
}

// ThreadID returns the kernel id of the calling OS thread.
func ThreadID() int {
	return unix.Gettid()
}

// Current returns the CPUs the calling OS thread may run on, ascending.
func Current() ([]int, error) {
	return OfThread(0)
}

// OfThread returns the CPUs thread tid may run on, ascending. A tid of 0
// means the calling thread.
func OfThread(tid int) ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(tid, &set); err != nil {
		return nil, fmt.Errorf("%w: failed to read affinity of thread %d: %w", model.ErrResource, tid, err)
	}
	var cpus []int
	for cpu := 0; cpu < MaxCPU; cpu++ {
		if set.IsSet(cpu) {
			cpus = append(cpus, cpu)
		}
	}
	return cpus, nil
}

// OnlineCPUs returns the number of online CPUs, falling back to the number
// of CPUs usable by the process when sysfs is unavailable.
func OnlineCPUs() int {
	data, err := os.ReadFile(onlinePath)
	if err == nil {
		if n, err := parseCPUList(strings.TrimSpace(string(data))); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// parseCPUList counts the CPUs in a kernel cpu list such as "0-3,8,10-11".
func parseCPUList(list string) (int, error) {
	if list == "" {
		return 0, fmt.Errorf("empty cpu list")
	}
	count := 0
	for _, part := range strings.Split(list, ",") {
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(lo)
		if err != nil {
			return 0, fmt.Errorf("invalid cpu list %q: %w", list, err)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(hi); err != nil {
				return 0, fmt.Errorf("invalid cpu list %q: %w", list, err)
			}
		}
		if last < first {
			return 0, fmt.Errorf("invalid cpu range %q", part)
		}
		count += last - first + 1
	}
	return count, nil
}
