package results

// This file contains the conversion of samples into a pprof profile, so a
// run can be explored with go tool pprof -tags.

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/pprof/profile"
	"github.com/perfgo/latencylab/stats"
)

// band is a decade of latency used as the second stack frame of every
// profile sample.
type band struct {
	name  string
	limit uint64 // exclusive
}

var bands = []band{
	{name: "<100ns", limit: 100},
	{name: "100ns-1us", limit: 1_000},
	{name: "1us-10us", limit: 10_000},
	{name: "10us-100us", limit: 100_000},
	{name: "100us-1ms", limit: 1_000_000},
	{name: "1ms-10ms", limit: 10_000_000},
	{name: ">=10ms", limit: ^uint64(0)},
}

func bandOf(ns uint64) string {
	for _, b := range bands {
		if ns < b.limit {
			return b.name
		}
	}
	return bands[len(bands)-1].name
}

type profileBuilder struct {
	profile   *profile.Profile
	functions map[string]*profile.Function
	locations map[string]*profile.Location
}

func (b *profileBuilder) location(name string) *profile.Location {
	if loc, exists := b.locations[name]; exists {
		return loc
	}

	fn, exists := b.functions[name]
	if !exists {
		fn = &profile.Function{
			ID:   uint64(len(b.profile.Function) + 1),
			Name: name,
		}
		b.functions[name] = fn
		b.profile.Function = append(b.profile.Function, fn)
	}

	loc := &profile.Location{
		ID:   uint64(len(b.profile.Location) + 1),
		Line: []profile.Line{{Function: fn}},
	}
	b.locations[name] = loc
	b.profile.Location = append(b.profile.Location, loc)
	return loc
}

// BuildProfile converts samples into a profile with one sample per distinct
// latency. Each sample carries the numeric label "latency" and the stack
// [latency band, case].
func BuildProfile(caseName string, samples stats.SampleSet, start time.Time, duration time.Duration) *profile.Profile {
	b := &profileBuilder{
		profile: &profile.Profile{
			SampleType: []*profile.ValueType{
				{Type: "samples", Unit: "count"},
				{Type: "latency", Unit: "nanoseconds"},
			},
			PeriodType:    &profile.ValueType{Type: "latency", Unit: "nanoseconds"},
			Period:        1,
			TimeNanos:     start.UnixNano(),
			DurationNanos: duration.Nanoseconds(),
		},
		functions: make(map[string]*profile.Function),
		locations: make(map[string]*profile.Location),
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	root := b.location(caseName)
	for i := 0; i < len(sorted); {
		v := sorted[i]
		j := i
		for j < len(sorted) && sorted[j] == v {
			j++
		}
		count := int64(j - i)
		b.profile.Sample = append(b.profile.Sample, &profile.Sample{
			Location: []*profile.Location{b.location(bandOf(v)), root},
			Value:    []int64{count, count * int64(v)},
			NumLabel: map[string][]int64{"latency": {int64(v)}},
			NumUnit:  map[string][]string{"latency": {"nanoseconds"}},
		})
		i = j
	}
	return b.profile
}

// WriteProfile writes the latency profile of samples to path.
func WriteProfile(path, caseName string, samples stats.SampleSet, start time.Time, duration time.Duration) error {
	prof := BuildProfile(caseName, samples, start, duration)
	if err := prof.CheckValid(); err != nil {
		return fmt.Errorf("failed to build latency profile: %w", err)
	}
	return writeAtomic(path, func(w io.Writer) error {
		return prof.Write(w)
	})
}
