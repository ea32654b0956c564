package stats

import (
	"fmt"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const histogramSigFigs = 3

// Bracket is one row of a cumulative latency distribution.
type Bracket struct {
	Quantile float64 // percent, 0-100
	Count    int64
	ValueNs  int64
}

// Distribution is an HDR histogram view of a SampleSet. It complements the
// exact Quantiles with shape information; values are bucketed to three
// significant figures.
type Distribution struct {
	Count    int64
	StdDev   float64
	P9999    int64
	Brackets []Bracket
}

// Summarize records samples into an HDR histogram and returns its
// distribution. An empty input yields a zero Distribution.
func Summarize(samples SampleSet) (Distribution, error) {
	if len(samples) == 0 {
		return Distribution{}, nil
	}

	var highest uint64
	for _, v := range samples {
		if v > highest {
			highest = v
		}
	}
	if highest > 1<<62 {
		return Distribution{}, fmt.Errorf("sample %d exceeds histogram range", highest)
	}
	// The histogram needs highest >= 2*lowest.
	limit := max(int64(highest), 2)

	h := hdrhistogram.New(1, limit, histogramSigFigs)
	for _, v := range samples {
		if err := h.RecordValue(int64(v)); err != nil {
			return Distribution{}, fmt.Errorf("failed to record sample %d: %w", v, err)
		}
	}

	d := Distribution{
		Count:  h.TotalCount(),
		StdDev: h.StdDev(),
		P9999:  h.ValueAtQuantile(99.99),
	}
	for _, b := range h.CumulativeDistribution() {
		d.Brackets = append(d.Brackets, Bracket{
			Quantile: b.Quantile,
			Count:    b.Count,
			ValueNs:  b.ValueAt,
		})
	}
	return d, nil
}
