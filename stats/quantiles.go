// Package stats reduces raw latency samples to percentile summaries.
package stats

import (
	"math/bits"
	"slices"
)

// SampleSet holds one nanosecond duration per measured iteration, in
// iteration order.
type SampleSet []uint64

// Quantiles summarizes a SampleSet. All fields except Mean are raw sample
// values, never interpolated.
type Quantiles struct {
	Min  uint64  `json:"min"`
	P50  uint64  `json:"p50"`
	P95  uint64  `json:"p95"`
	P99  uint64  `json:"p99"`
	P999 uint64  `json:"p999"`
	Max  uint64  `json:"max"`
	Mean float64 `json:"mean"`
}

// Percentile returns the nearest-rank percentile of an ascending slice,
// selecting index floor(p*(n-1)). It returns 0 for an empty slice.
func Percentile(sorted []uint64, p float64) uint64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

// Compute sorts a copy of samples and derives the summary. The input is not
// modified. An empty input yields a zero Quantiles.
func Compute(samples SampleSet) Quantiles {
	if len(samples) == 0 {
		return Quantiles{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	return Quantiles{
		Min:  sorted[0],
		P50:  Percentile(sorted, 0.50),
		P95:  Percentile(sorted, 0.95),
		P99:  Percentile(sorted, 0.99),
		P999: Percentile(sorted, 0.999),
		Max:  sorted[len(sorted)-1],
		Mean: Mean(samples),
	}
}

// Mean returns the arithmetic mean using a 128-bit accumulator, so the sum
// cannot overflow for any number of uint64 samples.
func Mean(samples SampleSet) float64 {
	n := uint64(len(samples))
	if n == 0 {
		return 0
	}
	var hi, lo uint64
	for _, v := range samples {
		var carry uint64
		lo, carry = bits.Add64(lo, v, 0)
		hi += carry
	}
	// hi < n always holds because every sample is < 2^64.
	q, r := bits.Div64(hi, lo, n)
	return float64(q) + float64(r)/float64(n)
}
