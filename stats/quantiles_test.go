package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		samples SampleSet
		want    Quantiles
	}{
		{
			name:    "empty",
			samples: nil,
			want:    Quantiles{},
		},
		{
			name:    "single sample",
			samples: SampleSet{42},
			want:    Quantiles{Min: 42, P50: 42, P95: 42, P99: 42, P999: 42, Max: 42, Mean: 42},
		},
		{
			name:    "five sorted samples",
			samples: SampleSet{10, 20, 30, 40, 50},
			// p95: floor(0.95*4)=3, p99: floor(0.99*4)=3, p999: floor(0.999*4)=3
			want: Quantiles{Min: 10, P50: 30, P95: 40, P99: 40, P999: 40, Max: 50, Mean: 30},
		},
		{
			name:    "unsorted input",
			samples: SampleSet{50, 10, 40, 30, 20},
			want:    Quantiles{Min: 10, P50: 30, P95: 40, P99: 40, P999: 40, Max: 50, Mean: 30},
		},
		{
			name:    "two samples floor selects lower rank",
			samples: SampleSet{7, 3},
			want:    Quantiles{Min: 3, P50: 3, P95: 3, P99: 3, P999: 3, Max: 7, Mean: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Compute(tt.samples))
		})
	}
}

func TestComputeDoesNotModifyInput(t *testing.T) {
	samples := SampleSet{3, 1, 2}
	_ = Compute(samples)
	require.Equal(t, SampleSet{3, 1, 2}, samples)
}

func TestComputeLargeSet(t *testing.T) {
	samples := make(SampleSet, 1000)
	for i := range samples {
		samples[i] = uint64(1000 - i) // 1000..1
	}

	q := Compute(samples)
	require.Equal(t, uint64(1), q.Min)
	require.Equal(t, uint64(1000), q.Max)
	// floor(0.50*999)=499 -> value 500
	require.Equal(t, uint64(500), q.P50)
	// floor(0.95*999)=949 -> value 950
	require.Equal(t, uint64(950), q.P95)
	// floor(0.99*999)=989 -> value 990
	require.Equal(t, uint64(990), q.P99)
	// floor(0.999*999)=998 -> value 999
	require.Equal(t, uint64(999), q.P999)
	require.InDelta(t, 500.5, q.Mean, 1e-9)
}

func TestMeanDoesNotOverflow(t *testing.T) {
	samples := SampleSet{math.MaxUint64, math.MaxUint64, math.MaxUint64}
	require.InEpsilon(t, float64(math.MaxUint64), Mean(samples), 1e-12)

	samples = SampleSet{math.MaxUint64, 1}
	require.InEpsilon(t, float64(math.MaxUint64)/2, Mean(samples), 1e-12)
}

func TestPercentileEmpty(t *testing.T) {
	require.Zero(t, Percentile(nil, 0.5))
}
