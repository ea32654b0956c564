package results

import (
	"bytes"
	"testing"

	"github.com/perfgo/latencylab/model"
	"github.com/perfgo/latencylab/stats"
	"github.com/stretchr/testify/require"
)

func TestFormatNs(t *testing.T) {
	tests := []struct {
		ns   float64
		want string
	}{
		{ns: 0, want: "0.00 ns"},
		{ns: 999, want: "999.00 ns"},
		{ns: 1000, want: "1.00 us"},
		{ns: 1234, want: "1.23 us"},
		{ns: 2_500_000, want: "2.50 ms"},
		{ns: 3e9, want: "3.00 s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, FormatNs(tt.ns))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatPretty, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	require.Equal(t, FormatCSV, f)

	_, err = ParseFormat("json")
	require.ErrorIs(t, err, model.ErrConfiguration)
}

var testQuantiles = stats.Quantiles{Min: 100, P50: 1500, P95: 2000, P99: 2500, P999: 3000, Max: 1_200_000, Mean: 1750.5}

func TestSummaryPretty(t *testing.T) {
	got, err := Summary("fork_wait", testQuantiles, FormatPretty)
	require.NoError(t, err)
	require.Equal(t, "fork_wait\nmin=100.00 ns p50=1.50 us p95=2.00 us p99=2.50 us p999=3.00 us max=1.20 ms mean=1.75 us\n", got)
}

func TestSummaryCSV(t *testing.T) {
	got, err := Summary("fork_wait", testQuantiles, FormatCSV)
	require.NoError(t, err)
	require.Equal(t, "fork_wait\nmin,p50,p95,p99,p999,max,mean\n100,1500,2000,2500,3000,1200000,1750.5\n", got)
}

func TestSummaryTable(t *testing.T) {
	got, err := Summary("noop", testQuantiles, FormatTable)
	require.NoError(t, err)
	require.Contains(t, got, "noop")
	require.Contains(t, got, "1.50 us")
	require.Contains(t, got, "1.20 ms")
}

func TestWriteDistribution(t *testing.T) {
	d, err := stats.Summarize(stats.SampleSet{100, 200, 300, 400})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDistribution(&buf, d))
	require.Contains(t, buf.String(), "distribution (4 samples")
	require.Contains(t, buf.String(), "400.00 ns")
}
