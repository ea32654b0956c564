// Package results writes benchmark outputs (raw samples, summaries, run
// metadata and latency profiles) and loads them back for viewing.
package results

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/perfgo/latencylab/model"
	"github.com/perfgo/latencylab/stats"
)

// Format selects how the quantile summary is rendered.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatCSV    Format = "csv"
	FormatTable  Format = "table"
)

// Formats lists the accepted summary formats.
var Formats = []Format{FormatPretty, FormatCSV, FormatTable}

// ParseFormat parses a summary format name. The empty string means pretty.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatPretty, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return FormatPretty, fmt.Errorf("%w: unknown format %q (expected pretty, csv or table)", model.ErrConfiguration, s)
}

// FormatNs renders a nanosecond duration scaled to ns, us, ms or s with two
// decimals.
func FormatNs(ns float64) string {
	value, unit := ns, "ns"
	switch {
	case value >= 1e9:
		value, unit = value/1e9, "s"
	case value >= 1e6:
		value, unit = value/1e6, "ms"
	case value >= 1e3:
		value, unit = value/1e3, "us"
	}
	return strconv.FormatFloat(value, 'f', 2, 64) + " " + unit
}

var headerColor = color.New(color.Bold, color.FgCyan)

// WriteSummary renders the quantiles of one case to w.
func WriteSummary(w io.Writer, caseName string, q stats.Quantiles, format Format) error {
	switch format {
	case FormatCSV:
		_, err := fmt.Fprintf(w, "%s\nmin,p50,p95,p99,p999,max,mean\n%d,%d,%d,%d,%d,%d,%s\n",
			caseName, q.Min, q.P50, q.P95, q.P99, q.P999, q.Max, strconv.FormatFloat(q.Mean, 'f', -1, 64))
		return err
	case FormatTable:
		if _, err := headerColor.Fprintln(w, caseName); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header("min", "p50", "p95", "p99", "p999", "max", "mean")
		if err := table.Append(
			FormatNs(float64(q.Min)),
			FormatNs(float64(q.P50)),
			FormatNs(float64(q.P95)),
			FormatNs(float64(q.P99)),
			FormatNs(float64(q.P999)),
			FormatNs(float64(q.Max)),
			FormatNs(q.Mean),
		); err != nil {
			return fmt.Errorf("failed to append summary row: %w", err)
		}
		return table.Render()
	default:
		_, err := fmt.Fprintf(w, "%s\nmin=%s p50=%s p95=%s p99=%s p999=%s max=%s mean=%s\n",
			caseName,
			FormatNs(float64(q.Min)),
			FormatNs(float64(q.P50)),
			FormatNs(float64(q.P95)),
			FormatNs(float64(q.P99)),
			FormatNs(float64(q.P999)),
			FormatNs(float64(q.Max)),
			FormatNs(q.Mean))
		return err
	}
}

// Summary returns the text WriteSummary would write.
func Summary(caseName string, q stats.Quantiles, format Format) (string, error) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, caseName, q, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteDistribution renders the HDR distribution brackets of a run to w.
func WriteDistribution(w io.Writer, d stats.Distribution) error {
	if _, err := headerColor.Fprintf(w, "distribution (%d samples, stddev %s, p99.99 %s)\n",
		d.Count, FormatNs(d.StdDev), FormatNs(float64(d.P9999))); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("percentile", "count", "latency")
	for _, b := range d.Brackets {
		if err := table.Append(
			strconv.FormatFloat(b.Quantile, 'f', 4, 64),
			strconv.FormatInt(b.Count, 10),
			FormatNs(float64(b.ValueNs)),
		); err != nil {
			return fmt.Errorf("failed to append distribution row: %w", err)
		}
	}
	return table.Render()
}
