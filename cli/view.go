package cli

// This file contains the view command for displaying the results of a run
// directory.

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/perfgo/latencylab/model"
	"github.com/perfgo/latencylab/results"
	"github.com/perfgo/latencylab/stats"
	"github.com/urfave/cli/v2"
)

func removeFirstDashDash(in []string) []string {
	if len(in) > 0 && in[0] == "--" {
		return in[1:]
	}
	return in
}

func parseViewArgs(in []string) (dir string, pprofArgs []string) {
	if len(in) == 0 {
		return ".", nil
	}

	// If first arg is "--", use the current directory and rest are pprof args
	if in[0] == "--" {
		return ".", in[1:]
	}

	// A leading flag belongs to pprof, the directory is implicit
	if strings.HasPrefix(in[0], "-") {
		return ".", in
	}

	// First arg is the directory, rest are pprof args (with optional "--" removed)
	return in[0], removeFirstDashDash(in[1:])
}

func (a *App) view(ctx *cli.Context) error {
	dir, pprofArgs := parseViewArgs(ctx.Args().Slice())

	run, err := results.LoadRun(dir)
	if err != nil {
		return fmt.Errorf("failed to load run from %s: %w", dir, err)
	}

	caseName := filepath.Base(filepath.Clean(dir))
	if run.Meta != nil {
		a.displayMeta(run.Meta)
		caseName = run.Meta.Case
	}

	q := stats.Compute(run.Samples)
	if err := results.WriteSummary(a.out, caseName, q, results.FormatTable); err != nil {
		return err
	}

	d, err := stats.Summarize(run.Samples)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Skipping distribution")
	} else if d.Count > 0 {
		fmt.Fprintln(a.out)
		if err := results.WriteDistribution(a.out, d); err != nil {
			return err
		}
	}

	if len(pprofArgs) == 0 {
		return nil
	}
	return a.displayProfile(dir, pprofArgs)
}

func (a *App) displayMeta(m *model.RunMetadata) {
	shortID := m.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	fmt.Fprintf(a.out, "=== Run: %s ===\n", shortID)
	fmt.Fprintf(a.out, "Time: %s\n", m.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Iterations: %d (warmup %d)\n", m.Iterations, m.Warmup)
	if m.PinnedCPU != nil {
		fmt.Fprintf(a.out, "Pinned CPU: %d\n", *m.PinnedCPU)
	}
	fmt.Fprintf(a.out, "Noise: %s", m.NoiseMode)
	if m.NoiseCPU >= 0 {
		fmt.Fprintf(a.out, " (cpu %d)", m.NoiseCPU)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Clock: %s, GC disabled: %t\n", m.Clock, m.GCDisabled)
	fmt.Fprintf(a.out, "CPU: %s (%d online)\n", m.CPUModel, m.CPUCores)
	fmt.Fprintf(a.out, "Kernel: %s, Go: %s\n", m.KernelVersion, m.GoVersion)
	if m.CommandLine != "" {
		fmt.Fprintf(a.out, "Command: %s\n", m.CommandLine)
	}
	if len(m.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags: %s\n", strings.Join(m.Tags, ", "))
	}
	if m.Git != nil && m.Git.Commit != "" {
		shortCommit := m.Git.Commit
		if len(shortCommit) > 8 {
			shortCommit = shortCommit[:8]
		}
		fmt.Fprintf(a.out, "Git Commit: %s", shortCommit)
		if m.Git.Branch != "" {
			fmt.Fprintf(a.out, " (%s)", m.Git.Branch)
		}
		fmt.Fprintln(a.out)
	}
	fmt.Fprintln(a.out)
}

func (a *App) displayProfile(dir string, pprofArgs []string) error {
	profilePath := filepath.Join(dir, results.ProfileFile)
	info, err := os.Stat(profilePath)
	if err != nil {
		return fmt.Errorf("no latency profile in %s (record with run --profile): %w", dir, err)
	}
	fmt.Fprintf(a.out, "\nProfile: %s (%.1f KB)\n", profilePath, float64(info.Size())/1024)

	// Build pprof command with any additional args
	args := []string{"tool", "pprof"}
	args = append(args, pprofArgs...)
	args = append(args, results.ProfileFile)

	cmd := exec.Command("go", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = a.out
	cmd.Stderr = os.Stderr
	cmd.Dir = dir

	return cmd.Run()
}
