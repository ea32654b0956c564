package cli

// This file contains the run command: it resolves the run settings from
// flags and an optional config file, executes the case and writes the
// outputs.

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/perfgo/latencylab/bench"
	"github.com/perfgo/latencylab/config"
	"github.com/perfgo/latencylab/model"
	"github.com/perfgo/latencylab/results"
	"github.com/perfgo/latencylab/sysinfo"
	"github.com/urfave/cli/v2"
)

const (
	defaultIterations = 10000
	defaultWarmup     = 1000
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "case",
			Usage: "Case to run (default: first registered case, see list)",
		},
		&cli.Uint64Flag{
			Name:  "iters",
			Usage: "Number of measured iterations",
			Value: defaultIterations,
		},
		&cli.Uint64Flag{
			Name:  "warmup",
			Usage: "Number of untimed warmup iterations",
			Value: defaultWarmup,
		},
		&cli.IntFlag{
			Name:  "pin",
			Usage: "Pin the measurement thread to this CPU",
		},
		&cli.StringFlag{
			Name:  "noise",
			Usage: "Background interference: off, free, same or other (same and other require --pin)",
			Value: string(model.NoiseOff),
		},
		&cli.StringFlag{
			Name:  "clock",
			Usage: "Clock source: mono or raw (raw falls back to mono when unavailable)",
			Value: string(model.ClockMono),
		},
		&cli.BoolFlag{
			Name:  "gc-off",
			Usage: "Disable the garbage collector during warmup and measurement",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "Directory for raw.csv, meta.json, stdout.txt and latency.pb.gz",
		},
		&cli.StringFlag{
			Name:  "out-file",
			Usage: "Raw samples file when --out is not set",
			Value: results.RawFile,
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Summary format: pretty, csv or table",
			Value: string(results.FormatPretty),
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "Label recorded in meta.json (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "profile",
			Usage: "Also write latency.pb.gz (requires --out)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML file with run settings; explicit flags take precedence",
		},
	}
}

type runOptions struct {
	config  model.RunConfig
	outDir  string
	outFile string
	format  results.Format
	profile bool
	tags    []string
}

// runOptions merges the config file (if any) with the command line. A flag
// that was set explicitly always wins over the file.
func (a *App) runOptions(ctx *cli.Context) (*runOptions, error) {
	file := &config.File{}
	if path := ctx.String("config"); path != "" {
		var err error
		if file, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	opts := &runOptions{
		outDir:  file.Out,
		outFile: ctx.String("out-file"),
		profile: file.Profile || ctx.Bool("profile"),
		tags:    file.Tags,
	}
	cfg := &opts.config

	cfg.Case = file.Case
	if ctx.IsSet("case") {
		cfg.Case = ctx.String("case")
	}

	cfg.Iterations = ctx.Uint64("iters")
	if !ctx.IsSet("iters") && file.Iterations != nil {
		cfg.Iterations = *file.Iterations
	}
	cfg.Warmup = ctx.Uint64("warmup")
	if !ctx.IsSet("warmup") && file.Warmup != nil {
		cfg.Warmup = *file.Warmup
	}

	switch {
	case ctx.IsSet("pin"):
		cfg.Pin = model.PinRequest{Enabled: true, CPU: ctx.Int("pin")}
	case file.Pin != nil:
		cfg.Pin = model.PinRequest{Enabled: true, CPU: *file.Pin}
	}
	if cfg.Pin.Enabled && cfg.Pin.CPU < 0 {
		return nil, fmt.Errorf("%w: --pin must be >= 0, got %d", model.ErrConfiguration, cfg.Pin.CPU)
	}

	noise := file.Noise
	if ctx.IsSet("noise") || noise == "" {
		noise = ctx.String("noise")
	}
	mode, err := model.ParseNoiseMode(noise)
	if err != nil {
		return nil, err
	}
	cfg.Noise = model.NoiseConfig{Mode: mode, Pin: cfg.Pin}

	clockName := file.Clock
	if ctx.IsSet("clock") || clockName == "" {
		clockName = ctx.String("clock")
	}
	if cfg.Clock, err = model.ParseClockKind(clockName); err != nil {
		return nil, err
	}

	cfg.DisableGC = file.GCOff
	if ctx.IsSet("gc-off") {
		cfg.DisableGC = ctx.Bool("gc-off")
	}

	if ctx.IsSet("out") {
		opts.outDir = ctx.String("out")
	}
	if ctx.IsSet("profile") {
		opts.profile = ctx.Bool("profile")
	}
	if ctx.IsSet("tag") {
		opts.tags = ctx.StringSlice("tag")
	}
	if !ctx.IsSet("out-file") && file.OutFile != "" {
		opts.outFile = file.OutFile
	}

	format := file.Format
	if ctx.IsSet("format") || format == "" {
		format = ctx.String("format")
	}
	if opts.format, err = results.ParseFormat(format); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.profile && opts.outDir == "" {
		a.logger.Warn().Msg("Ignoring --profile without --out")
	}
	return opts, nil
}

func (a *App) run(ctx *cli.Context) error {
	opts, err := a.runOptions(ctx)
	if err != nil {
		return err
	}

	// Explicit names are checked before any pinning or noise so the error
	// can list the alternatives.
	if opts.config.Case != "" {
		if _, ok := a.registry.Find(opts.config.Case); !ok {
			return fmt.Errorf("%w: unknown case: %s (known cases: %s)",
				model.ErrConfiguration, opts.config.Case, strings.Join(a.registry.Names(), ", "))
		}
	}

	a.logger.Info().
		Str("case", opts.config.Case).
		Uint64("iters", opts.config.Iterations).
		Uint64("warmup", opts.config.Warmup).
		Str("noise", opts.config.Noise.Mode.String()).
		Msg("Running benchmark")

	startTime := time.Now()
	runner := bench.NewRunner(a.logger, a.registry)
	res, runErr := runner.Run(opts.config)
	if res == nil {
		return runErr
	}
	duration := time.Since(startTime)
	if runErr != nil {
		a.logger.Warn().Err(runErr).Str("case", res.Case).Msg("Case teardown failed, keeping samples")
	}

	summary, err := results.Summary(res.Case, res.Quantiles, opts.format)
	if err != nil {
		return fmt.Errorf("failed to format summary: %w", err)
	}
	if _, err := fmt.Fprint(a.out, summary); err != nil {
		return err
	}

	return a.writeOutputs(opts, res, summary, startTime, duration, ctx.App.Name)
}

func (a *App) writeOutputs(opts *runOptions, res *bench.Result, summary string, startTime time.Time, duration time.Duration, appName string) error {
	paths := results.ResolvePaths(opts.outDir, opts.outFile, opts.profile)
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := results.WriteRawCSV(paths.Raw, res.Samples); err != nil {
		return err
	}
	if paths.Stdout != "" {
		if err := results.WriteText(paths.Stdout, summary); err != nil {
			return err
		}
	}
	if paths.Meta != "" {
		meta := sysinfo.Collect(a.logger, sysinfo.Run{
			Case:     res.Case,
			Config:   opts.config,
			NoiseCPU: res.NoiseCPU,
			Clock:    res.Clock,
			Args:     commandLine(appName),
			Tags:     opts.tags,
			Start:    startTime,
		})
		if err := results.WriteMeta(paths.Meta, meta); err != nil {
			return err
		}
	}
	if paths.Profile != "" {
		if err := results.WriteProfile(paths.Profile, res.Case, res.Samples, startTime, duration); err != nil {
			return err
		}
	}

	a.logger.Info().
		Str("raw", paths.Raw).
		Str("dir", opts.outDir).
		Int("samples", len(res.Samples)).
		Msg("Wrote results")
	return nil
}

// commandLine returns the process arguments, falling back to the app name
// when they are unavailable.
func commandLine(appName string) []string {
	if len(os.Args) == 0 {
		return []string{appName}
	}
	return os.Args
}
