package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/perfgo/latencylab/bench"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "latencylab"

type App struct {
	logger   zerolog.Logger
	cli      *cli.App
	registry *bench.Registry
	out      io.Writer
}

// New creates the CLI application running cases from registry.
func New(registry *bench.Registry) *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		})

	app := &App{
		logger:   logger,
		registry: registry,
		out:      os.Stdout,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Measure tail latency of small operations under controlled conditions",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "run",
		Usage:  "Run a benchmark case and record its latency distribution",
		Action: app.run,
		Flags:  runFlags(),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List registered benchmark cases",
		Action: app.list,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:            "view",
		Usage:           "View the results of a run directory",
		ArgsUsage:       "[DIR] [-- PPROF_ARGS]",
		Action:          app.view,
		SkipFlagParsing: true,
		Description: `View the results of a run directory written with run --out.

The raw samples are reloaded from raw.csv and summarized. Any further
arguments are passed to go tool pprof together with latency.pb.gz.

Examples:
  latencylab view                      # View the current directory
  latencylab view results/fork         # View results/fork
  latencylab view results/fork -tags   # Also show the latency labels
  latencylab view -- -http=:8080       # Open the profile in a browser`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(ctx *cli.Context) error {
			_, err := fmt.Fprintln(app.out, app.cli.Version)
			return err
		},
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

func (a *App) list(ctx *cli.Context) error {
	for _, name := range a.registry.Names() {
		if _, err := fmt.Fprintln(a.out, name); err != nil {
			return err
		}
	}
	return nil
}
