package main

import (
	"log"
	"os"

	"github.com/perfgo/latencylab/bench"
	"github.com/perfgo/latencylab/cases"
	"github.com/perfgo/latencylab/cli"
)

// Version information, set by goreleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cases.RegisterAll(bench.Default)

	c := cli.New(bench.Default)
	c.SetVersion(version, commit, date)
	err := c.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
