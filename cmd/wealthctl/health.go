package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"wealth/internal/health"
)

type healthCmd struct {
	timeout time.Duration
}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "probe environment and database and print the report" }
func (*healthCmd) Usage() string {
	return `wealthctl health [-timeout <duration>]

  Prints the same JSON report as GET /api/health. Exits non-zero when
  the overall status is not healthy.
`
}

func (h *healthCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&h.timeout, "timeout", 5*time.Second, "Database probe timeout.")
}

func (h *healthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, manager, err := openDatabase()
	if cfg == nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var pinger health.Pinger = health.Unreachable(err)
	if manager != nil {
		defer manager.Close()
		pinger = manager
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	return printReport(os.Stdout, health.NewChecker(pinger, cfg.Env).Check(ctx))
}

// printReport writes report as indented JSON and maps its status to an
// exit code.
func printReport(w io.Writer, report health.Report) subcommands.ExitStatus {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !report.Healthy() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
