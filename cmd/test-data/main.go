package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/gridpulse/internal/testdata"
	"github.com/okian/gridpulse/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "test data run failed:", err)
		stop()
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	cfg := testdata.DefaultConfig()
	cfg.Workers = runtime.NumCPU()
	var (
		comma string
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "test-data",
		Short: "Write a synthetic race results CSV and optionally exercise a running dashboard",
		Example: `  go run ./cmd/test-data --rows 20000 --out data/f1_race_results.csv
  go run ./cmd/test-data --url http://localhost:9080 --selections 500`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return err
			}
			if debug {
				_ = logger.SetLevelString("debug")
			}
			if len([]rune(comma)) != 1 {
				return fmt.Errorf("--comma must be one character, got %q", comma)
			}
			cfg.Comma = []rune(comma)[0]

			_, err := testdata.Run(cmd.Context(), cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Rows, "rows", cfg.Rows, "number of result rows to write")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed")
	f.IntVar(&cfg.Drivers, "drivers", cfg.Drivers, "drivers per race")
	f.StringVar(&cfg.OutputFile, "out", "", "output CSV (default generated_results_TIMESTAMP.csv)")
	f.StringVar(&comma, "comma", ",", "CSV delimiter")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent workers")
	f.StringVar(&cfg.BaseURL, "url", "", "dashboard base URL to exercise, e.g. http://localhost:9080")
	f.IntVar(&cfg.Selections, "selections", cfg.Selections, "selection changes to post when --url is set")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log every failed request")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}
