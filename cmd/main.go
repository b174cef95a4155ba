package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/gridpulse/internal/config"
	"github.com/okian/gridpulse/pkg/logger"
	"github.com/spf13/cobra"
)

// exitFailure is returned to the shell when startup or a command fails.
const exitFailure = 1

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(exitFailure)
	}
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configFile string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "gridpulse",
		Short: "F1 starting grid versus finishing position dashboard",
		Long: `GridPulse loads a race results CSV once and serves a dashboard showing how the
starting grid slot relates to the finishing position, filtered by circuit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging and disable asset caching")

	root.AddCommand(newServeCmd(flags), newAggregateCmd(flags))
	return root
}

// loadConfig layers defaults, the config file and env, then applies --debug.
func loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	path := flags.configFile
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if flags.debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// setupLogging initializes the global logger from cfg.
func setupLogging(w io.Writer, cfg *config.Config) error {
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	if err := logger.InitWith(w, format); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// errUsage marks bad command-line input.
var errUsage = errors.New("usage")
