package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/okian/gridpulse/internal/adapters/repository"
	"github.com/okian/gridpulse/internal/domain/aggregate"
	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/internal/domain/selection"
	"github.com/okian/gridpulse/pkg/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Report output formats.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// report is the offline aggregate output.
type report struct {
	Source     string               `json:"source" yaml:"source"`
	Selection  []string             `json:"selection" yaml:"selection"`
	Rows       int                  `json:"rows" yaml:"rows"`
	Dropped    int                  `json:"dropped_no_grid" yaml:"dropped_no_grid"`
	Aggregates []model.AggregateRow `json:"aggregates" yaml:"aggregates"`
}

type aggregateFlags struct {
	circuits []string
	data     string
	format   string
}

func newAggregateCmd(root *rootFlags) *cobra.Command {
	flags := &aggregateFlags{}

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Print outcome proportions per starting grid for a circuit selection",
		Example: `  gridpulse aggregate --circuit "Autodromo Nazionale di Monza" --format json
  gridpulse aggregate --data results.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAggregate(cmd, root, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.circuits, "circuit", nil, "circuit to include, repeatable (default all)")
	cmd.Flags().StringVar(&flags.data, "data", "", "race results CSV (default data_path from config)")
	cmd.Flags().StringVar(&flags.format, "format", formatYAML, "output format: yaml or json")
	return cmd
}

func runAggregate(cmd *cobra.Command, root *rootFlags, flags *aggregateFlags) error {
	ctx := cmd.Context()

	format := strings.ToLower(strings.TrimSpace(flags.format))
	if format != formatYAML && format != formatJSON {
		return fmt.Errorf("%w: --format must be yaml or json, got %q", errUsage, flags.format)
	}

	cfg, err := loadConfig(ctx, root)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flags.data != "" {
		cfg.DataPath = flags.data
	}
	// Logs go to stderr so the report on stdout stays parseable.
	if err := setupLogging(cmd.ErrOrStderr(), cfg); err != nil {
		return err
	}

	ds, err := repository.Load(ctx, cfg.DataPath,
		repository.WithComma(cfg.Comma()),
		repository.WithLogger(logger.Named("repository")),
	)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	values := flags.circuits
	if len(values) == 0 {
		values = selection.Values(ds.Circuits(ctx))
	}
	sel := selection.New(values...)
	if missing := sel.Missing(ds.Circuits(ctx)); len(missing) > 0 {
		return fmt.Errorf("%w: unknown circuit: %s", errUsage, strings.Join(missing, ", "))
	}

	rows := selection.Filter(ds.Rows(ctx), sel)
	rep := report{
		Source:     ds.Source(),
		Selection:  sel.Values(),
		Rows:       len(rows),
		Dropped:    ds.Dropped(),
		Aggregates: aggregate.Aggregate(rows),
	}
	return writeReport(cmd.OutOrStdout(), format, rep)
}

func writeReport(w io.Writer, format string, rep report) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
