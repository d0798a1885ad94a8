package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/internal/history"
	"github.com/alexanderjulianmartinez/drift-gate/internal/logging"
	"github.com/alexanderjulianmartinez/drift-gate/internal/pipeline"
	"github.com/alexanderjulianmartinez/drift-gate/internal/schema"
)

func main() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "driftgate error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCommand builds the driftgate CLI. The config path comes from
// DRIFTGATE_CONFIG.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	env := config.NewEnv()
	rc := &cobra.Command{
		Use:   "driftgate",
		Short: "driftgate - ingest a dataset and gate it on schema and drift checks",
		Long: `Runs data ingestion and validation once. The config file is read from
DRIFTGATE_CONFIG (default config.yaml); DRIFTGATE_* variables override it.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), env, stdout, stderr)
		},
	}
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	rc.AddCommand(newCheckCommand(env, stdout), newHistoryCommand(env, stdout))
	return rc
}

func loadConfig(env *viper.Viper) (*config.Config, error) {
	cfg, err := config.LoadConfig(env.GetString("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPipeline(ctx context.Context, env *viper.Viper, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(env)
	if err != nil {
		return err
	}
	log, closeLog, err := logging.Setup(cfg.Logging, stderr, time.Now())
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	res, err := p.Run(ctx)
	if err != nil {
		log.Error("pipeline failed", "error", err)
		return err
	}
	fmt.Fprintf(stdout, "%s run %s: %s (bucket=%s)\n", cfg.Pipeline.Name, res.RunID, res.Status(), res.Bucket)
	fmt.Fprintf(stdout, "Report: %s\n", res.ReportPath)
	return nil
}

func newCheckCommand(env *viper.Viper, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate config and schema without running the pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(env)
			if err != nil {
				return err
			}
			s, err := schema.Load(cfg.Validation.SchemaPath)
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, "Loaded config successfully")
			fmt.Fprintf(stdout, "Source: %s\n", cfg.Source.Type)
			fmt.Fprintf(stdout, "Schema columns: %d (%d numerical)\n", len(s.Columns), len(s.NumericalColumns))
			fmt.Fprintf(stdout, "Drift threshold: %v\n", cfg.Validation.Threshold)
			return nil
		},
	}
}

func newHistoryCommand(env *viper.Viper, stdout io.Writer) *cobra.Command {
	limit := 10
	hc := &cobra.Command{
		Use:   "history",
		Short: "List recent validation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(env)
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return fmt.Errorf("history.path is not configured")
			}
			store, err := history.NewStore(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(stdout, "%s  %s  %-4s  bucket=%-7s rows=%d drifted=%v\n",
					r.StartedAt.Format(time.RFC3339), r.RunID, r.Status(), r.Bucket,
					r.Rows, r.DriftedColumns)
			}
			return nil
		},
	}
	hc.Flags().IntVarP(&limit, "limit", "n", limit, "number of runs to show")
	return hc
}
