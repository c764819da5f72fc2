package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/GRousselet/post-nocrisis/adapters/excel"
	"github.com/GRousselet/post-nocrisis/adapters/gh"
	"github.com/GRousselet/post-nocrisis/adapters/rng"
	"github.com/GRousselet/post-nocrisis/adapters/store"
	"github.com/GRousselet/post-nocrisis/app"
	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/replication"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
	"github.com/GRousselet/post-nocrisis/internal/config"
	"github.com/GRousselet/post-nocrisis/internal/report"
	"github.com/GRousselet/post-nocrisis/ui"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "nocrisis",
		Short: "Monte Carlo study of replication consistency under skewed populations",
		Long: `nocrisis simulates one-sample trimmed-mean tests on g-and-h distributed
populations to quantify how much replication inconsistency is expected
from finite statistical power alone.`,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newRunsCmd(),
		newRatesCmd(),
		newConsistencyCmd(),
		newCalibrateCmd(),
		newExportCmd(),
		newReportCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (*store.SQLStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Store.Driver, cfg.Store.DSN)
}

func newRunCmd() *cobra.Command {
	var scenarioPath string
	var h float64
	var trials int
	var seed int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation grid and persist the result bundle",
		Long: `Run the Monte Carlo grid described by a scenario file (or the built-in
default for a given h), store the indicator arrays, and print a summary.

Example: nocrisis run --scenario scenarios/h0.yaml
         nocrisis run --h 0.1 --trials 100000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario := config.DefaultScenario(h)
			if scenarioPath != "" {
				loaded, err := config.LoadScenario(scenarioPath)
				if err != nil {
					return err
				}
				scenario = loaded
			}
			if cmd.Flags().Changed("trials") {
				scenario.Trials = trials
			}
			if cmd.Flags().Changed("seed") {
				scenario.Seed = seed
			}

			params, err := scenario.Params()
			if err != nil {
				return err
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			service := app.NewSimulationService(rng.NewAdapter(), db)
			result, err := service.RunAndStore(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Printf("run %s (%q) complete, fingerprint %s\n",
				result.Params.RunID, result.Params.Label, result.Fingerprint()[:16])
			rates, err := app.Aggregate(result)
			if err != nil {
				return err
			}
			return report.Write(os.Stdout, rates)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file")
	cmd.Flags().Float64Var(&h, "h", 0, "Tail-heaviness parameter for the default scenario")
	cmd.Flags().IntVar(&trials, "trials", 100000, "Trials per (shape, trim) cell")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic runs")

	return cmd
}

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored simulation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			summaries, err := db.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Printf("%s  %-24q  %d trials  %dx%d grid  %s\n",
					s.RunID, s.Label, s.Trials, s.Shapes, s.Trims,
					s.CreatedAt.Time().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func loadRates(ctx context.Context, runID, label string) (*app.RunRates, error) {
	db, err := openStore()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	service := app.NewRatesService(db)
	if label != "" {
		return service.RatesByLabel(ctx, label)
	}
	id, err := core.ParseRunID(runID)
	if err != nil {
		return nil, err
	}
	return service.Rates(ctx, id)
}

func newRatesCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "rates [run-id]",
		Short: "Print a stored run's tidy rate tables as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) > 0 {
				runID = args[0]
			}
			rates, err := loadRates(cmd.Context(), runID, label)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rates)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Select the latest run with this label instead of a run ID")
	return cmd
}

func newConsistencyCmd() *cobra.Command {
	var step float64

	cmd := &cobra.Command{
		Use:   "consistency",
		Short: "Print closed-form two-study consistency probabilities over a power grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			curve, err := replication.Curve(step)
			if err != nil {
				return err
			}
			fmt.Printf("%-8s %-14s %-12s %-16s\n", "power", "both reject", "disagree", "neither rejects")
			for _, o := range curve {
				fmt.Printf("%-8.2f %-14.4f %-12.4f %-16.4f\n",
					o.Power, o.ConsistentPositive, o.Inconsistent, o.ConsistentNegative)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&step, "step", 0.05, "Power grid step in (0, 1]")
	return cmd
}

func newCalibrateCmd() *cobra.Command {
	var n int
	var alpha, power float64

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Solve for the effect size reaching a target power at shape (0,0)",
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := gh.CalibratedShift(n, alpha, power)
			if err != nil {
				return err
			}
			achieved, err := gh.TTestPower(shift, n, alpha)
			if err != nil {
				return err
			}
			fmt.Printf("effect size %.6f gives power %.6f at n=%d alpha=%g\n", shift, achieved, n, alpha)
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 20, "Sample size")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance threshold")
	cmd.Flags().Float64Var(&power, "power", 0.80, "Target power")
	return cmd
}

func newExportCmd() *cobra.Command {
	var label, out string

	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Export a stored run's rate tables to an Excel workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := loadResult(cmd.Context(), db, args, label)
			if err != nil {
				return err
			}
			if err := excel.NewExporter().Export(result, out); err != nil {
				return err
			}
			fmt.Printf("exported run %s to %s\n", result.Params.RunID, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Select the latest run with this label instead of a run ID")
	cmd.Flags().StringVar(&out, "out", "rates.xlsx", "Output workbook path")
	return cmd
}

func loadResult(ctx context.Context, db *store.SQLStore, args []string, label string) (*simulation.Result, error) {
	if label != "" {
		return db.LoadByLabel(ctx, label)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a run ID or --label is required")
	}
	id, err := core.ParseRunID(args[0])
	if err != nil {
		return nil, err
	}
	return db.Load(ctx, id)
}

func newReportCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Write a stored run's Markdown report to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) > 0 {
				runID = args[0]
			}
			rates, err := loadRates(cmd.Context(), runID, label)
			if err != nil {
				return err
			}
			return report.Write(os.Stdout, rates)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Select the latest run with this label instead of a run ID")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs over HTTP (rates JSON and HTML reports)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			server := ui.NewServer(db)
			return server.ListenAndServe(":" + cfg.Server.Port)
		},
	}
}
