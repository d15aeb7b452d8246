// QuantSignal: Signal Explainer Dashboard
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/quantsignal/api"
	"github.com/seenimoa/quantsignal/internal/config"
	"github.com/seenimoa/quantsignal/internal/infra"
	"github.com/seenimoa/quantsignal/internal/report"
	"github.com/seenimoa/quantsignal/internal/signals"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries state shared by subcommands once the root has loaded config.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "quantsignal",
		Short: "QuantSignal: sentiment-driven signal explainer",
		Long: `QuantSignal simulates how financial news and insider reports can be
turned into sentiment-driven trading signals. It draws a random sentiment
score per stock, maps it to BUY / HOLD / SELL, attaches a confidence and a
rationale, and renders the result as a dashboard or terminal table.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			configFile, _ := cmd.Flags().GetString("config")
			if configFile != "" {
				a.cfg, err = config.LoadFromFile(configFile)
			} else {
				a.cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				a.cfg.Logging.Level = strings.ToLower(lvl)
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.logger = infra.SetupLogging(a.cfg.Logging.Level, a.cfg.Logging.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(a.generateCmd())
	rootCmd.AddCommand(a.statusCmd())
	rootCmd.AddCommand(a.initConfigCmd())
	return rootCmd
}

// --- Version Command ---

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "QuantSignal %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}

// --- Serve Command (dashboard server) ---

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.Addr()
			}

			srv, err := api.NewServer(a.cfg,
				api.WithLogger(a.logger),
				api.WithVersion(version),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info().
				Str("addr", addr).
				Strs("universe", a.cfg.Signals.Universe).
				Float64("sensitivity", a.cfg.Signals.Sensitivity).
				Bool("metrics", a.cfg.Metrics.Enabled).
				Msg("starting QuantSignal dashboard")
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default: api.host:api.port from config)")
	return cmd
}

// --- Generate Command ---

type generateOptions struct {
	format      string
	sensitivity float64
	seed        uint64
	stock       string
}

func (a *app) generateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one render cycle and print the signals",
		Long: `Run one render cycle over the configured universe and print the
signal table with the detail of one stock (table), or the whole cycle as
JSON or YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format (table, json, yaml)")
	cmd.Flags().Float64Var(&opts.sensitivity, "sensitivity", 0, "sampling spread in [0.1, 1.0] (default: signals.sensitivity from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible output (default: signals.seed from config)")
	cmd.Flags().StringVar(&opts.stock, "stock", "", "stock to explain in table output (default: first in universe)")
	return cmd
}

func (a *app) runGenerate(ctx context.Context, w io.Writer, opts generateOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	seed := a.cfg.Signals.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}
	engine, err := signals.NewEngine(a.cfg.Signals.Universe,
		signals.WithMean(a.cfg.Signals.Mean),
		signals.WithSensitivity(a.cfg.Signals.Sensitivity),
		signals.WithSeed(seed),
	)
	if err != nil {
		return err
	}

	table, err := engine.Generate(ctx, signals.GenerateOptions{Sensitivity: opts.sensitivity})
	if err != nil {
		return err
	}

	if format == report.FormatTable {
		return report.RenderText(w, table, opts.stock)
	}
	return report.Encode(w, table, format)
}

// --- Status Command ---

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfgFile := a.cfg.File
			if cfgFile == "" {
				cfgFile = "(defaults + environment)"
			}
			seed := "unseeded"
			if a.cfg.Signals.Seed != 0 {
				seed = fmt.Sprintf("%d", a.cfg.Signals.Seed)
			}

			fmt.Fprintln(out, "═══════════════════════════════════════")
			fmt.Fprintln(out, "  QuantSignal — System Status")
			fmt.Fprintln(out, "═══════════════════════════════════════")
			fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
			fmt.Fprintf(out, "  Config File:   %s\n", cfgFile)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "  Signals:")
			fmt.Fprintf(out, "    Universe:      %s\n", strings.Join(a.cfg.Signals.Universe, ", "))
			fmt.Fprintf(out, "    Mean:          %g\n", a.cfg.Signals.Mean)
			fmt.Fprintf(out, "    Sensitivity:   %g\n", a.cfg.Signals.Sensitivity)
			fmt.Fprintf(out, "    Seed:          %s\n", seed)
			fmt.Fprintf(out, "    Thresholds:    BUY > %g, SELL < %g\n", signals.BuyThreshold, signals.SellThreshold)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "  Server:")
			fmt.Fprintf(out, "    Address:       %s\n", a.cfg.Addr())
			fmt.Fprintf(out, "    Metrics:       %t\n", a.cfg.Metrics.Enabled)
			fmt.Fprintf(out, "    Logging:       %s (%s)\n", a.cfg.Logging.Level, a.cfg.Logging.Format)
			fmt.Fprintln(out, "═══════════════════════════════════════")
			return nil
		},
	}
}

// --- Init Config Command ---

func (a *app) initConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join("config", "config.yaml")
			if len(args) == 1 {
				path = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing file")
	return cmd
}
