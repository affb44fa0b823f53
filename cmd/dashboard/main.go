package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

var version = "dev"

// app carries what the root command resolves before any subcommand runs.
type app struct {
	cfgFile  string
	csvFile  string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
	source *dataset.Source
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive sales dashboard over the Superstore dataset",
		Long: `dashboard loads a sales CSV once and serves category, monthly and
per-selection views over HTTP, or renders them as terminal, YAML, JSON or
XLSX reports.

Running without a subcommand starts the server.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		RunE:              a.runServe,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&a.csvFile, "csv", "", "dataset CSV file (overrides data.csv_file)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.reportCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(versionCmd())

	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile,
		config.WithOverride("data.csv_file", a.csvFile),
		config.WithOverride("log.level", a.logLevel),
	)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = observability.NewLogger(cfg.Logger, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)
	return nil
}

// dataSource is the single dataset source for the process, created on
// first use.
func (a *app) dataSource() *dataset.Source {
	if a.source == nil {
		a.source = dataset.NewSource(a.cfg.Data.CSVFile, a.logger)
	}
	return a.source
}

// loadAnalytics wraps the process-wide dataset in the analytics service.
// Load failures are fatal for every command.
func (a *app) loadAnalytics(ctx context.Context) (*services.Analytics, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Data.LoadTimeout)
	defer cancel()

	ds, err := a.dataSource().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	analytics := services.NewAnalytics()
	analytics.SetDataset(ds)
	return analytics, nil
}

// selectionFlags is shared by report and export.
type selectionFlags struct {
	category      string
	subCategories []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category (default: first in the dataset)")
	cmd.Flags().StringSliceVarP(&f.subCategories, "sub-category", "s", nil, "sub-category, repeatable or comma separated")
}

func (f *selectionFlags) resolve(analytics *services.Analytics) (models.Selection, error) {
	subs := make([]string, 0, len(f.subCategories))
	for _, s := range f.subCategories {
		if s = strings.TrimSpace(s); s != "" {
			subs = append(subs, s)
		}
	}

	sel, err := analytics.NormalizeSelection(strings.TrimSpace(f.category), subs)
	if err != nil {
		return sel, fmt.Errorf("%w (available: %s)", err, strings.Join(analytics.Categories(), ", "))
	}
	return sel, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
