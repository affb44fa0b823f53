package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/report"
)

func (a *app) reportCmd() *cobra.Command {
	var (
		sel    selectionFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the views for a selection",
		Example: `  dashboard report --category Furniture --sub-category Chairs,Tables
  dashboard report -c Technology -s Phones --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analytics, err := a.loadAnalytics(cmd.Context())
			if err != nil {
				return err
			}

			selection, err := sel.resolve(analytics)
			if err != nil {
				return err
			}

			return report.Write(cmd.OutOrStdout(), format, analytics.Render(selection))
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatTable, "output format: table, yaml or json")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		sel selectionFlags
		out string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the views for a selection to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analytics, err := a.loadAnalytics(cmd.Context())
			if err != nil {
				return err
			}

			selection, err := sel.resolve(analytics)
			if err != nil {
				return err
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			if err := report.WriteWorkbook(f, analytics.Render(selection)); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			a.logger.Info("workbook written", "path", out, "category", selection.Category)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "dashboard.xlsx", "output file")
	return cmd
}
