package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domainstats "tabstat/domain/stats"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		out  string
		html bool
	)

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Write every statistic as a markdown or HTML report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			results, err := a.runner.RunSync(cmd.Context(), snap.Set, domainstats.All())
			if err != nil {
				return err
			}
			report, err := snap.Report(results)
			if err != nil {
				return err
			}

			body := []byte(report.Markdown())
			if html {
				body = report.HTML()
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			a.logger.Info("Report written to %s", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&html, "html", false, "render HTML instead of markdown")

	return cmd
}
