package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tabstat/adapters/render"
	"tabstat/adapters/stats/plotdata"
	domainstats "tabstat/domain/stats"
	"tabstat/internal/present"
)

func newPlotCmd(a *app) *cobra.Command {
	var (
		file    string
		bins    int
		exclude []string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "plot [kind] [columns...]",
		Short: "Render a chart of one or two columns as PNG",
		Long: `Render a chart from the loaded table.

Kinds: frequency (alias total), histogram, percentiles, scatter, band,
covariance, correlation. Scatter takes x then y; band takes the value
column then the group column. Matrices take no columns and honour
stats.matrix_exclude unless --exclude is given.

Example: tabstat plot scatter HEIGHT WEIGHT --file athletes.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := plotdata.ParseKind(args[0])
			if err != nil {
				return err
			}
			var source []string
			if file != "" {
				source = []string{file}
			}
			snap, err := a.load(cmd.Context(), source)
			if err != nil {
				return err
			}

			req := plotdata.Request{Kind: kind, Columns: args[1:], Bins: bins, Exclude: snap.MatrixExclude()}
			if cmd.Flags().Changed("exclude") {
				req.Exclude = exclude
			}
			if outDir == "" {
				outDir = a.cfg.Render.OutputDir
			}
			r := render.NewRenderer(outDir, a.cfg.Render.Width, a.cfg.Render.Height)
			path, err := r.Render(snap.Preparer, snap.Table, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "table to load (default data.file)")
	cmd.Flags().IntVar(&bins, "bins", 0, "histogram bin count (default stats.histogram_bins)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "columns left out of matrix charts")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default render.output_dir)")
	cmd.AddCommand(newPlotDataCmd(a))

	return cmd
}

// newPlotDataCmd prints the prepared series as JSON instead of drawing it
func newPlotDataCmd(a *app) *cobra.Command {
	var (
		file string
		bins int
	)

	cmd := &cobra.Command{
		Use:   "data [kind] [columns...]",
		Short: "Print the prepared chart series as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := plotdata.ParseKind(args[0])
			if err != nil {
				return err
			}
			var source []string
			if file != "" {
				source = []string{file}
			}
			snap, err := a.load(cmd.Context(), source)
			if err != nil {
				return err
			}
			req := plotdata.Request{Kind: kind, Columns: args[1:], Bins: bins, Exclude: snap.MatrixExclude()}
			series, err := snap.Preparer.Series(req, snap.Table)
			if err != nil {
				return err
			}
			if m, ok := series.(domainstats.PairResult); ok {
				statistic, _ := kind.Statistic()
				series = present.ShapeMatrix(statistic, m)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(series)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "table to load (default data.file)")
	cmd.Flags().IntVar(&bins, "bins", 0, "histogram bin count (default stats.histogram_bins)")
	return cmd
}
