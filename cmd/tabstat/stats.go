package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	domainstats "tabstat/domain/stats"
	"tabstat/internal/errors"
	"tabstat/internal/present"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		statistics []string
		column     string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Compute descriptive statistics over the numeric columns",
		Long: `Compute Total, Average, Median, Mode, Variance, Standard Deviation,
Covariance and Correlation over every numeric column of a table.

Missing cells are skipped. A column without enough values for a statistic
shows "—".

Example: tabstat stats athletes.csv -s mean -s std --column AGE`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := parseStatistics(statistics)
			if err != nil {
				return err
			}
			snap, err := a.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			if column != "" && !snap.Set.Has(column) {
				return errors.UnsupportedColumn(column)
			}

			results, err := a.runner.RunSync(cmd.Context(), snap.Set, selected)
			if err != nil {
				return err
			}
			views, err := snap.Views(results)
			if err != nil {
				return err
			}
			if column != "" {
				views = filterColumn(views, column)
			}
			return writeViews(cmd.OutOrStdout(), views, format)
		},
	}

	cmd.Flags().StringArrayVarP(&statistics, "statistic", "s", nil, "statistic to compute (repeatable; default all)")
	cmd.Flags().StringVar(&column, "column", "", "only show this column")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")

	return cmd
}

func parseStatistics(names []string) ([]domainstats.Statistic, error) {
	if len(names) == 0 {
		return domainstats.All(), nil
	}
	out := make([]domainstats.Statistic, 0, len(names))
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			s, err := domainstats.ParseStatistic(part)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	return out, nil
}

// filterColumn keeps one column's entry; matrices are kept whole
func filterColumn(views []present.View, column string) []present.View {
	out := make([]present.View, 0, len(views))
	for _, v := range views {
		if v.Columns != nil {
			entry, _ := v.Columns.Get(column)
			cv := present.ColumnView{Statistic: v.Statistic, Entries: []present.Entry{entry}}
			v.Columns = &cv
		}
		out = append(out, v)
	}
	return out
}

func writeViews(w io.Writer, views []present.View, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(views)
	case "text", "":
		for _, v := range views {
			writeViewText(w, v)
		}
		return nil
	}
	return errors.InvalidInput(fmt.Sprintf("unknown format %q", format))
}

func writeViewText(w io.Writer, v present.View) {
	fmt.Fprintf(w, "%s\n", v.Statistic)
	switch {
	case v.Columns != nil:
		for _, e := range v.Columns.Entries {
			lines := strings.Split(e.Text, "\n")
			fmt.Fprintf(w, "  %-12s %s\n", e.Column, lines[0])
			for _, l := range lines[1:] {
				fmt.Fprintf(w, "  %-12s %s\n", "", l)
			}
		}
	case v.Matrix != nil:
		fmt.Fprintf(w, "  %-12s", "")
		for _, c := range v.Matrix.Columns {
			fmt.Fprintf(w, " %14s", c)
		}
		fmt.Fprintln(w)
		for i, row := range v.Matrix.Cells {
			fmt.Fprintf(w, "  %-12s", v.Matrix.Columns[i])
			for _, cell := range row {
				fmt.Fprintf(w, " %14s", cell)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
}
