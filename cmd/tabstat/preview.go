package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tabstat/domain/dataset"
	"tabstat/internal/present"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		page int
		size int
	)

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show one page of table rows",
		Long: `Show a window of rows from the loaded table. Pages are zero-based and
an index past the end shows the last page.

Example: tabstat preview athletes.csv --page 2 --size 50`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			writePage(cmd.OutOrStdout(), snap.Table.Page(page, size))
			fmt.Fprintln(cmd.OutOrStdout(), present.StatusLine(snap.Table.Len()))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "page index, starting at 0")
	cmd.Flags().IntVar(&size, "size", dataset.DefaultPageSize, "rows per page")

	return cmd
}

func writePage(w io.Writer, p dataset.Page) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range p.Header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for _, row := range p.Cells {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			if cell == nil {
				fmt.Fprint(tw, present.Placeholder)
				continue
			}
			fmt.Fprint(tw, present.FormatValue(cell))
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
	if p.Total > 0 {
		fmt.Fprintf(w, "rows %d-%d of %d (page %d of %d)\n", p.Start+1, p.End, p.Total, p.Index+1, p.PageCount)
	}
}
