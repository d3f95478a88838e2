package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"peak-marker/internal/config"
	"peak-marker/internal/export"
	"peak-marker/internal/session"
	"peak-marker/internal/table"
)

func newPlotsCommand() *cobra.Command {
	var dir string
	var width, height int

	cmd := &cobra.Command{
		Use:   "plots <file>",
		Short: "Render a peak plot for every row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := table.Load(args[0])
			if err != nil {
				return fmt.Errorf("load table: %w", err)
			}

			sess := session.New(nil)
			sess.SetTable(tbl)

			out := cmd.OutOrStdout()
			saved := 0
			for i := 0; i < tbl.RowCount(); i++ {
				view, err := sess.RowView(i)
				if err != nil {
					return err
				}
				path, err := export.SavePlot(dir, tbl.Source, view, width, height)
				if err != nil {
					fmt.Fprintf(out, "Row %s: render failed: %v\n", tbl.Label(i), err)
					continue
				}
				fmt.Fprintf(out, "Saved %s\n", path)
				saved++
			}
			fmt.Fprintf(out, "Rendered %d of %d plots\n", saved, tbl.RowCount())
			return nil
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVarP(&dir, "dir", "d", defaults.Export.PlotDir, "Directory for rendered plots")
	cmd.Flags().IntVar(&width, "width", defaults.Export.ChartWidth, "Plot width in pixels")
	cmd.Flags().IntVar(&height, "height", defaults.Export.ChartHeight, "Plot height in pixels")

	return cmd
}
