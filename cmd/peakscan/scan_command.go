package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"peak-marker/internal/peaks"
	"peak-marker/internal/table"
)

func newScanCommand() *cobra.Command {
	var prominence float64
	var minWidth float64
	var outPath string

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Detect peak candidates for every row and print them as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := table.Load(args[0])
			if err != nil {
				return fmt.Errorf("load table: %w", err)
			}

			opts := peaks.Options{Prominence: prominence, MinWidth: minWidth}
			cache := peaks.NewCache(func(y []float64) []int {
				return peaks.Detect(y, opts)
			})

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			w := csv.NewWriter(out)
			if err := w.Write([]string{"RowLabel", "Peak_X", "Peak_Y"}); err != nil {
				return err
			}
			for i := 0; i < tbl.RowCount(); i++ {
				label := tbl.Label(i)
				cands := cache.Candidates(tbl, i)
				if len(cands) == 0 {
					if err := w.Write([]string{label, "", ""}); err != nil {
						return err
					}
					continue
				}
				for _, p := range cands {
					rec := []string{
						label,
						strconv.FormatFloat(p.X, 'g', -1, 64),
						strconv.FormatFloat(p.Y, 'g', -1, 64),
					}
					if err := w.Write(rec); err != nil {
						return err
					}
				}
			}
			w.Flush()
			return w.Error()
		},
	}

	defaults := peaks.DefaultOptions()
	cmd.Flags().Float64Var(&prominence, "prominence", defaults.Prominence, "Minimum peak prominence")
	cmd.Flags().Float64Var(&minWidth, "min-width", defaults.MinWidth, "Minimum peak width in samples")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write CSV to a file instead of stdout")

	return cmd
}
