// Command peakscan runs peak detection and plot rendering without the GUI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"peak-marker/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "peakscan",
		Short:         "Batch peak detection for tabular signal data",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newScanCommand())
	root.AddCommand(newPlotsCommand())
	root.AddCommand(newConfigCommand())

	return root
}
