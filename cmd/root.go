package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "whiterabbit",
	Short: "Schema-free profiler for delimited data files",
	Long: `Profiles large delimited files without a schema, inferring each
column's type and producing per-column statistics and value
frequencies for a pre-ingestion structural audit`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log per-file progress details")
}
