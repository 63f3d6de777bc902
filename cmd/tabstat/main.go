package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		logLevel string
	)
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "tabstat",
		Short:         "Descriptive statistics and chart series for tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cfgFile, logLevel)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tabstat.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: ERROR, WARN, INFO, DEBUG or TRACE (overrides config)")

	rootCmd.AddCommand(
		newStatsCmd(a),
		newPlotCmd(a),
		newPreviewCmd(a),
		newReportCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}
