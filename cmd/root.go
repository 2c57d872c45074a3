package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cobit5",
	Short: "COBIT 5 audit report service",
	Long: `cobit5 renders PDF reports for COBIT 5 audits and runs the batch
report queue. It serves the HTTP API, renders single reports from the
command line and exposes report tools to AI agents over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
