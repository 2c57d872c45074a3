package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a cobit5 configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the report service and writes the file given by --config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
