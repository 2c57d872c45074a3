package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/importers"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Manage the COBIT process and control catalogue",
}

var catalogueImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import users, processes and controls from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		sum, err := importers.New(a.users, a.catalogue).Import(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Imported %d users, %d processes, %d controls (%d already present)\n",
			sum.Users, sum.Processes, sum.Controls, sum.Skipped)
		return nil
	},
}

func init() {
	catalogueCmd.AddCommand(catalogueImportCmd)
	rootCmd.AddCommand(catalogueCmd)
}
