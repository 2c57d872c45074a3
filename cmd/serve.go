package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/jonathanllallire27-prog/Sistema-COBIT5-sub000/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Aliases: []string{"serve"},
	Short:   "Start the MCP server for AI agent integration",
	Long:    `Starts a Model Context Protocol (MCP) server on stdio, exposing report generation and batch job tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(context.Background())
		if err != nil {
			return err
		}
		defer a.Close()

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "cobit5 MCP server started on stdio (db=%s)\n", a.cfg.Database.Path)

		srv := mcpserver.NewServer(a.reports, a.queue, a.files, a.cfg.Server.BaseURL)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
