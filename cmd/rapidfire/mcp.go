package main

import (
	"github.com/aretw0/rapidfire/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over Stdio",
	Long:  `Exposes the project and its patch operations as MCP tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunMCP(cmd.Context(), globalOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
