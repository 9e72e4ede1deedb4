package main

import (
	"github.com/aretw0/rapidfire/internal/cli"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return cli.RunShow(cmd.Context(), globalOptions(cmd), format, cmd.OutOrStdout())
	},
}

func init() {
	showCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: markdown, json, yaml or mermaid")
	rootCmd.AddCommand(showCmd)
}
