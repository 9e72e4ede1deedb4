package main

import (
	"github.com/aretw0/rapidfire/internal/cli"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream project updates and volume warnings to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunWatch(cmd.Context(), globalOptions(cmd), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
