package main

import (
	"github.com/aretw0/rapidfire/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the core and exposes the project over a JSON API.
Events are streamed to one client at a time on GET /events (Server-Sent Events).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return cli.RunServe(cmd.Context(), globalOptions(cmd), addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
