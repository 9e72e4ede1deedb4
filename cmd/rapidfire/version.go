package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/rapidfire"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rapidfire",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rapidfire version %s\n", strings.TrimSpace(rapidfire.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
