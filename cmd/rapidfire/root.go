package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/rapidfire/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rapidfire",
	Short: "RapidFire is a sound project editor core",
	Long: `RapidFire keeps a sound project (scenes and their sound instances) in memory,
persists every edit and streams project updates and output volume warnings
to a single presentation client.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Already reported through the logger or an alert.
		if !errors.Is(err, cli.ErrExit) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// globalOptions reads the persistent flags.
func globalOptions(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{ConfigPath: configPath, Debug: debug}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ./rapidfire.yaml if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
