package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/templui/intake/cmd/do/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "do",
		Short: "Development and operations tools for intake",
		// Failures here are configuration or store errors, not usage mistakes
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.CheckCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
