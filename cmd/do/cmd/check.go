package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/templui/intake/internal/app"
	"github.com/templui/intake/internal/config"
)

// CheckCmd validates the configuration and connects to every configured
// store without serving, running the same initialisation as the server.
func CheckCmd() *cobra.Command {
	var timeout time.Duration

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and reach the configured stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Printf("ok: blob=%s submissions=%s\n", cfg.BlobDriver, cfg.SubmissionDriver)
			return nil
		},
	}

	checkCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")
	return checkCmd
}
