package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the interview API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := opts.client().Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check against %s failed: %w", opts.apiURL, err)
			}
			if status != "ok" {
				return fmt.Errorf("unexpected health status %q from %s", status, opts.apiURL)
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✅ API reachable at "+opts.apiURL))
			return nil
		},
	}
}
