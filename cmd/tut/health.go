package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable and healthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newCLIEnv(root.baseURL)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			health, err := env.client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API:     %s\n", env.client.BaseURL())
			fmt.Fprintf(out, "Status:  %s\n", health.Status)
			if health.Timestamp != "" {
				fmt.Fprintf(out, "Checked: %s\n", health.Timestamp)
			}
			if !health.IsHealthy() {
				return fmt.Errorf("backend reported status %q", health.Status)
			}
			return nil
		},
	}
}
