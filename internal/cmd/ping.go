package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the Rundeck server is reachable",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			start := time.Now()
			if err := client.Ping(cmd.Context()); err != nil {
				return err
			}
			elapsed := time.Since(start).Round(time.Millisecond)

			if isJSON() {
				return printJSON(cmd, map[string]any{
					"url":        client.BaseURL,
					"reachable":  true,
					"elapsed_ms": elapsed.Milliseconds(),
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is up (%s)\n", client.BaseURL, elapsed)
			return nil
		}),
	}
}
