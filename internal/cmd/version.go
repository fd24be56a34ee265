package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/update"
)

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rundeck-cli version %s\n", version)

			if !check {
				return
			}
			// Best effort; failures stay silent.
			result := update.CheckForUpdate(cmd.Context(), version)
			errOut := cmd.ErrOrStderr()
			switch {
			case result == nil:
				_, _ = fmt.Fprintln(errOut, "Update check skipped")
			case result.UpdateAvailable:
				_, _ = fmt.Fprintf(errOut, "Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", result.UpdateURL)
			default:
				_, _ = fmt.Fprintln(errOut, "You are on the latest version")
			}
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check for a newer release")

	return cmd
}
