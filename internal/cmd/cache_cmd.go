package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local listing cache",
		Long:  "Job listings used for name resolution are cached on disk for a few minutes. Clear the cache after renaming or deleting jobs server-side.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached listings",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("failed to locate cache directory: %w", err)
			}
			cache.ClearAll(dir)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		}),
	})

	return cmd
}
