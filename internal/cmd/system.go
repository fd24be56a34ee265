package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSystemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Inspect the Rundeck server",
	}

	cmd.AddCommand(newSystemInfoCmd())

	return cmd
}

func newSystemInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server version, OS and runtime statistics",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			info, err := client.System().Info(cmd.Context())
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Rundeck:  %s (build %s) on node %s\n", info.Version, info.Build, info.Node)
			_, _ = fmt.Fprintf(out, "OS:       %s %s (%s)\n", info.OsName, info.OsVersion, info.OsArch)
			_, _ = fmt.Fprintf(out, "JVM:      %s %s (%s)\n", info.JvmName, info.JvmVersion, info.JvmVendor)
			if info.Uptime > 0 {
				uptime := time.Duration(info.Uptime) * time.Millisecond
				_, _ = fmt.Fprintf(out, "Uptime:   %s (since %s)\n", formatDuration(uptime), formatTime(info.StartDate))
			}
			if info.TotalMemoryBytes > 0 {
				_, _ = fmt.Fprintf(out, "Memory:   %s free of %s (max %s)\n",
					formatBytes(info.FreeMemoryBytes),
					formatBytes(info.TotalMemoryBytes),
					formatBytes(info.MaxMemoryBytes),
				)
			}
			if info.CPULoadAverage != "" {
				_, _ = fmt.Fprintf(out, "Load:     %s\n", info.CPULoadAverage)
			}
			_, _ = fmt.Fprintf(out, "Jobs:     %d running, %d active threads\n", info.RunningJobs, info.ActiveThreads)
			return nil
		}),
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
