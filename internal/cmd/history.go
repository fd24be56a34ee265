package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/api"
	"github.com/rundeck/rundeck-cli/internal/cli"
)

func newHistoryCmd() *cobra.Command {
	var (
		project string
		jobID   string
		user    string
		recent  string
		begin   string
		end     string
		max     int64
		offset  int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the activity history of a project",
		Example: `  rundeck history --project ops --recent 2d --user deploy`,
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if err := requireProject(project); err != nil {
				return err
			}

			opts := api.HistoryOptions{
				JobID:  jobID,
				User:   user,
				Recent: recent,
			}
			now := time.Now()
			if begin != "" {
				t, err := cli.ParseEventTime(begin, now)
				if err != nil {
					return fmt.Errorf("invalid --begin: %w", err)
				}
				opts.Begin = &t
			}
			if end != "" {
				t, err := cli.ParseEventTime(end, now)
				if err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
				opts.End = &t
			}
			if cmd.Flags().Changed("max") {
				opts.Max = &max
			}
			if cmd.Flags().Changed("offset") {
				opts.Offset = &offset
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			history, err := client.History().Get(cmd.Context(), project, opts)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, history)
			}

			if len(history.Events) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No events found")
				return nil
			}
			w := newTabWriter(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "STARTED\tSTATUS\tTITLE\tUSER\tNODES")
			for _, event := range history.Events {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d ok\n",
					formatTime(event.StartedAt),
					event.Status,
					event.Title,
					event.User,
					event.NodeSummary.Succeeded,
					event.NodeSummary.Total,
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d of %d events\n", history.Count, history.Total)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project whose history to show")
	cmd.Flags().StringVar(&jobID, "job", "", "Keep only events produced by this job ID")
	cmd.Flags().StringVar(&user, "user", "", "Keep only events triggered by this user")
	cmd.Flags().StringVar(&recent, "recent", "", "Relative time window, e.g. 1h, 2d, 3w")
	cmd.Flags().StringVar(&begin, "begin", "", "Earliest event date (RFC 3339, 2006-01-02 or e.g. '2h ago')")
	cmd.Flags().StringVar(&end, "end", "", "Latest event date (RFC 3339, 2006-01-02 or e.g. '2h ago')")
	cmd.Flags().Int64Var(&max, "max", 0, "Cap the number of results")
	cmd.Flags().Int64Var(&offset, "offset", 0, "Offset of the first result")

	return cmd
}

