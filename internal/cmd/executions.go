package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/api"
	"github.com/rundeck/rundeck-cli/internal/dryrun"
	"github.com/rundeck/rundeck-cli/internal/urlparse"
	"github.com/rundeck/rundeck-cli/internal/validation"
)

func newExecutionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "executions",
		Aliases: []string{"execution", "exec"},
		Short:   "Inspect and control executions",
	}

	cmd.AddCommand(newExecutionsGetCmd())
	cmd.AddCommand(newExecutionsAbortCmd())
	cmd.AddCommand(newExecutionsRunningCmd())
	cmd.AddCommand(newExecutionsListCmd())

	return cmd
}

func newExecutionsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one execution",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			executionID, err := parseExecutionID(args[0])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			execution, err := client.Executions().Get(cmd.Context(), executionID)
			if err != nil {
				return err
			}
			return printExecution(cmd, execution)
		}),
	}
	return cmd
}

func newExecutionsAbortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abort <id>",
		Short: "Abort a running execution",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			executionID, err := parseExecutionID(args[0])
			if err != nil {
				return err
			}

			if dryrun.IsEnabled(cmd.Context()) {
				preview := &dryrun.Preview{Operation: "abort", Resource: fmt.Sprintf("execution %d", executionID)}
				preview.Write(cmd.OutOrStdout())
				return nil
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			abort, err := client.Executions().Abort(cmd.Context(), executionID)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, abort)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Abort of execution %d: %s\n", executionID, abort.Status)
			if abort.Status == api.AbortFailed {
				return fmt.Errorf("abort of execution %d failed", executionID)
			}
			return nil
		}),
	}
	return cmd
}

func newExecutionsRunningCmd() *cobra.Command {
	var (
		project string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "running",
		Short: "List currently running executions",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if project != "" {
				if err := validation.ValidateProjectName(project); err != nil {
					return err
				}
			}
			client, err := getClient()
			if err != nil {
				return err
			}

			var executions []api.Execution
			switch {
			case all:
				executions, err = client.Executions().RunningAll(cmd.Context())
			case project != "":
				executions, err = client.Executions().Running(cmd.Context(), project)
			default:
				return fmt.Errorf("--project is required (or pass --all)")
			}
			if err != nil {
				return err
			}
			return printExecutionList(cmd, executions, "No running executions")
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project to inspect")
	cmd.Flags().BoolVar(&all, "all", false, "Inspect every project")

	return cmd
}

func newExecutionsListCmd() *cobra.Command {
	var (
		project string
		jobRef  string
		status  string
		max     int64
		offset  int64
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List past executions of a job",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if jobRef == "" {
				return fmt.Errorf("--job is required")
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			jobID, err := resolveJob(cmd.Context(), client, project, jobRef)
			if err != nil {
				return err
			}

			opts := api.ExecutionListOptions{Status: api.ExecutionStatus(status)}
			if cmd.Flags().Changed("max") {
				opts.Max = &max
			}
			if cmd.Flags().Changed("offset") {
				opts.Offset = &offset
			}

			executions, err := client.Executions().ForJob(cmd.Context(), jobID, opts)
			if err != nil {
				return err
			}
			return printExecutionList(cmd, executions, "No executions found")
		}),
	}

	cmd.Flags().StringVar(&jobRef, "job", "", "Job UUID or name")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project for name resolution")
	cmd.Flags().StringVar(&status, "status", "", "Keep only executions in this state: running|succeeded|failed|aborted")
	cmd.Flags().Int64Var(&max, "max", 0, "Cap the number of results")
	cmd.Flags().Int64Var(&offset, "offset", 0, "Offset of the first result")

	return cmd
}

// parseExecutionID accepts a numeric ID or a pasted GUI link such as
// https://rundeck.example.com/project/ops/execution/show/42.
func parseExecutionID(s string) (int64, error) {
	if urlparse.IsURL(s) {
		parsed, err := urlparse.Parse(s)
		if err != nil {
			return 0, err
		}
		if parsed.ResourceType != "execution" {
			return 0, fmt.Errorf("%q is a %s URL, not an execution URL", s, parsed.ResourceType)
		}
		s = parsed.ResourceID
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid argument %q: execution ID must be a positive integer", s)
	}
	return id, nil
}

func printExecution(cmd *cobra.Command, execution *api.Execution) error {
	if isJSON() {
		return printJSON(cmd, execution)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "ID:          %d\n", execution.ID)
	_, _ = fmt.Fprintf(out, "Status:      %s\n", execution.Status)
	if execution.Job != nil {
		_, _ = fmt.Fprintf(out, "Job:         %s (%s)\n", execution.Job.FullName(), execution.Job.ID)
	}
	if execution.Description != "" {
		_, _ = fmt.Fprintf(out, "Command:     %s\n", execution.Description)
	}
	if execution.StartedBy != "" {
		_, _ = fmt.Fprintf(out, "Started by:  %s\n", execution.StartedBy)
	}
	_, _ = fmt.Fprintf(out, "Started:     %s\n", formatTime(execution.StartedAt))
	if execution.EndedAt != nil {
		_, _ = fmt.Fprintf(out, "Ended:       %s\n", formatTime(execution.EndedAt))
		_, _ = fmt.Fprintf(out, "Duration:    %s\n", formatDuration(execution.Duration()))
	}
	if execution.AbortedBy != "" {
		_, _ = fmt.Fprintf(out, "Aborted by:  %s\n", execution.AbortedBy)
	}
	if execution.URL != "" {
		_, _ = fmt.Fprintf(out, "URL:         %s\n", execution.URL)
	}
	return nil
}

// printRunResult renders a just-run execution and fails the command when the
// run ended badly, so scripts can rely on the exit code.
func printRunResult(cmd *cobra.Command, execution *api.Execution) error {
	if err := printExecution(cmd, execution); err != nil {
		return err
	}
	if execution.Status == api.ExecutionFailed || execution.Status == api.ExecutionAborted {
		return fmt.Errorf("execution %d %s", execution.ID, execution.Status)
	}
	return nil
}

func printExecutionList(cmd *cobra.Command, executions []api.Execution, emptyMessage string) error {
	if isJSON() {
		return printJSON(cmd, executions)
	}

	if len(executions) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), emptyMessage)
		return nil
	}
	w := newTabWriter(cmd.OutOrStdout())
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tJOB\tSTARTED\tDURATION")
	for _, execution := range executions {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			execution.ID,
			execution.Status,
			jobLabel(execution),
			formatTime(execution.StartedAt),
			formatDuration(execution.Duration()),
		)
	}
	return w.Flush()
}
