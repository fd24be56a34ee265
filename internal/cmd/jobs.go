package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/api"
	"github.com/rundeck/rundeck-cli/internal/dryrun"
	"github.com/rundeck/rundeck-cli/internal/validation"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Browse, run and manage job definitions",
	}

	cmd.AddCommand(newJobsListCmd())
	cmd.AddCommand(newJobsGetCmd())
	cmd.AddCommand(newJobsRunCmd())
	cmd.AddCommand(newJobsDeleteCmd())
	cmd.AddCommand(newJobsExportCmd())
	cmd.AddCommand(newJobsImportCmd())

	return cmd
}

func newJobsListCmd() *cobra.Command {
	var (
		project   string
		all       bool
		jobFilter string
		groupPath string
		ids       []string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List jobs of a project",
		Args:    cobra.NoArgs,
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

			var jobs []api.Job
			switch {
			case all:
				jobs, err = client.Jobs().ListAll(cmd.Context())
			case project != "":
				jobs, err = client.Jobs().List(cmd.Context(), project, api.JobListOptions{
					JobFilter: jobFilter,
					GroupPath: groupPath,
					IDs:       ids,
				})
			default:
				return fmt.Errorf("--project is required (or pass --all)")
			}
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, jobs)
			}

			if len(jobs) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No jobs found")
				return nil
			}
			w := newTabWriter(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "ID\tNAME\tPROJECT\tDESCRIPTION")
			for _, job := range jobs {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", job.ID, job.FullName(), job.Project, job.Description)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project to list jobs from")
	cmd.Flags().BoolVar(&all, "all", false, "List jobs across every project")
	cmd.Flags().StringVar(&jobFilter, "job-filter", "", "Match against job names")
	cmd.Flags().StringVar(&groupPath, "group", "", "Restrict to a group or partial group path")
	cmd.Flags().StringSliceVar(&ids, "id", nil, "Restrict to the given job IDs (repeatable)")

	return cmd
}

func newJobsGetCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "get <id|name>",
		Short: "Show one job definition",
		Long:  "Show a job by UUID, or by name fuzzy-matched against the jobs of --project.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			jobID, err := resolveJob(cmd.Context(), client, project, args[0])
			if err != nil {
				return err
			}
			job, err := client.Jobs().Get(cmd.Context(), jobID)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, job)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "ID:           %s\n", job.ID)
			_, _ = fmt.Fprintf(out, "Name:         %s\n", job.FullName())
			_, _ = fmt.Fprintf(out, "Project:      %s\n", job.Project)
			if job.Description != "" {
				_, _ = fmt.Fprintf(out, "Description:  %s\n", job.Description)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project for name resolution")

	return cmd
}

func newJobsRunCmd() *cobra.Command {
	var (
		project string
		options []string
		noWait  bool
		filters nodeFilterFlags
	)

	cmd := &cobra.Command{
		Use:   "run <id|name>",
		Short: "Run a job and wait for it to finish",
		Example: strings.TrimSpace(`
  # Run by UUID
  rundeck jobs run 5a7e7f7d-90c5-4a39-b7d7-4a28f7ebbe5e

  # Run by name with options, don't wait for completion
  rundeck jobs run nightly-backup --project ops --opt target=db1 --no-wait
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			optionMap, err := parseOptions(options)
			if err != nil {
				return err
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			jobID, err := resolveJob(cmd.Context(), client, project, args[0])
			if err != nil {
				return err
			}

			if dryrun.IsEnabled(cmd.Context()) {
				preview := &dryrun.Preview{
					Operation: "run",
					Resource:  fmt.Sprintf("job %s", jobID),
					Details:   optionMap,
				}
				preview.Write(cmd.OutOrStdout())
				return nil
			}

			var execution *api.Execution
			if noWait {
				execution, err = client.Jobs().TriggerJob(cmd.Context(), jobID, optionMap, filters.build())
			} else {
				execution, err = client.Jobs().Run(cmd.Context(), jobID, optionMap, filters.build())
			}
			if err != nil {
				return err
			}
			if noWait {
				return printExecution(cmd, execution)
			}
			return printRunResult(cmd, execution)
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project for name resolution")
	cmd.Flags().StringArrayVar(&options, "opt", nil, "Job option as key=value (repeatable)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Trigger the job and return without polling")
	filters.install(cmd)

	return cmd
}

func newJobsDeleteCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a job definition",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			jobID, err := resolveJob(cmd.Context(), client, project, args[0])
			if err != nil {
				return err
			}

			if dryrun.IsEnabled(cmd.Context()) {
				preview := &dryrun.Preview{Operation: "delete", Resource: fmt.Sprintf("job %s", jobID)}
				preview.Write(cmd.OutOrStdout())
				return nil
			}

			message, err := client.Jobs().Delete(cmd.Context(), jobID)
			if err != nil {
				return err
			}
			if message == "" {
				message = fmt.Sprintf("Deleted job %s", jobID)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project for name resolution")

	return cmd
}

func newJobsExportCmd() *cobra.Command {
	var (
		project   string
		format    string
		jobFilter string
		groupPath string
		ids       []string
		outFile   string
	)

	cmd := &cobra.Command{
		Use:   "export [id|name]",
		Short: "Export job definitions as XML or YAML",
		Long: strings.TrimSpace(`
Export a single job (by UUID or fuzzy name) or, with --project and no
argument, every matching job of a project. The definitions are written to
stdout unless --file is given.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			exportFormat := api.ExportFormat(strings.ToLower(format))

			client, err := getClient()
			if err != nil {
				return err
			}

			var definitions []byte
			if len(args) == 1 {
				jobID, err := resolveJob(cmd.Context(), client, project, args[0])
				if err != nil {
					return err
				}
				definitions, err = client.Jobs().ExportJob(cmd.Context(), exportFormat, jobID)
				if err != nil {
					return err
				}
			} else {
				if project == "" {
					return fmt.Errorf("--project is required when no job is given")
				}
				definitions, err = client.Jobs().Export(cmd.Context(), exportFormat, project, api.JobListOptions{
					JobFilter: jobFilter,
					GroupPath: groupPath,
					IDs:       ids,
				})
				if err != nil {
					return err
				}
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, definitions, 0o644); err != nil {
					return fmt.Errorf("failed to write %q: %w", outFile, err)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(definitions), outFile)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(definitions)
			return err
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project to export from")
	cmd.Flags().StringVar(&format, "format", "xml", "Definition format: xml|yaml")
	cmd.Flags().StringVar(&jobFilter, "job-filter", "", "Match against job names")
	cmd.Flags().StringVar(&groupPath, "group", "", "Restrict to a group or partial group path")
	cmd.Flags().StringSliceVar(&ids, "id", nil, "Restrict to the given job IDs (repeatable)")
	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write the definitions to a file instead of stdout")

	return cmd
}

func newJobsImportCmd() *cobra.Command {
	var (
		format string
		dupe   string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Upload job definitions",
		Long: strings.TrimSpace(`
Upload an XML or YAML job definitions file. Jobs that already exist are
handled per --dupe: create a copy, update in place, or skip.
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var method api.ImportMethod
			switch strings.ToLower(dupe) {
			case "create":
				method = api.ImportCreate
			case "update":
				method = api.ImportUpdate
			case "skip":
				method = api.ImportSkip
			default:
				return fmt.Errorf("invalid --dupe %q: must be create, update or skip", dupe)
			}

			if dryrun.IsEnabled(cmd.Context()) {
				preview := &dryrun.Preview{
					Operation: "import",
					Resource:  fmt.Sprintf("job definitions from %s", args[0]),
					Details:   map[string]string{"format": strings.ToLower(format), "dupe": strings.ToLower(dupe)},
				}
				preview.Write(cmd.OutOrStdout())
				return nil
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %q: %w", args[0], err)
			}
			defer func() { _ = file.Close() }()

			client, err := getClient()
			if err != nil {
				return err
			}
			result, err := client.Jobs().Import(cmd.Context(), file, api.ExportFormat(strings.ToLower(format)), method)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			for _, job := range result.Succeeded {
				_, _ = fmt.Fprintf(out, "imported  %s (%s)\n", job.FullName(), job.ID)
			}
			for _, job := range result.Skipped {
				_, _ = fmt.Fprintf(out, "skipped   %s (%s)\n", job.FullName(), job.ID)
			}
			for _, failed := range result.Failed {
				_, _ = fmt.Fprintf(out, "failed    %s: %s\n", failed.Job.FullName(), failed.Error)
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d job(s) failed to import", len(result.Failed))
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&format, "format", "xml", "Definition format: xml|yaml")
	cmd.Flags().StringVar(&dupe, "dupe", "update", "Behavior for existing jobs: create|update|skip")

	return cmd
}

// parseOptions turns repeated key=value flags into a map.
func parseOptions(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	options := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid option %q: expected key=value", pair)
		}
		if err := validation.ValidateOptionName(key); err != nil {
			return nil, err
		}
		if err := validation.ValidateOptionValue(key, value); err != nil {
			return nil, err
		}
		options[key] = value
	}
	return options, nil
}
