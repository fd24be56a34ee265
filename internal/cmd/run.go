package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/api"
	"github.com/rundeck/rundeck-cli/internal/dryrun"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run ad-hoc commands and scripts on project nodes",
	}

	cmd.AddCommand(newRunCommandCmd())
	cmd.AddCommand(newRunScriptCmd())

	return cmd
}

func newRunCommandCmd() *cobra.Command {
	var (
		project     string
		threadcount int
		keepgoing   bool
		noWait      bool
		filters     nodeFilterFlags
	)

	cmd := &cobra.Command{
		Use:   "command [--] <command...>",
		Short: "Run a shell command on matching nodes",
		Example: strings.TrimSpace(`
  # Check disk usage on every node tagged "web"
  rundeck run command --project ops --node-tags web -- df -h

  # Fire and forget, 10 nodes at a time
  rundeck run command --project ops --threadcount 10 --no-wait -- uptime
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := requireProject(project); err != nil {
				return err
			}
			command := strings.Join(args, " ")

			if dryrun.IsEnabled(cmd.Context()) {
				preview := &dryrun.Preview{
					Operation: "run ad-hoc command on",
					Resource:  fmt.Sprintf("project %s", project),
					Details:   map[string]string{"command": command},
				}
				preview.Write(cmd.OutOrStdout())
				return nil
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			opts := adhocOptions(cmd, threadcount, keepgoing, filters)

			var execution *api.Execution
			if noWait {
				execution, err = client.Adhoc().TriggerCommand(cmd.Context(), project, command, opts)
			} else {
				execution, err = client.Adhoc().RunCommand(cmd.Context(), project, command, opts)
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

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project whose nodes run the command")
	cmd.Flags().IntVar(&threadcount, "threadcount", 0, "Number of nodes to dispatch to in parallel")
	cmd.Flags().BoolVar(&keepgoing, "keepgoing", false, "Keep running on other nodes when one fails")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Trigger the command and return without polling")
	filters.install(cmd)

	return cmd
}

func newRunScriptCmd() *cobra.Command {
	var (
		project     string
		options     []string
		threadcount int
		keepgoing   bool
		noWait      bool
		filters     nodeFilterFlags
	)

	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Upload and run a script on matching nodes",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := requireProject(project); err != nil {
				return err
			}
			optionMap, err := parseOptions(options)
			if err != nil {
				return err
			}

			if dryrun.IsEnabled(cmd.Context()) {
				preview := &dryrun.Preview{
					Operation: "run script on",
					Resource:  fmt.Sprintf("project %s", project),
					Details:   map[string]string{"script": args[0]},
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
			opts := adhocOptions(cmd, threadcount, keepgoing, filters)

			var execution *api.Execution
			if noWait {
				execution, err = client.Adhoc().TriggerScript(cmd.Context(), project, file, optionMap, opts)
			} else {
				execution, err = client.Adhoc().RunScript(cmd.Context(), project, file, optionMap, opts)
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

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project whose nodes run the script")
	cmd.Flags().StringArrayVar(&options, "opt", nil, "Script option as key=value (repeatable)")
	cmd.Flags().IntVar(&threadcount, "threadcount", 0, "Number of nodes to dispatch to in parallel")
	cmd.Flags().BoolVar(&keepgoing, "keepgoing", false, "Keep running on other nodes when one fails")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Trigger the script and return without polling")
	filters.install(cmd)

	return cmd
}

// adhocOptions builds dispatch options, passing threadcount and keepgoing
// only when their flags were set so the server defaults stay in effect.
func adhocOptions(cmd *cobra.Command, threadcount int, keepgoing bool, filters nodeFilterFlags) api.AdhocOptions {
	opts := api.AdhocOptions{NodeFilters: filters.build()}
	if cmd.Flags().Changed("threadcount") {
		opts.NodeThreadcount = &threadcount
	}
	if cmd.Flags().Changed("keepgoing") {
		opts.NodeKeepgoing = &keepgoing
	}
	return opts
}
