package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Browse projects",
	}

	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsGetCmd())

	return cmd
}

func newProjectsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all projects",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			projects, err := client.Projects().List(cmd.Context())
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, projects)
			}

			if len(projects) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No projects found")
				return nil
			}
			w := newTabWriter(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, project := range projects {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", project.Name, project.Description)
			}
			return w.Flush()
		}),
	}
	return cmd
}

func newProjectsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			project, err := client.Projects().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, project)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Name:         %s\n", project.Name)
			if project.Description != "" {
				_, _ = fmt.Fprintf(out, "Description:  %s\n", project.Description)
			}
			if project.ResourceModelProviderURL != "" {
				_, _ = fmt.Fprintf(out, "Resources:    %s\n", project.ResourceModelProviderURL)
			}
			return nil
		}),
	}
	return cmd
}
