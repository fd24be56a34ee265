package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/api"
	"github.com/rundeck/rundeck-cli/internal/validation"
)

func newNodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nodes",
		Aliases: []string{"node"},
		Short:   "Browse project node inventories",
	}

	cmd.AddCommand(newNodesListCmd())
	cmd.AddCommand(newNodesGetCmd())

	return cmd
}

func newNodesListCmd() *cobra.Command {
	var (
		project string
		all     bool
		filters nodeFilterFlags
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the nodes of a project",
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

			var nodes []api.Node
			switch {
			case all:
				nodes, err = client.Nodes().ListAll(cmd.Context())
			case project != "":
				nodes, err = client.Nodes().List(cmd.Context(), project, filters.build())
			default:
				return fmt.Errorf("--project is required (or pass --all)")
			}
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, nodes)
			}

			if len(nodes) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No nodes found")
				return nil
			}
			w := newTabWriter(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "NAME\tHOSTNAME\tOS\tTAGS")
			for _, node := range nodes {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					node.Name,
					node.Hostname,
					nodeOS(node),
					strings.Join(node.Tags, ","),
				)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project whose nodes to list")
	cmd.Flags().BoolVar(&all, "all", false, "List nodes across every project")
	filters.install(cmd)

	return cmd
}

func newNodesGetCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show one node",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := requireProject(project); err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			node, err := client.Nodes().Get(cmd.Context(), args[0], project)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(cmd, node)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Name:      %s\n", node.Name)
			_, _ = fmt.Fprintf(out, "Hostname:  %s\n", node.Hostname)
			if node.Username != "" {
				_, _ = fmt.Fprintf(out, "Username:  %s\n", node.Username)
			}
			if os := nodeOS(*node); os != "-" {
				_, _ = fmt.Fprintf(out, "OS:        %s\n", os)
			}
			if len(node.Tags) > 0 {
				_, _ = fmt.Fprintf(out, "Tags:      %s\n", strings.Join(node.Tags, ","))
			}
			if node.Description != "" {
				_, _ = fmt.Fprintf(out, "About:     %s\n", node.Description)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project the node belongs to")

	return cmd
}

func nodeOS(node api.Node) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{node.OsName, node.OsVersion, node.OsArch} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
