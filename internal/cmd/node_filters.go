package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/api"
)

// nodeFilterFlags collects the node selection flags shared by the job, adhoc
// and node commands.
type nodeFilterFlags struct {
	hostname  string
	nodeType  string
	tags      string
	name      string
	osName    string
	osFamily  string
	osArch    string
	osVersion string

	excludeHostname string
	excludeTags     string
	excludeName     string

	excludePrecedence bool
}

func (f *nodeFilterFlags) install(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.hostname, "node-hostname", "", "Include nodes matching this hostname")
	cmd.Flags().StringVar(&f.nodeType, "node-type", "", "Include nodes of this type")
	cmd.Flags().StringVar(&f.tags, "node-tags", "", "Include nodes with these tags (comma-separated)")
	cmd.Flags().StringVar(&f.name, "node-name", "", "Include nodes matching this name")
	cmd.Flags().StringVar(&f.osName, "node-os-name", "", "Include nodes with this OS name")
	cmd.Flags().StringVar(&f.osFamily, "node-os-family", "", "Include nodes of this OS family")
	cmd.Flags().StringVar(&f.osArch, "node-os-arch", "", "Include nodes with this OS architecture")
	cmd.Flags().StringVar(&f.osVersion, "node-os-version", "", "Include nodes with this OS version")
	cmd.Flags().StringVar(&f.excludeHostname, "exclude-node-hostname", "", "Exclude nodes matching this hostname")
	cmd.Flags().StringVar(&f.excludeTags, "exclude-node-tags", "", "Exclude nodes with these tags")
	cmd.Flags().StringVar(&f.excludeName, "exclude-node-name", "", "Exclude nodes matching this name")
	cmd.Flags().BoolVar(&f.excludePrecedence, "exclude-precedence", false, "Give exclusion filters precedence over inclusion filters")
}

func (f *nodeFilterFlags) build() api.NodeFilters {
	var filters api.NodeFilters
	filters.Hostname(f.hostname).
		Type(f.nodeType).
		Tags(f.tags).
		Name(f.name).
		OsName(f.osName).
		OsFamily(f.osFamily).
		OsArch(f.osArch).
		OsVersion(f.osVersion).
		ExcludeHostname(f.excludeHostname).
		ExcludeTags(f.excludeTags).
		ExcludeName(f.excludeName)
	if f.excludePrecedence {
		filters.ExcludePrecedence(true)
	}
	return filters
}
