package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/api"
	"github.com/rundeck/rundeck-cli/internal/debug"
	"github.com/rundeck/rundeck-cli/internal/dryrun"
)

// rootFlags holds the global flag values shared by all commands.
type rootFlags struct {
	Output       string
	JSON         bool
	JQ           string
	Debug        bool
	Timeout      time.Duration
	PollInterval time.Duration
	Insecure     bool
	DryRun       bool

	// Connection overrides. These beat the environment and the stored
	// profile for a single invocation.
	URL      string
	Token    string
	Login    string
	Password string
	Profile  string
}

func defaultRootFlags() rootFlags {
	output := strings.TrimSpace(os.Getenv("RUNDECK_OUTPUT"))
	if output == "" {
		output = "text"
	}
	return rootFlags{
		Output:       output,
		Timeout:      api.DefaultTimeout,
		PollInterval: api.DefaultPollInterval,
	}
}

// flags is package-level mutable state; Execute resets it on every call so
// tests can run commands back to back without leaking flag values.
var flags = defaultRootFlags()

// Execute runs the CLI with the given arguments.
func Execute(ctx context.Context, args []string) error {
	flags = defaultRootFlags()

	root := &cobra.Command{
		Use:   "rundeck",
		Short: "Command-line client for the Rundeck job scheduler",
		Long: strings.TrimSpace(`
rundeck talks to a Rundeck instance over its HTTP API: trigger jobs and
ad-hoc commands, follow executions, browse projects, nodes and history.

Credentials are stored in the OS keyring (see 'rundeck auth login') or
passed via RUNDECK_URL plus RUNDECK_TOKEN or RUNDECK_LOGIN/RUNDECK_PASSWORD.
`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.JSON {
				flags.Output = "json"
			}
			switch flags.Output {
			case "text", "json":
			default:
				return fmt.Errorf("invalid --output %q: must be text or json", flags.Output)
			}
			debugEnabled := flags.Debug || debug.FromEnv()
			debug.SetupLogger(debugEnabled)
			ctx := debug.WithDebug(cmd.Context(), debugEnabled)
			cmd.SetContext(dryrun.WithDryRun(ctx, flags.DryRun))
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json (env RUNDECK_OUTPUT)")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "JQ expression to filter JSON output")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging (env RUNDECK_DEBUG)")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g. 30s, 2m)")
	root.PersistentFlags().DurationVar(&flags.PollInterval, "poll-interval", flags.PollInterval, "Sleep between status checks while waiting for an execution")
	root.PersistentFlags().BoolVar(&flags.Insecure, "insecure", false, "Skip TLS certificate verification (self-signed instances)")
	root.PersistentFlags().BoolVar(&flags.DryRun, "dry-run", false, "Preview mutating commands without performing them")
	root.PersistentFlags().StringVar(&flags.URL, "url", "", "Rundeck base URL (overrides stored profile)")
	root.PersistentFlags().StringVar(&flags.Token, "token", "", "API auth-token (overrides stored profile)")
	root.PersistentFlags().StringVar(&flags.Login, "login", "", "Login for session authentication (overrides stored profile)")
	root.PersistentFlags().StringVar(&flags.Password, "password", "", "Password for session authentication (overrides stored profile)")
	root.PersistentFlags().StringVar(&flags.Profile, "profile", "", "Named credential profile to use (env RUNDECK_PROFILE)")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newProjectsCmd())
	root.AddCommand(newJobsCmd())
	root.AddCommand(newExecutionsCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newNodesCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newSystemCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	err := root.Execute()
	if err != nil && !errors.Is(err, errAlreadyHandled) {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), err)
	}
	return err
}
