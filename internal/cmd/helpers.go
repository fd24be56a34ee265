package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/api"
	"github.com/rundeck/rundeck-cli/internal/cache"
	"github.com/rundeck/rundeck-cli/internal/config"
	"github.com/rundeck/rundeck-cli/internal/filter"
	"github.com/rundeck/rundeck-cli/internal/resolve"
	"github.com/rundeck/rundeck-cli/internal/urlparse"
	"github.com/rundeck/rundeck-cli/internal/validation"
)

// version is set at build time via ldflags.
var version = "dev"

// getClient builds an API client from flags, environment and the stored
// profile, in that precedence order.
func getClient() (*api.Client, error) {
	cfg, err := config.ResolveClientConfig(config.Overrides{
		BaseURL:  flags.URL,
		Token:    flags.Token,
		Login:    flags.Login,
		Password: flags.Password,
		Profile:  flags.Profile,
	})
	if err != nil {
		return nil, err
	}

	var client *api.Client
	if cfg.Token != "" {
		client, err = api.NewTokenClient(cfg.BaseURL, cfg.Token)
	} else {
		client, err = api.NewLoginClient(cfg.BaseURL, cfg.Login, cfg.Password)
	}
	if err != nil {
		return nil, err
	}
	configureClient(client)
	return client, nil
}

// clientForAccount builds a client for explicit credentials, bypassing flag
// and environment resolution. Used by auth login to verify before saving.
func clientForAccount(account config.Account) (*api.Client, error) {
	var client *api.Client
	var err error
	if account.TokenMode() {
		client, err = api.NewTokenClient(account.BaseURL, account.Token)
	} else {
		client, err = api.NewLoginClient(account.BaseURL, account.Login, account.Password)
	}
	if err != nil {
		return nil, err
	}
	configureClient(client)
	return client, nil
}

func configureClient(client *api.Client) {
	client.Timeout = flags.Timeout
	client.PollInterval = flags.PollInterval
	client.InsecureSkipVerify = flags.Insecure
	client.UserAgent = fmt.Sprintf("rundeck-cli/%s", version)
}

func isJSON() bool {
	return flags.Output == "json"
}

// printJSON writes v as indented JSON to the command's stdout, applying the
// --jq filter when one was given.
func printJSON(cmd *cobra.Command, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if flags.JQ != "" {
		raw, err = filter.ApplyToJSON(raw, flags.JQ)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(raw), "\n"))
		return err
	}
	var indented any
	if err := json.Unmarshal(raw, &indented); err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(indented)
}

func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}

// jobLabel renders "group/name (id)" for execution listings.
func jobLabel(e api.Execution) string {
	if e.Job == nil {
		return "(adhoc)"
	}
	return fmt.Sprintf("%s (%s)", e.Job.FullName(), e.Job.ID)
}

// resolveJob turns a job reference into an ID. A reference that already
// looks like a job UUID is passed through; anything else is fuzzy-matched
// against the project's job listing, served from the file cache when fresh.
func resolveJob(ctx context.Context, client *api.Client, project, ref string) (string, error) {
	if urlparse.IsURL(ref) {
		parsed, err := urlparse.Parse(ref)
		if err != nil {
			return "", err
		}
		if parsed.ResourceType != "job" {
			return "", fmt.Errorf("%q is a %s URL, not a job URL", ref, parsed.ResourceType)
		}
		return parsed.ResourceID, nil
	}
	if looksLikeJobID(ref) {
		return ref, nil
	}
	if project == "" {
		return "", fmt.Errorf("--project is required to resolve job %q by name", ref)
	}
	if err := validation.ValidateProjectName(project); err != nil {
		return "", err
	}

	var jobs []api.Job
	store := jobCacheStore(client, project)
	if !store.Get(&jobs) {
		var err error
		jobs, err = client.Jobs().List(ctx, project, api.JobListOptions{})
		if err != nil {
			return "", err
		}
		store.Put(jobs)
	}

	named := make([]resolve.Named, len(jobs))
	for i, job := range jobs {
		named[i] = resolve.Named{ID: job.ID, Name: job.FullName()}
	}
	return resolve.FuzzyMatch(ref, named)
}

func jobCacheStore(client *api.Client, project string) *cache.Store {
	dir, err := cache.DefaultDir()
	if err != nil {
		dir = ""
	}
	return cache.NewStore(dir, "jobs", client.BaseURL, project)
}

// looksLikeJobID reports whether s has the shape of a Rundeck job UUID
// (8-4-4-4-12 hex groups).
func looksLikeJobID(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return false
	}
	lens := []int{8, 4, 4, 4, 12}
	for i, part := range parts {
		if len(part) != lens[i] {
			return false
		}
		for _, r := range part {
			switch {
			case r >= '0' && r <= '9':
			case r >= 'a' && r <= 'f':
			case r >= 'A' && r <= 'F':
			default:
				return false
			}
		}
	}
	return true
}

// requireProject rejects a missing or malformed --project value before
// any request is made.
func requireProject(project string) error {
	if project == "" {
		return fmt.Errorf("--project is required")
	}
	return validation.ValidateProjectName(project)
}

// errAlreadyHandled signals that the error was already printed to stderr,
// so the root command must not print it again (SilenceErrors is set).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string { return e.err.Error() }

func (e *handledError) Unwrap() error { return errAlreadyHandled }

// RunE wraps a command function so failures are printed once, with
// suggestions, and mapped to an exit code the caller can inspect.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// HandleError renders an error with recovery suggestions.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var tokenErr *api.TokenError
	var loginErr *api.LoginError
	var ambiguousErr *resolve.AmbiguousError

	switch {
	case errors.As(err, &tokenErr):
		fmt.Fprintf(&msg, "Authentication failed: %s\n\n", tokenErr.Message)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - The auth-token was rejected by the server\n")
		msg.WriteString("  - Generate a new token under the user profile page\n")
		msg.WriteString("  - Run: rundeck auth login\n")

	case errors.As(err, &loginErr):
		fmt.Fprintf(&msg, "Authentication failed: %s\n\n", loginErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check your login and password\n")
		msg.WriteString("  - Run: rundeck auth login\n")

	case errors.As(err, &ambiguousErr):
		fmt.Fprintf(&msg, "Error: %s\n", ambiguousErr.Error())

	case errors.Is(err, config.ErrNotConfigured):
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check if the Rundeck server is running\n")
		msg.WriteString("  - Verify the URL: rundeck auth status\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the Rundeck URL spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	case strings.Contains(err.Error(), "are not allowed"):
		fmt.Fprintf(&msg, "Error: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - If your Rundeck server runs on a private network, set RUNDECK_ALLOW_PRIVATE=1\n")

	case strings.Contains(err.Error(), "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's SSL certificate\n")
		msg.WriteString("  - For self-signed instances pass --insecure\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}
