package cmd

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rundeck/rundeck-cli/internal/config"
	"github.com/rundeck/rundeck-cli/internal/validation"
)

// newAuthCmd returns the auth command with subcommands.
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication credentials",
		Long:  "Configure and manage Rundeck credentials stored securely in your OS keyring.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		url      string
		token    string
		login    string
		password string
		profile  string
		envFile  string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save credentials to the OS keyring",
		Long: strings.TrimSpace(`
Save Rundeck connection credentials to your OS keyring.

Authenticate either with an API token (generated under the user profile
page of the Rundeck web UI) or with a login and password. Exactly one of
the two modes must be provided.

Credentials are verified against the server before being saved; pass
--no-verify to skip the round-trip.
`),
		Example: strings.TrimSpace(`
  # Token authentication
  rundeck auth login --url https://rundeck.example.com --token YOUR_TOKEN

  # Session authentication
  rundeck auth login --url https://rundeck.example.com --login admin --password secret

  # Save under a named profile
  rundeck auth login --url https://staging.example.com --token TOKEN --profile staging

  # Load credentials from a .env file
  rundeck auth login --env-file .env
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				envVars, err := godotenv.Read(envFile)
				if err != nil {
					return fmt.Errorf("failed to read %q: %w", envFile, err)
				}
				if url == "" {
					url = strings.TrimSpace(envVars["RUNDECK_URL"])
				}
				if token == "" {
					token = strings.TrimSpace(envVars["RUNDECK_TOKEN"])
				}
				if login == "" {
					login = strings.TrimSpace(envVars["RUNDECK_LOGIN"])
				}
				if password == "" {
					password = envVars["RUNDECK_PASSWORD"]
				}
				if !cmd.Flags().Changed("profile") {
					if envProfile := strings.TrimSpace(envVars["RUNDECK_PROFILE"]); envProfile != "" {
						profile = envProfile
					}
				}
			}

			account := config.Account{
				BaseURL:  strings.TrimSuffix(strings.TrimSpace(url), "/"),
				Token:    strings.TrimSpace(token),
				Login:    strings.TrimSpace(login),
				Password: password,
			}
			if err := account.Validate(); err != nil {
				return err
			}
			if err := validation.ValidateServerURL(account.BaseURL); err != nil {
				return err
			}

			if !noVerify {
				client, err := clientForAccount(account)
				if err != nil {
					return err
				}
				if err := client.TestAuth(cmd.Context()); err != nil {
					return err
				}
			}

			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			mode := "token"
			if !account.TokenMode() {
				mode = "login/password"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q for %s (%s authentication)\n", displayProfile(profile), account.BaseURL, mode)
			return nil
		}),
	}

	cmd.Flags().StringVar(&url, "url", "", "Rundeck base URL (e.g. https://rundeck.example.com)")
	cmd.Flags().StringVar(&token, "token", "", "API auth-token")
	cmd.Flags().StringVar(&login, "login", "", "Login for session authentication")
	cmd.Flags().StringVar(&password, "password", "", "Password for session authentication")
	cmd.Flags().StringVar(&profile, "profile", "", "Profile name to save the credentials under")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Read RUNDECK_* values from a .env file")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip verifying the credentials against the server")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the configured server and authentication mode",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			account, err := config.LoadAccount()
			if err != nil {
				return err
			}

			mode := "token"
			identity := maskToken(account.Token)
			if !account.TokenMode() {
				mode = "login/password"
				identity = account.Login
			}

			if isJSON() {
				status := map[string]any{
					"url":  account.BaseURL,
					"mode": mode,
				}
				if account.TokenMode() {
					status["token"] = maskToken(account.Token)
				} else {
					status["login"] = account.Login
				}
				if current, err := config.CurrentProfile(); err == nil {
					status["profile"] = current
				}
				return printJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "URL:      %s\n", account.BaseURL)
			_, _ = fmt.Fprintf(out, "Auth:     %s (%s)\n", mode, identity)
			if current, err := config.CurrentProfile(); err == nil {
				_, _ = fmt.Fprintf(out, "Profile:  %s\n", current)
			}

			if check {
				client, err := clientForAccount(account)
				if err != nil {
					return err
				}
				if err := client.TestAuth(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, "Status:   authenticated")
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&check, "check", false, "Verify the credentials against the server")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}
			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %q\n", displayProfile(profile))
			return nil
		}),
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile to remove (default: the current one)")

	return cmd
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored credential profiles",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, _ := config.CurrentProfile()

			if isJSON() {
				return printJSON(cmd, map[string]any{
					"profiles": profiles,
					"current":  current,
				})
			}

			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No profiles stored - run 'rundeck auth login'")
				return nil
			}
			out := cmd.OutOrStdout()
			for _, name := range profiles {
				marker := " "
				if name == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", marker, name)
			}
			return nil
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current credential profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := config.SetCurrentProfile(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile %q\n", args[0])
			return nil
		}),
	}
}

func displayProfile(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
