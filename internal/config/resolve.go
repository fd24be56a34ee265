package config

import (
	"fmt"
	"os"
	"strings"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL  string
	Token    string
	Login    string
	Password string
}

// Overrides carries command-line values that take precedence over the
// environment and the stored profile.
type Overrides struct {
	BaseURL  string
	Token    string
	Login    string
	Password string
	// Profile selects a named stored profile instead of the current one.
	Profile string
}

// ResolveClientConfig resolves connection settings in precedence order:
// command-line overrides, then environment variables, then the stored
// profile. Supplying a token override clears any stored login credentials
// (and the reverse), so the result always carries a single auth mode.
func ResolveClientConfig(overrides Overrides) (ClientConfig, error) {
	var cfg ClientConfig

	load := LoadAccount
	if overrides.Profile != "" {
		load = func() (Account, error) { return LoadProfile(overrides.Profile) }
	}
	if account, err := load(); err == nil {
		cfg.BaseURL = account.BaseURL
		cfg.Token = account.Token
		cfg.Login = account.Login
		cfg.Password = account.Password
	}

	if envBase := strings.TrimSpace(os.Getenv(envURL)); envBase != "" {
		cfg.BaseURL = strings.TrimSuffix(envBase, "/")
	}

	if overrides.BaseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(overrides.BaseURL, "/")
	}
	if overrides.Token != "" {
		cfg.Token = overrides.Token
		cfg.Login = ""
		cfg.Password = ""
	}
	if overrides.Login != "" || overrides.Password != "" {
		cfg.Login = overrides.Login
		cfg.Password = overrides.Password
		cfg.Token = ""
	}

	if cfg.BaseURL == "" {
		return ClientConfig{}, fmt.Errorf("rundeck URL not configured (set %s, run 'rundeck auth login', or pass --url)", envURL)
	}
	account := Account{BaseURL: cfg.BaseURL, Token: cfg.Token, Login: cfg.Login, Password: cfg.Password}
	if err := account.Validate(); err != nil {
		return ClientConfig{}, err
	}

	return cfg, nil
}
