package config

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

// withMockKeyring backs the package with an in-memory keyring for one test
func withMockKeyring(t *testing.T) *keyring.ArrayKeyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
	return ring
}

func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	restore := SetOpenKeyring(func(cfg keyring.Config) (keyring.Keyring, error) {
		return nil, err
	})
	t.Cleanup(restore)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envURL, envToken, envLogin, envPassword, envProfile} {
		t.Setenv(key, "")
	}
}

func TestProfileKey(t *testing.T) {
	tests := []struct {
		profile  string
		expected string
	}{
		{"", accountKey},
		{"default", accountKey},
		{"work", profilePrefix + "work"},
		{"production", profilePrefix + "production"},
	}

	for _, tt := range tests {
		if got := profileKey(tt.profile); got != tt.expected {
			t.Errorf("profileKey(%q) = %q, want %q", tt.profile, got, tt.expected)
		}
	}
}

func TestNormalizeProfiles(t *testing.T) {
	got := normalizeProfiles([]string{" default ", "work", "", "default", "  ", "production"})
	want := []string{"default", "work", "production"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestAccountValidate(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		ok      bool
	}{
		{
			name:    "token mode",
			account: Account{BaseURL: "http://rundeck.local:4440", Token: "abcdef"},
			ok:      true,
		},
		{
			name:    "login mode",
			account: Account{BaseURL: "http://rundeck.local:4440", Login: "admin", Password: "secret"},
			ok:      true,
		},
		{
			name:    "missing URL",
			account: Account{Token: "abcdef"},
			ok:      false,
		},
		{
			name:    "no credentials",
			account: Account{BaseURL: "http://rundeck.local:4440"},
			ok:      false,
		},
		{
			name:    "both modes",
			account: Account{BaseURL: "http://rundeck.local:4440", Token: "abcdef", Login: "admin", Password: "secret"},
			ok:      false,
		},
		{
			name:    "login without password",
			account: Account{BaseURL: "http://rundeck.local:4440", Login: "admin"},
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveLoadProfileRoundtrip(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	account := Account{BaseURL: "http://rundeck.local:4440", Token: "abcdef"}
	if err := SaveProfile("work", account); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	loaded, err := LoadProfile("work")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if loaded != account {
		t.Errorf("loaded %+v, want %+v", loaded, account)
	}

	// Saving also makes the profile current.
	current, err := CurrentProfile()
	if err != nil {
		t.Fatalf("CurrentProfile: %v", err)
	}
	if current != "work" {
		t.Errorf("current = %q, want work", current)
	}

	profiles, err := ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0] != "work" {
		t.Errorf("profiles = %v, want [work]", profiles)
	}
}

func TestSaveProfileRejectsInvalidAccount(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	if err := SaveProfile("bad", Account{BaseURL: "http://rundeck.local"}); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadProfileNotConfigured(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	_, err := LoadProfile("missing")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDeleteProfile(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	if err := SaveProfile("work", Account{BaseURL: "http://rundeck.local", Token: "t1"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := SaveProfile("staging", Account{BaseURL: "http://staging.local", Token: "t2"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	if err := DeleteProfile("staging"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := LoadProfile("staging"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured after delete, got %v", err)
	}

	// Deleting the current profile falls back to a remaining one.
	current, err := CurrentProfile()
	if err != nil {
		t.Fatalf("CurrentProfile: %v", err)
	}
	if current != "work" {
		t.Errorf("current = %q, want work", current)
	}
}

func TestLoadAccountFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(envURL, "http://rundeck.local:4440/")
	t.Setenv(envToken, "env-token")

	account, err := LoadAccount()
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}
	if account.BaseURL != "http://rundeck.local:4440" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", account.BaseURL)
	}
	if account.Token != "env-token" {
		t.Errorf("Token = %q", account.Token)
	}
}

func TestLoadAccountEnvironmentIncomplete(t *testing.T) {
	clearEnv(t)
	t.Setenv(envURL, "http://rundeck.local:4440")

	if _, err := LoadAccount(); err == nil {
		t.Error("expected error when URL is set without credentials")
	}
}

func TestLoadAccountProfileEnv(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	if err := SaveProfile("work", Account{BaseURL: "http://work.local", Token: "t1"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := SaveProfile("other", Account{BaseURL: "http://other.local", Token: "t2"}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	t.Setenv(envProfile, "work")
	account, err := LoadAccount()
	if err != nil {
		t.Fatalf("LoadAccount: %v", err)
	}
	if account.BaseURL != "http://work.local" {
		t.Errorf("BaseURL = %q, want the profile named by RUNDECK_PROFILE", account.BaseURL)
	}
}

func TestHasAccount(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	if HasAccount() {
		t.Error("expected no account before saving")
	}
	if err := SaveAccount(Account{BaseURL: "http://rundeck.local", Token: "t"}); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}
	if !HasAccount() {
		t.Error("expected account after saving")
	}
}

func TestKeyringOpenFailure(t *testing.T) {
	clearEnv(t)
	withFailingKeyring(t, errors.New("no backend"))

	if _, err := LoadProfile("default"); err == nil {
		t.Error("expected error when keyring cannot open")
	}
	if err := SaveAccount(Account{BaseURL: "http://rundeck.local", Token: "t"}); err == nil {
		t.Error("expected error when keyring cannot open")
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		backend  string
		dbusAddr string
		want     bool
	}{
		{"explicit file backend", "darwin", keyringBackendFile, "", true},
		{"headless linux", "linux", keyringBackendAuto, "", true},
		{"linux with dbus", "linux", keyringBackendAuto, "unix:path=/run/user/1000/bus", false},
		{"darwin auto", "darwin", keyringBackendAuto, "", false},
		{"system backend", "linux", keyringBackendSystem, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldForceFileBackend(tt.goos, tt.backend, tt.dbusAddr); got != tt.want {
				t.Errorf("shouldForceFileBackend(%q, %q, %q) = %v, want %v", tt.goos, tt.backend, tt.dbusAddr, got, tt.want)
			}
		})
	}
}

func TestResolveClientConfigPrecedence(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	if err := SaveAccount(Account{BaseURL: "http://stored.local", Token: "stored-token"}); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}

	// Stored profile alone.
	cfg, err := ResolveClientConfig(Overrides{})
	if err != nil {
		t.Fatalf("ResolveClientConfig: %v", err)
	}
	if cfg.BaseURL != "http://stored.local" || cfg.Token != "stored-token" {
		t.Errorf("unexpected config %+v", cfg)
	}

	// Flag overrides win and clear the other auth mode.
	cfg, err = ResolveClientConfig(Overrides{
		BaseURL:  "http://flag.local/",
		Login:    "admin",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("ResolveClientConfig: %v", err)
	}
	if cfg.BaseURL != "http://flag.local" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Token != "" || cfg.Login != "admin" {
		t.Errorf("login override should clear the token, got %+v", cfg)
	}
}

func TestResolveClientConfigUnconfigured(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t)

	if _, err := ResolveClientConfig(Overrides{}); err == nil {
		t.Error("expected error with nothing configured")
	}
}
