package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/spf13/pflag"

	"github.com/rundeck/rundeck-cli/internal/api"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help requested", pflag.ErrHelp, exitOK},
		{"generic", errors.New("boom"), exitGeneric},
		{"token rejected", &api.TokenError{Message: "invalid token"}, exitAuth},
		{"login failed", &api.LoginError{Message: "invalid credentials"}, exitAuth},
		{"api error", &api.APIError{Message: "server said no"}, exitAPI},
		{"wrapped api error", fmt.Errorf("jobs list: %w", &api.APIError{Message: "bad"}), exitAPI},
		{"context deadline", context.DeadlineExceeded, exitNetwork},
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}, exitNetwork},
		{"transport failure beats api wrapper", &api.APIError{
			Message: "GET http://x failed",
			Cause:   &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")},
		}, exitNetwork},
		{"unknown command", errors.New(`unknown command "frobnicate" for "rundeck"`), exitUsage},
		{"missing flag value", errors.New("flag needs an argument: --project"), exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCode_HandledErrorKeepsMapping(t *testing.T) {
	inner := &api.TokenError{Message: "invalid token"}
	handled := &handledError{err: inner, exitCode: ExitCode(inner)}

	if got := ExitCode(handled); got != exitAuth {
		t.Errorf("ExitCode(handled) = %d, want %d", got, exitAuth)
	}
}
