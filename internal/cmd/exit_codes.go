package cmd

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"github.com/rundeck/rundeck-cli/internal/api"
)

const (
	exitOK      = 0
	exitGeneric = 1
	exitUsage   = 2
	exitAuth    = 3
	exitAPI     = 4
	exitNetwork = 5
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if handled, ok := err.(*handledError); ok {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if api.IsAuthError(err) {
		return exitAuth
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return exitAPI
	}
	if isUsageError(err) {
		return exitUsage
	}
	return exitGeneric
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "i/o timeout")
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts ",
		"invalid argument",
		"is required",
		"is mandatory",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
