package api

import (
	"errors"
	"fmt"
)

// APIError represents a failed API call: a transport failure, an unexpected
// HTTP status, or an application-level error embedded in an otherwise
// successful (HTTP 200) response. Message carries the server-provided text
// when one is available, otherwise the offending URL and status line.
type APIError struct {
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Cause }

// LoginError indicates a failed login handshake (login-based authentication).
type LoginError struct {
	Message string
	Cause   error
}

func (e *LoginError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *LoginError) Unwrap() error { return e.Cause }

// TokenError indicates a rejected auth-token (token-based authentication).
type TokenError struct {
	Message string
}

func (e *TokenError) Error() string { return e.Message }

// DecodeError indicates a malformed response body.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// IsAuthError reports whether err is an authentication failure of either
// kind, so callers can react (re-prompt for credentials, regenerate a token)
// without switching on concrete types.
func IsAuthError(err error) bool {
	var loginErr *LoginError
	var tokenErr *TokenError
	return errors.As(err, &loginErr) || errors.As(err, &tokenErr)
}
