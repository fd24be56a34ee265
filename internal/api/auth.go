package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	loginEndpoint = "/j_security_check"

	// loginFormMarker appears in the login page. A 2xx response to the
	// credential POST that still contains the form means the server bounced
	// the credentials back instead of opening a session.
	loginFormMarker = "j_security_check"

	// maxLoginRedirects caps the handshake's redirect chain. The server
	// normally terminates it after a hop or two; an endless chain is a
	// misconfiguration, not a login protocol.
	maxLoginRedirects = 10
)

// login performs the session-based login handshake against the given
// session's transport. The credential POST is re-issued at each redirect
// target (the transport never follows redirects for us) until a non-redirect
// response arrives. On success the session's cookie jar carries the
// authenticated session cookie; there is no other result.
func (c *Client) login(ctx context.Context, sess *session) error {
	location := c.BaseURL + loginEndpoint

	for hops := 0; ; hops++ {
		form := url.Values{
			"j_username": {c.Login},
			"j_password": {c.Password},
			"action":     {"login"},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, location, strings.NewReader(form.Encode()))
		if err != nil {
			return &LoginError{Message: "Failed to build login request for " + location, Cause: err}
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}

		resp, err := sess.http.Do(req)
		if err != nil {
			return &LoginError{Message: "Failed to post login form on " + location, Cause: err}
		}

		if resp.StatusCode/100 == 3 {
			next := resp.Header.Get("Location")
			drainBody(resp)
			if next == "" {
				return &LoginError{Message: "Login redirect without Location from " + location}
			}
			if hops >= maxLoginRedirects {
				return &LoginError{
					Message: fmt.Sprintf("Login aborted after %d redirects (last location %s)", maxLoginRedirects, location),
				}
			}
			location = resolveLocation(location, next)
			continue
		}

		if resp.StatusCode/100 != 2 {
			drainBody(resp)
			return &APIError{
				Message: fmt.Sprintf("Invalid HTTP response '%s' for %s", resp.Status, location),
			}
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return &LoginError{Message: "Failed to read login response", Cause: err}
		}
		if bytes.Contains(body, []byte(loginFormMarker)) {
			return &LoginError{Message: "Login failed for user " + c.Login}
		}
		return nil
	}
}

// TestAuth verifies the client's credentials. In login mode it runs the full
// handshake; in token mode it probes an authenticated endpoint so a rejected
// token surfaces as a TokenError.
func (c *Client) TestAuth(ctx context.Context) error {
	if c.loginMode() {
		sess, err := c.newSession()
		if err != nil {
			return err
		}
		defer sess.close()
		return c.login(ctx, sess)
	}
	_, err := c.System().Info(ctx)
	return err
}
