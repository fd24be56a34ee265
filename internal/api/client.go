package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/rundeck/rundeck-cli/internal/debug"
)

const (
	apiVersion  = 2
	apiEndpoint = "/api/2"

	tokenHeader = "X-RunDeck-Auth-Token"

	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 5 * time.Second
)

// Client talks to a Rundeck instance. It holds only immutable configuration:
// every call acquires its own transport session (connection pool plus cookie
// jar) and releases it before returning, so a Client is safe to share across
// goroutines without external synchronization.
//
// Exactly one authentication mode must be populated: Login+Password for the
// session-based login handshake, or Token attached as a header on every
// request. Use NewLoginClient / NewTokenClient, which enforce this.
type Client struct {
	BaseURL  string
	Login    string
	Password string
	Token    string

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
	// PollInterval is the sleep between status re-fetches when running an
	// execution to completion. Zero or negative means DefaultPollInterval.
	PollInterval time.Duration
	// InsecureSkipVerify disables TLS certificate validation. Only for
	// instances with self-signed certificates; off by default.
	InsecureSkipVerify bool
	UserAgent          string
}

// NewLoginClient creates a client using login-based authentication.
func NewLoginClient(baseURL, login, password string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("the Rundeck URL is mandatory")
	}
	if strings.TrimSpace(login) == "" {
		return nil, fmt.Errorf("the Rundeck login is mandatory")
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("the Rundeck password is mandatory")
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Login:    login,
		Password: password,
	}, nil
}

// NewTokenClient creates a client using token-based authentication.
func NewTokenClient(baseURL, token string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("the Rundeck URL is mandatory")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("the Rundeck auth-token is mandatory")
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
	}, nil
}

func (c *Client) loginMode() bool { return c.Token == "" }

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// session is the per-call transport handle: a connection pool and a cookie
// jar scoped to exactly one logical call. Redirects are never followed
// automatically; the login handshake and the executor handle them manually.
type session struct {
	http      *http.Client
	transport *http.Transport
}

func (c *Client) newSession() (*session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, &APIError{Message: "failed to create cookie jar", Cause: err}
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: c.InsecureSkipVerify,
		},
	}
	return &session{
		transport: transport,
		http: &http.Client{
			Jar:       jar,
			Timeout:   c.timeout(),
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// close releases the session's network resources. Best-effort: it never
// masks the primary error.
func (s *session) close() {
	s.transport.CloseIdleConnections()
}

func (c *Client) setCommonHeaders(req *http.Request) {
	if c.Token != "" {
		req.Header.Set(tokenHeader, c.Token)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
}

// execute runs one API call end to end: acquire a session, authenticate
// (login mode only), issue the request, follow a single redirect for
// server-side error pages, validate the status class, and buffer the body so
// the session can be torn down before parsing.
func (c *Client) execute(ctx context.Context, method string, path *PathBuilder) ([]byte, error) {
	sess, err := c.newSession()
	if err != nil {
		return nil, err
	}
	defer sess.close()

	if c.loginMode() {
		if err := c.login(ctx, sess); err != nil {
			return nil, err
		}
	}

	reqURL := c.BaseURL + apiEndpoint + path.String()
	req, err := c.newRequest(ctx, method, reqURL, path.Attachments())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := sess.http.Do(req)
	if err != nil {
		return nil, &APIError{
			Message: fmt.Sprintf("Failed to execute an HTTP %s on url : %s", method, reqURL),
			Cause:   err,
		}
	}

	// Server-side errors arrive as a redirect to an error page, which must
	// be followed manually (as a GET) for POST and DELETE as well.
	if resp.StatusCode/100 == 3 {
		location := resp.Header.Get("Location")
		drainBody(resp)
		if location == "" {
			return nil, &APIError{Message: fmt.Sprintf("Redirect without Location from %s", reqURL)}
		}
		reqURL = resolveLocation(reqURL, location)
		redirectReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, &APIError{Message: "failed to create request", Cause: err}
		}
		c.setCommonHeaders(redirectReq)
		resp, err = sess.http.Do(redirectReq)
		if err != nil {
			return nil, &APIError{
				Message: fmt.Sprintf("Failed to execute an HTTP GET on url : %s", reqURL),
				Cause:   err,
			}
		}
	}

	if resp.StatusCode/100 != 2 {
		drainBody(resp)
		if !c.loginMode() && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, &TokenError{
				Message: fmt.Sprintf("Invalid token ! Got HTTP response '%s' for %s", resp.Status, reqURL),
			}
		}
		return nil, &APIError{
			Message: fmt.Sprintf("Invalid HTTP response '%s' for %s", resp.Status, reqURL),
		}
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, &APIError{Message: "failed to read response body", Cause: err}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("api call complete",
			"method", method, "url", reqURL,
			"status", resp.StatusCode, "duration", time.Since(start))
	}
	if len(body) == 0 {
		return nil, &APIError{
			Message: fmt.Sprintf("Empty response ! HTTP status line is : %s", resp.Status),
		}
	}
	return body, nil
}

// newRequest builds the outgoing request, encoding attachments as a
// multipart body for POST.
func (c *Client) newRequest(ctx context.Context, method, reqURL string, attachments map[string]io.Reader) (*http.Request, error) {
	var body io.Reader
	contentType := ""
	if method == http.MethodPost {
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)
		for name, r := range attachments {
			part, err := writer.CreateFormFile(name, name)
			if err != nil {
				return nil, &APIError{Message: fmt.Sprintf("failed to create multipart part %s", name), Cause: err}
			}
			if _, err := io.Copy(part, r); err != nil {
				return nil, &APIError{Message: fmt.Sprintf("failed to write multipart part %s", name), Cause: err}
			}
		}
		if err := writer.Close(); err != nil {
			return nil, &APIError{Message: "failed to finalize multipart body", Cause: err}
		}
		body = buf
		contentType = writer.FormDataContentType()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, &APIError{Message: "failed to create request", Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.setCommonHeaders(req)
	return req, nil
}

// apiGet executes a GET and parses the response document.
func apiGet[T any](ctx context.Context, c *Client, path *PathBuilder, parse func(*etree.Document) (T, error)) (T, error) {
	return apiCall(ctx, c, http.MethodGet, path, parse)
}

// apiPost executes a POST (multipart when the path carries attachments) and
// parses the response document.
func apiPost[T any](ctx context.Context, c *Client, path *PathBuilder, parse func(*etree.Document) (T, error)) (T, error) {
	return apiCall(ctx, c, http.MethodPost, path, parse)
}

// apiDelete executes a DELETE and parses the response document.
func apiDelete[T any](ctx context.Context, c *Client, path *PathBuilder, parse func(*etree.Document) (T, error)) (T, error) {
	return apiCall(ctx, c, http.MethodDelete, path, parse)
}

func apiCall[T any](ctx context.Context, c *Client, method string, path *PathBuilder, parse func(*etree.Document) (T, error)) (T, error) {
	var zero T
	body, err := c.execute(ctx, method, path)
	if err != nil {
		return zero, err
	}
	doc, err := parseDocument(body)
	if err != nil {
		return zero, err
	}
	return parse(doc)
}

// getRaw executes a GET and returns the buffered body without mapping it to
// a typed result, for definition downloads. When validate is set the body is
// still run through the document parser first so embedded errors surface.
func (c *Client) getRaw(ctx context.Context, path *PathBuilder, validate bool) ([]byte, error) {
	body, err := c.execute(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	if validate {
		if _, err := parseDocument(body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// Ping checks that the Rundeck instance answers at its base URL.
func (c *Client) Ping(ctx context.Context) error {
	sess, err := c.newSession()
	if err != nil {
		return err
	}
	defer sess.close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return &APIError{Message: "failed to create request", Cause: err}
	}
	resp, err := sess.http.Do(req)
	if err != nil {
		return &APIError{Message: "Failed to ping Rundeck instance at " + c.BaseURL, Cause: err}
	}
	drainBody(resp)
	// A redirect at the base URL (to the login page) still proves liveness.
	if resp.StatusCode/100 != 2 && resp.StatusCode/100 != 3 {
		return &APIError{
			Message: fmt.Sprintf("Invalid HTTP response '%s' when pinging %s", resp.Status, c.BaseURL),
		}
	}
	return nil
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}

func resolveLocation(current, location string) string {
	base, err := url.Parse(current)
	if err != nil {
		return location
	}
	ref, err := url.Parse(location)
	if err != nil {
		return location
	}
	return base.ResolveReference(ref).String()
}
