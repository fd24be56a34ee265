// Test utilities for the CLI commands.
//
// Commands are exercised end to end against a mock Rundeck server: a
// routeHandler maps "METHOD /api/2/..." to canned XML responses, and
// setupTestEnvWithHandler points RUNDECK_URL/RUNDECK_TOKEN at the test
// server so Execute picks the credentials up through the normal path.
//
//	handler := newRouteHandler().
//	    On("GET", "/api/2/projects", xmlResponse(200, projectsXML))
//	setupTestEnvWithHandler(t, handler)
//
//	output := captureStdout(t, func() {
//	    if err := Execute(context.Background(), []string{"projects", "list"}); err != nil {
//	        t.Fatalf("command failed: %v", err)
//	    }
//	})
package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr executes a function and captures its stderr output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupTestEnvWithHandler starts a mock server and points the environment at
// it: RUNDECK_URL, RUNDECK_TOKEN, text output, caching disabled. Everything
// is restored on cleanup.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("RUNDECK_URL", server.URL)
	t.Setenv("RUNDECK_TOKEN", "test-token")
	t.Setenv("RUNDECK_LOGIN", "")
	t.Setenv("RUNDECK_PASSWORD", "")
	t.Setenv("RUNDECK_OUTPUT", "text")
	t.Setenv("RUNDECK_NO_CACHE", "1")

	return server
}

// xmlResponse returns a handler serving a canned XML body.
func xmlResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler routes requests by exact "METHOD PATH" and 404s the rest.
type routeHandler struct {
	routes map[string]http.HandlerFunc
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	if handler, ok := rh.routes[key]; ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}
