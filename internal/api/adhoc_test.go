package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestAdhocTriggerCommand(t *testing.T) {
	var fetched atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2/run/command", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("project") != "test" {
			t.Errorf("project = %q", query.Get("project"))
		}
		if query.Get("exec") != "uptime" {
			t.Errorf("exec = %q", query.Get("exec"))
		}
		if query.Get("nodeThreadcount") != "2" {
			t.Errorf("nodeThreadcount = %q", query.Get("nodeThreadcount"))
		}
		if query.Get("nodeKeepgoing") != "true" {
			t.Errorf("nodeKeepgoing = %q", query.Get("nodeKeepgoing"))
		}
		// The trigger response only carries the ID.
		_, _ = w.Write([]byte(`<result success="true"><execution id="21"/></result>`))
	})
	mux.HandleFunc("/api/2/execution/21", func(w http.ResponseWriter, r *http.Request) {
		fetched.Store(true)
		_, _ = w.Write([]byte(executionXML(21, ExecutionRunning)))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	threads := 2
	keepgoing := true
	execution, err := newTestTokenClient(server.URL).Adhoc().TriggerCommand(context.Background(), "test", "uptime", AdhocOptions{
		NodeThreadcount: &threads,
		NodeKeepgoing:   &keepgoing,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fetched.Load() {
		t.Error("expected a second call for the full execution record")
	}
	if execution.ID != 21 || execution.Status != ExecutionRunning {
		t.Errorf("unexpected execution %+v", execution)
	}
	if execution.StartedBy != "admin" {
		t.Errorf("startedBy = %q, the full record should be returned", execution.StartedBy)
	}
}

func TestAdhocTriggerCommandValidation(t *testing.T) {
	adhoc := newTestTokenClient("http://example.invalid").Adhoc()
	if _, err := adhoc.TriggerCommand(context.Background(), "", "uptime", AdhocOptions{}); err == nil {
		t.Error("expected error for blank project")
	}
	if _, err := adhoc.TriggerCommand(context.Background(), "test", "", AdhocOptions{}); err == nil {
		t.Error("expected error for blank command")
	}
}

func TestAdhocTriggerScript(t *testing.T) {
	const script = "#!/bin/sh\nuptime\n"
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2/run/script", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		query := r.URL.Query()
		if query.Get("project") != "test" {
			t.Errorf("project = %q", query.Get("project"))
		}
		if query.Get("argString") != "-dir /tmp" {
			t.Errorf("argString = %q", query.Get("argString"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, _, err := r.FormFile("scriptFile")
		if err != nil {
			t.Fatalf("scriptFile part missing: %v", err)
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil || string(content) != script {
			t.Errorf("script content = %q (%v)", content, err)
		}
		_, _ = w.Write([]byte(`<result success="true"><execution id="22"/></result>`))
	})
	mux.HandleFunc("/api/2/execution/22", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(executionXML(22, ExecutionRunning)))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	execution, err := newTestTokenClient(server.URL).Adhoc().TriggerScript(
		context.Background(), "test", strings.NewReader(script),
		map[string]string{"dir": "/tmp"}, AdhocOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if execution.ID != 22 {
		t.Errorf("ID = %d, want 22", execution.ID)
	}
}

func TestAdhocTriggerScriptValidation(t *testing.T) {
	adhoc := newTestTokenClient("http://example.invalid").Adhoc()
	if _, err := adhoc.TriggerScript(context.Background(), "", strings.NewReader("x"), nil, AdhocOptions{}); err == nil {
		t.Error("expected error for blank project")
	}
	if _, err := adhoc.TriggerScript(context.Background(), "test", nil, nil, AdhocOptions{}); err == nil {
		t.Error("expected error for nil script")
	}
}

func TestAdhocRunCommand(t *testing.T) {
	var statusFetches atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2/run/command", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<result success="true"><execution id="23"/></result>`))
	})
	mux.HandleFunc("/api/2/execution/23", func(w http.ResponseWriter, r *http.Request) {
		// First fetch completes the trigger; later fetches are the poll.
		status := ExecutionRunning
		if statusFetches.Add(1) >= 3 {
			status = ExecutionSucceeded
		}
		_, _ = w.Write([]byte(executionXML(23, status)))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	execution, err := newTestTokenClient(server.URL).Adhoc().RunCommand(context.Background(), "test", "uptime", AdhocOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if execution.Status != ExecutionSucceeded {
		t.Errorf("status = %q, want succeeded", execution.Status)
	}
}
