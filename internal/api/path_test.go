package api

import (
	"strings"
	"testing"
	"time"
)

func TestNewPathSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{
			name:     "single segment",
			segments: []string{"/projects"},
			want:     "/projects",
		},
		{
			name:     "joined segments",
			segments: []string{"/job/", "job-1", "/executions"},
			want:     "/job/job-1/executions",
		},
		{
			name:     "blank segments skipped",
			segments: []string{"/job/", "  ", "/run"},
			want:     "/job//run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPath(tt.segments...).String()
			if got != tt.want {
				t.Errorf("NewPath(%v) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}

func TestPathBuilderParams(t *testing.T) {
	got := NewPath("/jobs").
		Param("project", "my-project").
		Param("jobFilter", "").
		Param("groupPath", "sys/tools").
		String()
	want := "/jobs?project=my-project&groupPath=sys%2Ftools"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPathBuilderSeparators(t *testing.T) {
	// The first accepted param gets "?" even when earlier params were
	// skipped as blank.
	got := NewPath("/history").
		Param("jobIdFilter", "").
		Param("project", "demo").
		Param("userFilter", "admin").
		String()
	want := "/history?project=demo&userFilter=admin"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPathBuilderEncodesValuesOnly(t *testing.T) {
	got := NewPath("/run/command").
		Param("exec", "echo hello && date").
		String()
	if !strings.HasPrefix(got, "/run/command?exec=") {
		t.Fatalf("unexpected path %q", got)
	}
	if strings.Contains(got, " ") || strings.Contains(got, "&&") {
		t.Errorf("value not encoded: %q", got)
	}
	want := "/run/command?exec=echo+hello+%26%26+date"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPathBuilderEnumParam(t *testing.T) {
	got := NewPath("/jobs/export").EnumParam("format", "XML").String()
	want := "/jobs/export?format=xml"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPathBuilderPointerParams(t *testing.T) {
	threads := 3
	keepgoing := true
	max := int64(50)
	got := NewPath("/run/command").
		IntParam("nodeThreadcount", &threads).
		BoolParam("nodeKeepgoing", &keepgoing).
		LongParam("max", &max).
		IntParam("skipped", nil).
		BoolParam("alsoSkipped", nil).
		LongParam("offset", nil).
		String()
	want := "/run/command?nodeThreadcount=3&nodeKeepgoing=true&max=50"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPathBuilderDateParam(t *testing.T) {
	begin := time.UnixMilli(1302184662000)
	got := NewPath("/history").DateParam("begin", &begin).DateParam("end", nil).String()
	want := "/history?begin=1302184662000"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPathBuilderNodeFilters(t *testing.T) {
	var filters NodeFilters
	filters.Tags("prod").OsFamily("unix")

	got := NewPath("/resources").Param("project", "demo").NodeFilters(filters).String()
	want := "/resources?project=demo&tags=prod&os-family=unix"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Empty filters leave the path untouched.
	got = NewPath("/resources").Param("project", "demo").NodeFilters(NodeFilters{}).String()
	want = "/resources?project=demo"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPathBuilderAttachments(t *testing.T) {
	p := NewPath("/run/script").
		Attach("scriptFile", strings.NewReader("#!/bin/sh\n")).
		Attach("ignored", nil)

	attachments := p.Attachments()
	if len(attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(attachments))
	}
	if _, ok := attachments["scriptFile"]; !ok {
		t.Error("scriptFile attachment missing")
	}
}
