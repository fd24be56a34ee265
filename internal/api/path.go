package api

import (
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PathBuilder accumulates an API path and its query parameters with correct
// separators, and optionally named attachments for multipart POSTs.
// It performs no I/O; values are percent-encoded individually, keys are not.
type PathBuilder struct {
	path        strings.Builder
	attachments map[string]io.Reader
	firstParam  bool
}

// NewPath starts a builder from the given path segments. Blank segments are
// skipped.
func NewPath(segments ...string) *PathBuilder {
	p := &PathBuilder{}
	for _, segment := range segments {
		if strings.TrimSpace(segment) != "" {
			p.path.WriteString(segment)
		}
	}
	return p
}

// Param appends key=value. Blank values are silently skipped: no key is
// emitted at all. The first accepted parameter is prefixed with "?",
// subsequent ones with "&".
func (p *PathBuilder) Param(key, value string) *PathBuilder {
	if strings.TrimSpace(value) == "" {
		return p
	}
	p.separator()
	p.path.WriteString(key)
	p.path.WriteString("=")
	p.path.WriteString(url.QueryEscape(value))
	return p
}

// EnumParam appends the value lower-cased. Blank values are skipped.
func (p *PathBuilder) EnumParam(key, value string) *PathBuilder {
	return p.Param(key, strings.ToLower(value))
}

// IntParam appends the value. Nil is skipped.
func (p *PathBuilder) IntParam(key string, value *int) *PathBuilder {
	if value == nil {
		return p
	}
	return p.Param(key, strconv.Itoa(*value))
}

// LongParam appends the value. Nil is skipped.
func (p *PathBuilder) LongParam(key string, value *int64) *PathBuilder {
	if value == nil {
		return p
	}
	return p.Param(key, strconv.FormatInt(*value, 10))
}

// BoolParam appends "true" or "false". Nil is skipped.
func (p *PathBuilder) BoolParam(key string, value *bool) *PathBuilder {
	if value == nil {
		return p
	}
	return p.Param(key, strconv.FormatBool(*value))
}

// DateParam appends the time as epoch milliseconds. Nil is skipped.
func (p *PathBuilder) DateParam(key string, value *time.Time) *PathBuilder {
	if value == nil {
		return p
	}
	return p.Param(key, strconv.FormatInt(value.UnixMilli(), 10))
}

// NodeFilters appends the rendered node-filter string, which is already
// encoded as key=value pairs joined by "&". Empty filters are skipped.
func (p *PathBuilder) NodeFilters(filters NodeFilters) *PathBuilder {
	rendered := filters.String()
	if rendered == "" {
		return p
	}
	p.separator()
	p.path.WriteString(rendered)
	return p
}

// Attach registers a named attachment to be sent as a multipart part on
// POST. Nil readers are skipped.
func (p *PathBuilder) Attach(name string, r io.Reader) *PathBuilder {
	if r == nil {
		return p
	}
	if p.attachments == nil {
		p.attachments = map[string]io.Reader{}
	}
	p.attachments[name] = r
	return p
}

// Attachments exposes the accumulated attachments for the executor.
func (p *PathBuilder) Attachments() map[string]io.Reader { return p.attachments }

func (p *PathBuilder) String() string { return p.path.String() }

func (p *PathBuilder) separator() {
	if p.firstParam {
		p.path.WriteString("&")
	} else {
		p.path.WriteString("?")
		p.firstParam = true
	}
}
