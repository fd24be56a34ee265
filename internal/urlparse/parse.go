// Package urlparse extracts resource references from Rundeck web GUI URLs,
// so commands can accept a pasted browser link instead of a bare ID.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
)

// ParsedURL represents a parsed Rundeck GUI URL with the extracted
// resource reference.
type ParsedURL struct {
	BaseURL      string
	Project      string // empty for URLs without a project segment
	ResourceType string // "job" or "execution"
	ResourceID   string
}

// urlPattern matches the trailing part of Rundeck GUI paths such as
// /project/{project}/job/show/{id} and /execution/follow/{id}. A leading
// context path (e.g. /rundeck) is allowed and ignored.
var urlPattern = regexp.MustCompile(`(?:/project/([^/]+))?/(job|execution)/(?:show|follow)/([A-Za-z0-9-]+)/?$`)

// IsURL reports whether s looks like an absolute http(s) URL.
func IsURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// Parse extracts the resource reference from a Rundeck GUI URL.
// It accepts links like https://rundeck.example.com/project/ops/job/show/{uuid}
// and https://rundeck.example.com/execution/follow/42.
func Parse(rawURL string) (*ParsedURL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL: missing host")
	}

	matches := urlPattern.FindStringSubmatch(parsed.Path)
	if matches == nil {
		return nil, fmt.Errorf("unrecognized Rundeck URL: expected .../job/show/{id} or .../execution/show/{id}")
	}

	return &ParsedURL{
		BaseURL:      fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		Project:      matches[1],
		ResourceType: matches[2],
		ResourceID:   matches[3],
	}, nil
}
