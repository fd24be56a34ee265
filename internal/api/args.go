package api

import (
	"net/url"
	"sort"
	"strings"
)

// ArgString renders job options in Rundeck's flag-style encoding:
// "-key1 value1 -key2 'value 2 with spaces'". A value is single-quoted only
// when it contains whitespace and is not already fully quoted. Keys are
// emitted in sorted order so the output is deterministic. Blank keys and
// blank values are skipped.
func ArgString(options map[string]string) string {
	keys := make([]string, 0, len(options))
	for key := range options {
		if strings.TrimSpace(key) != "" && strings.TrimSpace(options[key]) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := options[key]
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("-")
		b.WriteString(key)
		b.WriteString(" ")
		if strings.Contains(value, " ") && !fullyQuoted(value) {
			b.WriteString("'")
			b.WriteString(value)
			b.WriteString("'")
		} else {
			b.WriteString(value)
		}
	}
	return b.String()
}

func fullyQuoted(value string) bool {
	return len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")
}

// nodeFilterKeys is the recognized filter keys in the order they are
// rendered into the query string.
var nodeFilterKeys = []string{
	"hostname",
	"type",
	"tags",
	"name",
	"os-name",
	"os-family",
	"os-arch",
	"os-version",
	"exclude-hostname",
	"exclude-type",
	"exclude-tags",
	"exclude-name",
	"exclude-os-name",
	"exclude-os-family",
	"exclude-os-arch",
	"exclude-os-version",
	"exclude-precedence",
}

// NodeFilters is a set of criteria used by the server to select target nodes
// for dispatch. Build it with the chainable setters and pass it to
// PathBuilder.NodeFilters.
type NodeFilters struct {
	filters map[string]string
}

func (f *NodeFilters) set(key, value string) *NodeFilters {
	if strings.TrimSpace(value) == "" {
		return f
	}
	if f.filters == nil {
		f.filters = map[string]string{}
	}
	f.filters[key] = value
	return f
}

func (f *NodeFilters) Hostname(v string) *NodeFilters  { return f.set("hostname", v) }
func (f *NodeFilters) Type(v string) *NodeFilters      { return f.set("type", v) }
func (f *NodeFilters) Tags(v string) *NodeFilters      { return f.set("tags", v) }
func (f *NodeFilters) Name(v string) *NodeFilters      { return f.set("name", v) }
func (f *NodeFilters) OsName(v string) *NodeFilters    { return f.set("os-name", v) }
func (f *NodeFilters) OsFamily(v string) *NodeFilters  { return f.set("os-family", v) }
func (f *NodeFilters) OsArch(v string) *NodeFilters    { return f.set("os-arch", v) }
func (f *NodeFilters) OsVersion(v string) *NodeFilters { return f.set("os-version", v) }

func (f *NodeFilters) ExcludeHostname(v string) *NodeFilters { return f.set("exclude-hostname", v) }
func (f *NodeFilters) ExcludeType(v string) *NodeFilters     { return f.set("exclude-type", v) }
func (f *NodeFilters) ExcludeTags(v string) *NodeFilters     { return f.set("exclude-tags", v) }
func (f *NodeFilters) ExcludeName(v string) *NodeFilters     { return f.set("exclude-name", v) }
func (f *NodeFilters) ExcludeOsName(v string) *NodeFilters   { return f.set("exclude-os-name", v) }
func (f *NodeFilters) ExcludeOsFamily(v string) *NodeFilters { return f.set("exclude-os-family", v) }
func (f *NodeFilters) ExcludeOsArch(v string) *NodeFilters   { return f.set("exclude-os-arch", v) }
func (f *NodeFilters) ExcludeOsVersion(v string) *NodeFilters {
	return f.set("exclude-os-version", v)
}

// ExcludePrecedence sets whether exclusion filters take precedence over
// inclusion filters.
func (f *NodeFilters) ExcludePrecedence(v bool) *NodeFilters {
	if v {
		return f.set("exclude-precedence", "true")
	}
	return f.set("exclude-precedence", "false")
}

// Raw sets a filter by its wire key, for keys not covered by a setter.
func (f *NodeFilters) Raw(key, value string) *NodeFilters { return f.set(key, value) }

// String renders the filters as "key=value&key2=value2" with both keys and
// values percent-encoded, in the recognized key order. Unrecognized keys set
// via Raw follow in sorted order. Empty filters render as "".
func (f NodeFilters) String() string {
	if len(f.filters) == 0 {
		return ""
	}
	seen := make(map[string]bool, len(f.filters))
	var pairs []string
	for _, key := range nodeFilterKeys {
		if value, ok := f.filters[key]; ok {
			pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
			seen[key] = true
		}
	}
	var extra []string
	for key := range f.filters {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(f.filters[key]))
	}
	return strings.Join(pairs, "&")
}
