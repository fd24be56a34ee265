// Package dryrun lets mutating commands preview what they would do
// instead of doing it.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode enabled or disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether dry-run mode is enabled on the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

// Preview describes the operation a command would have performed.
type Preview struct {
	Operation string
	Resource  string
	Details   map[string]string
}

// Write renders the preview. Detail keys are sorted so output is stable.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[dry-run] Would %s %s\n", p.Operation, p.Resource)

	keys := make([]string, 0, len(p.Details))
	for k := range p.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", k, p.Details[k])
	}

	_, _ = fmt.Fprintln(w, "No changes made")
}
