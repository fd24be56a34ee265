package api

import (
	"context"
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// AdhocOptions tunes how an ad-hoc command or script is dispatched to nodes.
// All fields are optional.
type AdhocOptions struct {
	// NodeThreadcount parallelizes the dispatch across nodes.
	NodeThreadcount *int
	// NodeKeepgoing keeps executing on other nodes when one fails.
	NodeKeepgoing *bool
	// NodeFilters selects the nodes to run on.
	NodeFilters NodeFilters
}

// TriggerCommand fires an ad-hoc shell command and returns immediately with
// the new (running) execution. The trigger response only carries the
// execution ID, so a second call fetches the full record.
func (s AdhocService) TriggerCommand(ctx context.Context, project, command string, opts AdhocOptions) (*Execution, error) {
	if project == "" {
		return nil, fmt.Errorf("project is mandatory to trigger an ad-hoc command")
	}
	if command == "" {
		return nil, fmt.Errorf("command is mandatory to trigger an ad-hoc command")
	}
	path := NewPath("/run/command").
		Param("project", project).
		Param("exec", command).
		IntParam("nodeThreadcount", opts.NodeThreadcount).
		BoolParam("nodeKeepgoing", opts.NodeKeepgoing).
		NodeFilters(opts.NodeFilters)
	execution, err := apiGet(ctx, s.Client, path, func(doc *etree.Document) (Execution, error) {
		return parseObjectAt(doc, "result/execution", parseExecution)
	})
	if err != nil {
		return nil, err
	}
	return s.Client.Executions().Get(ctx, execution.ID)
}

// RunCommand fires an ad-hoc command and polls until the execution reaches a
// terminal state. See runToCompletion for the interruption contract.
func (s AdhocService) RunCommand(ctx context.Context, project, command string, opts AdhocOptions) (*Execution, error) {
	return s.Client.runToCompletion(ctx, func(ctx context.Context) (*Execution, error) {
		return s.TriggerCommand(ctx, project, command, opts)
	})
}

// TriggerScript uploads a script (multipart field "scriptFile") and fires it
// as an ad-hoc execution, returning immediately with the new (running)
// execution. Options are rendered as an arg string.
func (s AdhocService) TriggerScript(ctx context.Context, project string, script io.Reader, options map[string]string, opts AdhocOptions) (*Execution, error) {
	if project == "" {
		return nil, fmt.Errorf("project is mandatory to trigger an ad-hoc script")
	}
	if script == nil {
		return nil, fmt.Errorf("script is mandatory to trigger an ad-hoc script")
	}
	path := NewPath("/run/script").
		Param("project", project).
		Attach("scriptFile", script).
		Param("argString", ArgString(options)).
		IntParam("nodeThreadcount", opts.NodeThreadcount).
		BoolParam("nodeKeepgoing", opts.NodeKeepgoing).
		NodeFilters(opts.NodeFilters)
	execution, err := apiPost(ctx, s.Client, path, func(doc *etree.Document) (Execution, error) {
		return parseObjectAt(doc, "result/execution", parseExecution)
	})
	if err != nil {
		return nil, err
	}
	return s.Client.Executions().Get(ctx, execution.ID)
}

// RunScript uploads and fires an ad-hoc script, polling until the execution
// reaches a terminal state. See runToCompletion for the interruption
// contract.
func (s AdhocService) RunScript(ctx context.Context, project string, script io.Reader, options map[string]string, opts AdhocOptions) (*Execution, error) {
	return s.Client.runToCompletion(ctx, func(ctx context.Context) (*Execution, error) {
		return s.TriggerScript(ctx, project, script, options, opts)
	})
}
