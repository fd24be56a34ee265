package api

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/beevik/etree"
	"golang.org/x/sync/errgroup"
)

// ExecutionListOptions narrows a job execution listing. All fields are
// optional.
type ExecutionListOptions struct {
	// Status keeps only executions in the given state.
	Status ExecutionStatus
	// Max caps the number of results (the server defaults to 20).
	Max *int64
	// Offset is the 0-indexed offset of the first result.
	Offset *int64
}

// Get retrieves a single execution by ID.
func (s ExecutionsService) Get(ctx context.Context, executionID int64) (*Execution, error) {
	path := NewPath("/execution/", strconv.FormatInt(executionID, 10))
	execution, err := apiGet(ctx, s.Client, path, func(doc *etree.Document) (Execution, error) {
		return parseObjectAt(doc, "result/executions/execution", parseExecution)
	})
	if err != nil {
		return nil, err
	}
	return &execution, nil
}

// Abort asks the server to stop a running execution. The returned status
// reports whether the abort was accepted; the execution itself may take a
// while to actually stop.
func (s ExecutionsService) Abort(ctx context.Context, executionID int64) (*Abort, error) {
	path := NewPath("/execution/", strconv.FormatInt(executionID, 10), "/abort")
	abort, err := apiGet(ctx, s.Client, path, func(doc *etree.Document) (Abort, error) {
		return parseObjectAt(doc, "result/abort", parseAbort)
	})
	if err != nil {
		return nil, err
	}
	return &abort, nil
}

// Running lists the currently running executions of a project.
func (s ExecutionsService) Running(ctx context.Context, project string) ([]Execution, error) {
	if project == "" {
		return nil, fmt.Errorf("project is mandatory to list running executions")
	}
	path := NewPath("/executions/running").Param("project", project)
	return apiGet(ctx, s.Client, path, func(doc *etree.Document) ([]Execution, error) {
		return parseListAt(doc, "result/executions/execution", parseExecution)
	})
}

// RunningAll lists the running executions of every project, fanning out with
// bounded concurrency. The result is sorted by execution ID.
func (s ExecutionsService) RunningAll(ctx context.Context) ([]Execution, error) {
	projects, err := s.Client.Projects().List(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var all []Execution
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listAllConcurrency)
	for _, project := range projects {
		g.Go(func() error {
			executions, err := s.Running(ctx, project.Name)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, executions...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// ForJob lists the past and current executions of a job.
func (s ExecutionsService) ForJob(ctx context.Context, jobID string, opts ExecutionListOptions) ([]Execution, error) {
	if jobID == "" {
		return nil, fmt.Errorf("jobId is mandatory to list the executions of a job")
	}
	path := NewPath("/job/", jobID, "/executions").
		EnumParam("status", string(opts.Status)).
		LongParam("max", opts.Max).
		LongParam("offset", opts.Offset)
	return apiGet(ctx, s.Client, path, func(doc *etree.Document) ([]Execution, error) {
		return parseListAt(doc, "result/executions/execution", parseExecution)
	})
}
