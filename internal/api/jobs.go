package api

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"golang.org/x/sync/errgroup"
)

// JobListOptions narrows a job listing. All fields are optional.
type JobListOptions struct {
	// JobFilter matches against job names.
	JobFilter string
	// GroupPath includes all jobs within a group or partial group path.
	GroupPath string
	// IDs restricts the listing to the given job IDs.
	IDs []string
}

// List retrieves the jobs of a project matching the given criteria.
func (s JobsService) List(ctx context.Context, project string, opts JobListOptions) ([]Job, error) {
	if strings.TrimSpace(project) == "" {
		return nil, fmt.Errorf("project is mandatory to list jobs")
	}
	path := NewPath("/jobs").
		Param("project", project).
		Param("jobFilter", opts.JobFilter).
		Param("groupPath", opts.GroupPath).
		Param("idlist", strings.Join(opts.IDs, ","))
	return apiGet(ctx, s.Client, path, func(doc *etree.Document) ([]Job, error) {
		return parseListAt(doc, "result/jobs/job", parseJob)
	})
}

// listAllConcurrency bounds the per-project fan-out in ListAll and in
// ExecutionsService.RunningAll.
const listAllConcurrency = 4

// ListAll retrieves the jobs of every project, fanning out with bounded
// concurrency. The result is sorted by project then group/name so the order
// is stable across runs.
func (s JobsService) ListAll(ctx context.Context) ([]Job, error) {
	projects, err := s.Client.Projects().List(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var all []Job
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listAllConcurrency)
	for _, project := range projects {
		g.Go(func() error {
			jobs, err := s.List(ctx, project.Name, JobListOptions{})
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, jobs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Project != all[j].Project {
			return all[i].Project < all[j].Project
		}
		return all[i].FullName() < all[j].FullName()
	})
	return all, nil
}

// Get retrieves a job definition by ID.
func (s JobsService) Get(ctx context.Context, jobID string) (*Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("jobId is mandatory to get a job")
	}
	job, err := apiGet(ctx, s.Client, NewPath("/job/", jobID), func(doc *etree.Document) (Job, error) {
		return parseObjectAt(doc, "joblist/job", parseJob)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Find looks up a job by its exact group and name within a project.
// Group may be empty for ungrouped jobs.
func (s JobsService) Find(ctx context.Context, project, group, name string) (*Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("the job name is mandatory to find a job")
	}
	jobs, err := s.List(ctx, project, JobListOptions{JobFilter: name, GroupPath: group})
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		if job.Name == name && job.Group == group {
			return &job, nil
		}
	}
	return nil, nil
}

// Delete removes a job definition and returns the server's success message.
func (s JobsService) Delete(ctx context.Context, jobID string) (string, error) {
	if strings.TrimSpace(jobID) == "" {
		return "", fmt.Errorf("jobId is mandatory to delete a job")
	}
	return apiDelete(ctx, s.Client, NewPath("/job/", jobID), func(doc *etree.Document) (string, error) {
		el, err := findElement(doc, "result/success/message")
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(el.Text()), nil
	})
}

// TriggerJob fires a job and returns immediately with the new (running)
// execution. Options are rendered as an arg string; nodeFilters may override
// the job's target nodes.
func (s JobsService) TriggerJob(ctx context.Context, jobID string, options map[string]string, nodeFilters NodeFilters) (*Execution, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("jobId is mandatory to trigger a job")
	}
	path := NewPath("/job/", jobID, "/run").
		Param("argString", ArgString(options)).
		NodeFilters(nodeFilters)
	execution, err := apiGet(ctx, s.Client, path, func(doc *etree.Document) (Execution, error) {
		return parseObjectAt(doc, "result/executions/execution", parseExecution)
	})
	if err != nil {
		return nil, err
	}
	return &execution, nil
}

// Run fires a job and polls until the execution reaches a terminal state.
// See runToCompletion for the interruption contract.
func (s JobsService) Run(ctx context.Context, jobID string, options map[string]string, nodeFilters NodeFilters) (*Execution, error) {
	return s.Client.runToCompletion(ctx, func(ctx context.Context) (*Execution, error) {
		return s.TriggerJob(ctx, jobID, options, nodeFilters)
	})
}

// ExportFormat is a job definition file format.
type ExportFormat string

const (
	FormatXML  ExportFormat = "xml"
	FormatYAML ExportFormat = "yaml"
)

// Export downloads the definitions of the jobs matching the criteria, in the
// given format. XML downloads are validated (an embedded server error still
// surfaces); YAML is returned as-is.
func (s JobsService) Export(ctx context.Context, format ExportFormat, project string, opts JobListOptions) ([]byte, error) {
	if format != FormatXML && format != FormatYAML {
		return nil, fmt.Errorf("invalid export format %q", format)
	}
	if strings.TrimSpace(project) == "" {
		return nil, fmt.Errorf("project is mandatory to export jobs")
	}
	path := NewPath("/jobs/export").
		EnumParam("format", string(format)).
		Param("project", project).
		Param("jobFilter", opts.JobFilter).
		Param("groupPath", opts.GroupPath).
		Param("idlist", strings.Join(opts.IDs, ","))
	return s.Client.getRaw(ctx, path, format == FormatXML)
}

// ExportJob downloads a single job definition by ID.
func (s JobsService) ExportJob(ctx context.Context, format ExportFormat, jobID string) ([]byte, error) {
	if format != FormatXML && format != FormatYAML {
		return nil, fmt.Errorf("invalid export format %q", format)
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("jobId is mandatory to export a job")
	}
	path := NewPath("/job/", jobID).EnumParam("format", string(format))
	return s.Client.getRaw(ctx, path, format == FormatXML)
}

// ImportMethod controls what happens when an imported job definition
// collides with an existing one.
type ImportMethod string

const (
	ImportCreate ImportMethod = "create"
	ImportUpdate ImportMethod = "update"
	ImportSkip   ImportMethod = "skip"
)

// Import uploads job definitions (multipart field "xmlBatch") and reports
// which were created, skipped, or rejected.
func (s JobsService) Import(ctx context.Context, definitions io.Reader, format ExportFormat, dupeOption ImportMethod) (*JobsImportResult, error) {
	if definitions == nil {
		return nil, fmt.Errorf("the job definitions are mandatory to import jobs")
	}
	path := NewPath("/jobs/import").
		EnumParam("format", string(format)).
		EnumParam("dupeOption", string(dupeOption)).
		Attach("xmlBatch", definitions)
	result, err := apiPost(ctx, s.Client, path, func(doc *etree.Document) (JobsImportResult, error) {
		return parseObjectAt(doc, "result", parseJobsImportResult)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
