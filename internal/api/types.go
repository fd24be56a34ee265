package api

import "time"

// ExecutionStatus is the lifecycle status of an execution. Values match the
// wire format (lower-case).
type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionSucceeded ExecutionStatus = "succeeded"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionAborted   ExecutionStatus = "aborted"
)

// Terminal reports whether the status is one an execution cannot leave.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case ExecutionSucceeded, ExecutionFailed, ExecutionAborted:
		return true
	}
	return false
}

// Project is a Rundeck project.
type Project struct {
	Name                     string `json:"name"`
	Description              string `json:"description,omitempty"`
	ResourceModelProviderURL string `json:"resource_model_provider_url,omitempty"`
}

// Job is a job definition summary.
type Job struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Group       string `json:"group,omitempty"`
	Project     string `json:"project,omitempty"`
	Description string `json:"description,omitempty"`
}

// FullName returns group/name, or just the name for ungrouped jobs.
func (j Job) FullName() string {
	if j.Group == "" {
		return j.Name
	}
	return j.Group + "/" + j.Name
}

// Execution is one run of a job or ad-hoc command/script. Each fetch
// produces a new value; an Execution is never mutated in place.
type Execution struct {
	ID          int64           `json:"id"`
	URL         string          `json:"url,omitempty"`
	Status      ExecutionStatus `json:"status"`
	Description string          `json:"description,omitempty"`
	StartedBy   string          `json:"started_by,omitempty"`
	AbortedBy   string          `json:"aborted_by,omitempty"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	EndedAt     *time.Time      `json:"ended_at,omitempty"`
	Job         *Job            `json:"job,omitempty"`
}

// Duration returns the elapsed time between start and end, or 0 when either
// timestamp is missing.
func (e Execution) Duration() time.Duration {
	if e.StartedAt == nil || e.EndedAt == nil {
		return 0
	}
	return e.EndedAt.Sub(*e.StartedAt)
}

// AbortStatus is the outcome of an abort request.
type AbortStatus string

const (
	AbortPending AbortStatus = "pending"
	AbortFailed  AbortStatus = "failed"
	AbortAborted AbortStatus = "aborted"
)

// Abort is the result of aborting an execution.
type Abort struct {
	Status    AbortStatus `json:"status"`
	Execution *Execution  `json:"execution,omitempty"`
}

// Node is a machine in a project's resource inventory.
type Node struct {
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	OsArch      string   `json:"os_arch,omitempty"`
	OsFamily    string   `json:"os_family,omitempty"`
	OsName      string   `json:"os_name,omitempty"`
	OsVersion   string   `json:"os_version,omitempty"`
	Username    string   `json:"username,omitempty"`
	EditURL     string   `json:"edit_url,omitempty"`
	RemoteURL   string   `json:"remote_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// EventStatus is the outcome recorded for a history event.
type EventStatus string

const (
	EventSucceeded EventStatus = "succeeded"
	EventFailed    EventStatus = "failed"
	EventAborted   EventStatus = "aborted"
)

// NodeSummary is the per-event node dispatch tally.
type NodeSummary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// Event is one history entry.
type Event struct {
	Title       string      `json:"title,omitempty"`
	Status      EventStatus `json:"status,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	NodeSummary NodeSummary `json:"node_summary"`
	User        string      `json:"user,omitempty"`
	Project     string      `json:"project,omitempty"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	EndedAt     *time.Time  `json:"ended_at,omitempty"`
	AbortedBy   string      `json:"aborted_by,omitempty"`
	ExecutionID *int64      `json:"execution_id,omitempty"`
	JobID       string      `json:"job_id,omitempty"`
}

// History is a page of events.
type History struct {
	Count  int     `json:"count"`
	Total  int     `json:"total"`
	Max    int     `json:"max"`
	Offset int     `json:"offset"`
	Events []Event `json:"events"`
}

// SystemInfo describes the remote server instance.
type SystemInfo struct {
	Date               *time.Time `json:"date,omitempty"`
	Version            string     `json:"version,omitempty"`
	Build              string     `json:"build,omitempty"`
	Node               string     `json:"node,omitempty"`
	BaseDir            string     `json:"base_dir,omitempty"`
	OsArch             string     `json:"os_arch,omitempty"`
	OsName             string     `json:"os_name,omitempty"`
	OsVersion          string     `json:"os_version,omitempty"`
	JvmName            string     `json:"jvm_name,omitempty"`
	JvmVendor          string     `json:"jvm_vendor,omitempty"`
	JvmVersion         string     `json:"jvm_version,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	Uptime             int64      `json:"uptime_millis"`
	CPULoadAverage     string     `json:"cpu_load_average,omitempty"`
	MaxMemoryBytes     int64      `json:"max_memory_bytes"`
	FreeMemoryBytes    int64      `json:"free_memory_bytes"`
	TotalMemoryBytes   int64      `json:"total_memory_bytes"`
	RunningJobs        int        `json:"running_jobs"`
	ActiveThreads      int        `json:"active_threads"`
}

// JobsImportResult reports the outcome of a jobs-import upload.
type JobsImportResult struct {
	Succeeded []Job             `json:"succeeded,omitempty"`
	Skipped   []Job             `json:"skipped,omitempty"`
	Failed    []FailedJobImport `json:"failed,omitempty"`
}

// FailedJobImport pairs a rejected job definition with the server's reason.
type FailedJobImport struct {
	Job   Job    `json:"job"`
	Error string `json:"error"`
}
