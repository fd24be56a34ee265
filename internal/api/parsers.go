package api

// One parse function per response shape, mirroring the server's XML layouts.
// Each takes the element holding the object (not the document root), so the
// same function serves both single-object and list responses.

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

func parseProject(el *etree.Element) (Project, error) {
	return Project{
		Name:                     childText(el, "name"),
		Description:              childText(el, "description"),
		ResourceModelProviderURL: childText(el, "resources/providerURL"),
	}, nil
}

func parseJob(el *etree.Element) (Job, error) {
	job := Job{
		Name:        childText(el, "name"),
		Group:       childText(el, "group"),
		Description: childText(el, "description"),
	}
	// The ID is an attribute or a child element depending on the endpoint.
	job.ID = childText(el, "id")
	if job.ID == "" {
		job.ID = attr(el, "id")
	}
	// The project is nested under context in job definitions, but a direct
	// child in listings.
	if ctx := el.FindElement("context"); ctx != nil {
		job.Project = childText(ctx, "project")
	} else {
		job.Project = childText(el, "project")
	}
	return job, nil
}

func parseExecution(el *etree.Element) (Execution, error) {
	id := attr(el, "id")
	if id == "" {
		return Execution{}, fmt.Errorf("execution element has no id attribute")
	}
	exec := Execution{
		ID:          parseInt64(id),
		URL:         attr(el, "href"),
		Status:      ExecutionStatus(strings.ToLower(attr(el, "status"))),
		Description: childText(el, "description"),
		StartedBy:   childText(el, "user"),
		AbortedBy:   childText(el, "abortedby"),
		StartedAt:   epochMillis(childAttr(el, "date-started", "unixtime")),
		EndedAt:     epochMillis(childAttr(el, "date-ended", "unixtime")),
	}
	if jobEl := el.FindElement("job"); jobEl != nil {
		job, err := parseJob(jobEl)
		if err != nil {
			return Execution{}, err
		}
		exec.Job = &job
	}
	return exec, nil
}

func parseAbort(el *etree.Element) (Abort, error) {
	abort := Abort{Status: AbortStatus(strings.ToLower(attr(el, "status")))}
	if execEl := el.FindElement("execution"); execEl != nil {
		exec, err := parseExecution(execEl)
		if err != nil {
			return Abort{}, err
		}
		abort.Execution = &exec
	}
	return abort, nil
}

func parseNode(el *etree.Element) (Node, error) {
	node := Node{
		Name:        attr(el, "name"),
		Type:        attr(el, "type"),
		Description: attr(el, "description"),
		Hostname:    attr(el, "hostname"),
		OsArch:      attr(el, "osArch"),
		OsFamily:    attr(el, "osFamily"),
		OsName:      attr(el, "osName"),
		OsVersion:   attr(el, "osVersion"),
		Username:    attr(el, "username"),
		EditURL:     attr(el, "editUrl"),
		RemoteURL:   attr(el, "remoteUrl"),
	}
	if tags := attr(el, "tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				node.Tags = append(node.Tags, tag)
			}
		}
	}
	return node, nil
}

func parseEvent(el *etree.Element) (Event, error) {
	event := Event{
		Title:     childText(el, "title"),
		Status:    EventStatus(strings.ToLower(childText(el, "status"))),
		Summary:   childText(el, "summary"),
		User:      childText(el, "user"),
		Project:   childText(el, "project"),
		StartedAt: epochMillis(attr(el, "starttime")),
		EndedAt:   epochMillis(attr(el, "endtime")),
		AbortedBy: childText(el, "abortedby"),
		JobID:     childAttr(el, "job", "id"),
		NodeSummary: NodeSummary{
			Succeeded: parseInt(childAttr(el, "node-summary", "succeeded")),
			Failed:    parseInt(childAttr(el, "node-summary", "failed")),
			Total:     parseInt(childAttr(el, "node-summary", "total")),
		},
	}
	if id := childAttr(el, "execution", "id"); id != "" {
		execID := parseInt64(id)
		event.ExecutionID = &execID
	}
	return event, nil
}

func parseHistory(el *etree.Element) (History, error) {
	history := History{
		Count:  parseInt(attr(el, "count")),
		Total:  parseInt(attr(el, "total")),
		Max:    parseInt(attr(el, "max")),
		Offset: parseInt(attr(el, "offset")),
	}
	for _, eventEl := range el.FindElements("event") {
		event, err := parseEvent(eventEl)
		if err != nil {
			return History{}, err
		}
		history.Events = append(history.Events, event)
	}
	return history, nil
}

func parseSystemInfo(el *etree.Element) (SystemInfo, error) {
	info := SystemInfo{
		Date:             epochMillis(childAttr(el, "timestamp", "epoch")),
		Version:          childText(el, "rundeck/version"),
		Build:            childText(el, "rundeck/build"),
		Node:             childText(el, "rundeck/node"),
		BaseDir:          childText(el, "rundeck/base"),
		OsArch:           childText(el, "os/arch"),
		OsName:           childText(el, "os/name"),
		OsVersion:        childText(el, "os/version"),
		JvmName:          childText(el, "jvm/name"),
		JvmVendor:        childText(el, "jvm/vendor"),
		JvmVersion:       childText(el, "jvm/version"),
		StartDate:        epochMillis(childAttr(el, "stats/uptime/since", "epoch")),
		Uptime:           parseInt64(childAttr(el, "stats/uptime", "duration")),
		CPULoadAverage:   childText(el, "stats/cpu/loadAverage"),
		MaxMemoryBytes:   parseInt64(childText(el, "stats/memory/max")),
		FreeMemoryBytes:  parseInt64(childText(el, "stats/memory/free")),
		TotalMemoryBytes: parseInt64(childText(el, "stats/memory/total")),
		RunningJobs:      parseInt(childText(el, "stats/scheduler/running")),
		ActiveThreads:    parseInt(childText(el, "stats/threads/active")),
	}
	return info, nil
}

func parseJobsImportResult(el *etree.Element) (JobsImportResult, error) {
	var result JobsImportResult
	for _, jobEl := range el.FindElements("succeeded/job") {
		job, err := parseJob(jobEl)
		if err != nil {
			return JobsImportResult{}, err
		}
		result.Succeeded = append(result.Succeeded, job)
	}
	for _, jobEl := range el.FindElements("skipped/job") {
		job, err := parseJob(jobEl)
		if err != nil {
			return JobsImportResult{}, err
		}
		result.Skipped = append(result.Skipped, job)
	}
	for _, jobEl := range el.FindElements("failed/job") {
		job, err := parseJob(jobEl)
		if err != nil {
			return JobsImportResult{}, err
		}
		result.Failed = append(result.Failed, FailedJobImport{
			Job:   job,
			Error: childText(jobEl, "error"),
		})
	}
	return result, nil
}

// findElement locates path in the document and fails with a DecodeError when
// it is missing, so a shape mismatch surfaces as a clear parse error rather
// than a zero value.
func findElement(doc *etree.Document, path string) (*etree.Element, error) {
	el := doc.FindElement(path)
	if el == nil {
		return nil, &APIError{
			Message: "unexpected response shape",
			Cause:   &DecodeError{Cause: fmt.Errorf("missing element %q", path)},
		}
	}
	return el, nil
}

// parseListAt applies parse to every element matching path in the document.
// An empty match list yields an empty slice, not an error.
func parseListAt[T any](doc *etree.Document, path string, parse func(*etree.Element) (T, error)) ([]T, error) {
	elements := doc.FindElements(path)
	items := make([]T, 0, len(elements))
	for _, el := range elements {
		item, err := parse(el)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// parseObjectAt applies parse to the single element at path.
func parseObjectAt[T any](doc *etree.Document, path string, parse func(*etree.Element) (T, error)) (T, error) {
	el, err := findElement(doc, path)
	if err != nil {
		var zero T
		return zero, err
	}
	return parse(el)
}
