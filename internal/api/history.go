package api

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"
)

// HistoryOptions narrows a history query. All fields are optional.
type HistoryOptions struct {
	// JobID keeps only events produced by the given job.
	JobID string
	// ReportID keeps only events with the given report ID.
	ReportID string
	// User keeps only events triggered by the given user.
	User string
	// Recent is a relative time window such as "1h", "2d" or "3w".
	Recent string
	// Begin and End bound the event dates.
	Begin *time.Time
	End   *time.Time
	// Max caps the number of results (the server defaults to 20).
	Max *int64
	// Offset is the 0-indexed offset of the first result.
	Offset *int64
}

// Get retrieves a page of the activity history of a project.
func (s HistoryService) Get(ctx context.Context, project string, opts HistoryOptions) (*History, error) {
	if project == "" {
		return nil, fmt.Errorf("project is mandatory to get the history")
	}
	path := NewPath("/history").
		Param("project", project).
		Param("jobIdFilter", opts.JobID).
		Param("reportIdFilter", opts.ReportID).
		Param("userFilter", opts.User).
		Param("recentFilter", opts.Recent).
		DateParam("begin", opts.Begin).
		DateParam("end", opts.End).
		LongParam("max", opts.Max).
		LongParam("offset", opts.Offset)
	history, err := apiGet(ctx, s.Client, path, func(doc *etree.Document) (History, error) {
		return parseObjectAt(doc, "result/events", parseHistory)
	})
	if err != nil {
		return nil, err
	}
	return &history, nil
}
