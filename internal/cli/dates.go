// Package cli holds small helpers shared by the command layer.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches: "2h ago", "30m ago", "1d ago", "2w ago", "1mo ago"
var relativeAgoRegex = regexp.MustCompile(`^(\d+)(mo|w|d|h|m)\s*ago$`)

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseEventTime parses the time expressions accepted by history filters.
// Supports: "2h ago", "yesterday", "monday", "last tue", RFC 3339 and
// plain dates. Dates without a zone are interpreted in now's location.
func ParseEventTime(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	input := strings.ToLower(raw)

	switch input {
	case "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if t, ok := parseWeekday(input, now); ok {
		return t, nil
	}

	if matches := relativeAgoRegex.FindStringSubmatch(input); len(matches) == 3 {
		value, err := strconv.Atoi(matches[1])
		if err != nil || value < 1 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		return subtractRelative(now, value, matches[2])
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return startOfDay(t), nil
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time expression %q", raw)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseWeekday resolves a weekday name to the most recent past occurrence.
// History filters look backwards, so "monday" on a Monday means today and
// "last monday" means a week earlier.
func parseWeekday(expr string, now time.Time) (time.Time, bool) {
	input := strings.TrimSpace(expr)
	if input == "" {
		return time.Time{}, false
	}

	last := false
	if strings.HasPrefix(input, "last ") {
		last = true
		input = strings.TrimSpace(strings.TrimPrefix(input, "last "))
	}

	weekday, ok := weekdayMap[input]
	if !ok {
		return time.Time{}, false
	}

	base := startOfDay(now)
	delta := (int(base.Weekday()) - int(weekday) + 7) % 7
	if last && delta == 0 {
		delta = 7
	}

	return base.AddDate(0, 0, -delta), true
}

var weekdayMap = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"weds":      time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

func subtractRelative(now time.Time, value int, unit string) (time.Time, error) {
	switch unit {
	case "mo":
		return now.AddDate(0, -value, 0), nil
	case "w":
		return now.Add(-time.Duration(value) * 7 * 24 * time.Hour), nil
	case "d":
		return now.Add(-time.Duration(value) * 24 * time.Hour), nil
	case "h":
		return now.Add(-time.Duration(value) * time.Hour), nil
	case "m":
		return now.Add(-time.Duration(value) * time.Minute), nil
	default:
		return time.Time{}, fmt.Errorf("invalid relative time unit %q", unit)
	}
}
