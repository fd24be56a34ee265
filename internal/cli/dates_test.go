package cli

import (
	"testing"
	"time"
)

func TestParseEventTime(t *testing.T) {
	now := time.Date(2026, 1, 28, 15, 4, 5, 0, time.UTC) // Wednesday

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "hours ago",
			input: "2h ago",
			want:  now.Add(-2 * time.Hour),
		},
		{
			name:  "minutes ago",
			input: "30m ago",
			want:  now.Add(-30 * time.Minute),
		},
		{
			name:  "days ago",
			input: "1d ago",
			want:  now.Add(-24 * time.Hour),
		},
		{
			name:  "weeks ago",
			input: "2w ago",
			want:  now.Add(-14 * 24 * time.Hour),
		},
		{
			name:  "months ago",
			input: "1mo ago",
			want:  now.AddDate(0, -1, 0),
		},
		{
			name:  "now",
			input: "now",
			want:  now,
		},
		{
			name:  "today",
			input: "today",
			want:  time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "yesterday",
			input: "yesterday",
			want:  time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "weekday resolves backwards",
			input: "monday",
			want:  time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "same weekday means today",
			input: "wednesday",
			want:  time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "last same weekday goes a week back",
			input: "last wed",
			want:  time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "short weekday name",
			input: "tue",
			want:  time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "plain date",
			input: "2026-01-15",
			want:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date with time",
			input: "2026-01-15 08:30:00",
			want:  time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: "2026-01-15T08:30:00Z",
			want:  time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "case insensitive",
			input: "2H AGO",
			want:  now.Add(-2 * time.Hour),
		},
		{
			name:  "surrounding whitespace",
			input: "  yesterday  ",
			want:  time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEventTime(tt.input, now)
			if err != nil {
				t.Fatalf("ParseEventTime(%q) error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseEventTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseEventTimeErrors(t *testing.T) {
	now := time.Now()

	for _, input := range []string{
		"",
		"   ",
		"gibberish",
		"0h ago",
		"-2h ago",
		"2x ago",
		"2026-13-40",
		"someday",
	} {
		if _, err := ParseEventTime(input, now); err == nil {
			t.Errorf("ParseEventTime(%q) expected an error", input)
		}
	}
}
