package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Input length limits to keep request URLs and payloads within what the
// server accepts.
const (
	MaxProjectNameLength = 255
	MaxOptionNameLength  = 255
	MaxOptionValueLength = 4096
	MaxURLLength         = 2048 // standard browser URL limit
)

// Project names follow the charset Rundeck enforces on creation.
var projectNameRegex = regexp.MustCompile(`^[-_a-zA-Z0-9+][-_a-zA-Z0-9+.]*$`)

// Option names are used as URL query parameter suffixes (argString keys).
var optionNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateProjectName checks that a project name uses the charset the
// server accepts. Empty names are rejected.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxProjectNameLength {
		return fmt.Errorf("project name exceeds maximum length of %d characters", MaxProjectNameLength)
	}
	if !projectNameRegex.MatchString(name) {
		return fmt.Errorf("invalid project name %q: only letters, digits and -_+. are allowed", name)
	}
	return nil
}

// ValidateOptionName checks a job option name.
func ValidateOptionName(name string) error {
	if name == "" {
		return fmt.Errorf("option name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxOptionNameLength {
		return fmt.Errorf("option name exceeds maximum length of %d characters", MaxOptionNameLength)
	}
	if !optionNameRegex.MatchString(name) {
		return fmt.Errorf("invalid option name %q: only letters, digits and _.- are allowed", name)
	}
	return nil
}

// ValidateOptionValue bounds a job option value. Option values travel in
// the query string, so oversized values produce request URLs the server
// rejects with an opaque error.
func ValidateOptionValue(name, value string) error {
	if len(value) > MaxOptionValueLength {
		return fmt.Errorf("value of option %q exceeds maximum size of %d bytes (got %d)", name, MaxOptionValueLength, len(value))
	}
	return nil
}
