package validation

import (
	"strings"
	"testing"
)

func TestValidateProjectName(t *testing.T) {
	valid := []string{"ops", "web-app", "my_project", "p1.backend", "x+y", "A"}
	for _, name := range valid {
		if err := ValidateProjectName(name); err != nil {
			t.Errorf("ValidateProjectName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "with space", "slash/ed", ".leading-dot", "tab\tchar", strings.Repeat("a", MaxProjectNameLength+1)}
	for _, name := range invalid {
		if err := ValidateProjectName(name); err == nil {
			t.Errorf("ValidateProjectName(%q) expected an error", name)
		}
	}
}

func TestValidateOptionName(t *testing.T) {
	valid := []string{"env", "node_count", "release.tag", "dry-run"}
	for _, name := range valid {
		if err := ValidateOptionName(name); err != nil {
			t.Errorf("ValidateOptionName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "has space", "a=b", "sh$ell"}
	for _, name := range invalid {
		if err := ValidateOptionName(name); err == nil {
			t.Errorf("ValidateOptionName(%q) expected an error", name)
		}
	}
}

func TestValidateOptionValue(t *testing.T) {
	if err := ValidateOptionValue("env", "production"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateOptionValue("env", strings.Repeat("x", MaxOptionValueLength+1)); err == nil {
		t.Error("oversized option value expected an error")
	}
}
