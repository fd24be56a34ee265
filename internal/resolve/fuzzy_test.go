package resolve_test

import (
	"errors"
	"testing"

	"github.com/rundeck/rundeck-cli/internal/resolve"
)

func TestFuzzyMatch_ExactHit(t *testing.T) {
	items := []resolve.Named{
		{ID: "a1", Name: "system/backup"},
		{ID: "a2", Name: "system/cleanup"},
	}
	id, err := resolve.FuzzyMatch("system/backup", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != "a1" {
		t.Fatalf("expected ID a1, got %s", id)
	}
}

func TestFuzzyMatch_PartialHit(t *testing.T) {
	items := []resolve.Named{
		{ID: "a1", Name: "system/backup"},
		{ID: "a2", Name: "web/deploy"},
	}
	id, err := resolve.FuzzyMatch("back", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != "a1" {
		t.Fatalf("expected ID a1, got %s", id)
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	items := []resolve.Named{
		{ID: "a1", Name: "system/Backup"},
	}
	id, err := resolve.FuzzyMatch("BACKUP", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != "a1" {
		t.Fatalf("expected ID a1, got %s", id)
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	items := []resolve.Named{
		{ID: "a1", Name: "system/backup"},
	}
	if _, err := resolve.FuzzyMatch("zzz", items); err == nil {
		t.Fatal("expected error for no match")
	}
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	items := []resolve.Named{
		{ID: "a1", Name: "deploy US"},
		{ID: "a2", Name: "deploy EU"},
	}
	_, err := resolve.FuzzyMatch("deploy", items)
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	var ae *resolve.AmbiguousError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguousError, got %T: %v", err, err)
	}
	if len(ae.Matches) == 0 {
		t.Fatalf("expected candidates in ambiguity error: %+v", ae)
	}
}

func TestFuzzyMatch_PrefersExactOverFuzzy(t *testing.T) {
	items := []resolve.Named{
		{ID: "a1", Name: "deploy"},
		{ID: "a2", Name: "deploy-staging"},
	}
	id, err := resolve.FuzzyMatch("deploy", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != "a1" {
		t.Fatalf("expected exact match ID a1, got %s", id)
	}
}

func TestFuzzyMatch_EmptyQuery(t *testing.T) {
	items := []resolve.Named{{ID: "a1", Name: "backup"}}
	if _, err := resolve.FuzzyMatch("", items); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestFuzzyMatch_EmptyItems(t *testing.T) {
	if _, err := resolve.FuzzyMatch("backup", nil); err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestFuzzyMatchAll_ReturnsRanked(t *testing.T) {
	items := []resolve.Named{
		{ID: "a1", Name: "system/backup"},
		{ID: "a2", Name: "system/cleanup"},
		{ID: "a3", Name: "web/deploy"},
	}
	matches := resolve.FuzzyMatchAll("s", items, 10)
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	for _, m := range matches {
		if m.ID == "" {
			t.Fatal("match should have a non-empty ID")
		}
	}
}

func TestFuzzyMatchAll_Limit(t *testing.T) {
	items := []resolve.Named{
		{ID: "a1", Name: "s-one"},
		{ID: "a2", Name: "s-two"},
		{ID: "a3", Name: "s-three"},
	}
	if matches := resolve.FuzzyMatchAll("s", items, 2); len(matches) > 2 {
		t.Fatalf("expected at most 2 matches, got %d", len(matches))
	}
	if matches := resolve.FuzzyMatchAll("s", items, 0); matches != nil {
		t.Fatal("limit 0 should return nil")
	}
}
