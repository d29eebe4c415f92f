package diag

import (
	"reflect"
	"testing"
)

func TestSortIssues_Deterministic(t *testing.T) {
	issues := []Issue{
		{Line: 5, Column: 0, RuleID: "b", Message: "second"},
		{Line: 2, Column: 8, RuleID: "a", Message: "first"},
		{Line: 2, Column: 8, RuleID: "a", Message: "also first"},
		{Line: 2, Column: 1, RuleID: "z", Message: "leftmost"},
	}
	SortIssues(issues)

	wantMessages := []string{"leftmost", "also first", "first", "second"}
	for i, want := range wantMessages {
		if issues[i].Message != want {
			t.Errorf("position %d: got %q, want %q", i, issues[i].Message, want)
		}
	}
}

func TestCountBySeverity_AlwaysFourKeys(t *testing.T) {
	counts := CountBySeverity(nil)
	if len(counts) != 4 {
		t.Fatalf("got %d keys, want 4", len(counts))
	}
	for _, sev := range []Severity{SevLow, SevMedium, SevHigh, SevCritical} {
		if _, ok := counts[sev.String()]; !ok {
			t.Errorf("missing key %s", sev)
		}
	}
}

func TestAggregate(t *testing.T) {
	results := []FileResult{
		{
			FilePath:    "a.py",
			LinesOfCode: 10,
			Issues: []Issue{
				{Severity: SevHigh},
				{Severity: SevMedium},
			},
		},
		{
			FilePath:    "b.py",
			LinesOfCode: 3,
			Issues:      []Issue{{Severity: SevHigh}},
		},
		{FilePath: "clean.py", LinesOfCode: 1},
	}

	report := Aggregate(results, 0.5)

	s := report.Summary
	if s.FilesAnalyzed != 3 {
		t.Errorf("FilesAnalyzed = %d, want 3", s.FilesAnalyzed)
	}
	if s.TotalIssues != 3 {
		t.Errorf("TotalIssues = %d, want 3", s.TotalIssues)
	}
	if s.TotalLOC != 14 {
		t.Errorf("TotalLOC = %d, want 14", s.TotalLOC)
	}
	wantCounts := map[string]int{"LOW": 0, "MEDIUM": 1, "HIGH": 2, "CRITICAL": 0}
	if !reflect.DeepEqual(s.PerSeverityCounts, wantCounts) {
		t.Errorf("PerSeverityCounts = %v, want %v", s.PerSeverityCounts, wantCounts)
	}
	if s.DurationSeconds != 0.5 {
		t.Errorf("DurationSeconds = %v, want 0.5", s.DurationSeconds)
	}
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(nil, 0)
	if report.Summary.FilesAnalyzed != 0 || report.Summary.TotalIssues != 0 {
		t.Errorf("empty aggregate = %+v", report.Summary)
	}
	if len(report.Summary.PerSeverityCounts) != 4 {
		t.Error("empty aggregate must still carry all four severity keys")
	}
}
