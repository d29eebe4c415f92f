package diag

import "sort"

// Issue is the stable, serializable finding contract consumed by reporters,
// CLIs and services outside the engine. Field names must not change.
type Issue struct {
	FilePath     string            `json:"file_path"`
	Line         uint32            `json:"line"`
	Column       uint32            `json:"column"`
	Kind         string            `json:"kind"`
	Severity     Severity          `json:"severity"`
	Message      string            `json:"message"`
	FunctionName string            `json:"function_name,omitempty"`
	Suggestion   string            `json:"suggestion,omitempty"`
	RuleID       string            `json:"rule_id,omitempty"`
	EngineTag    string            `json:"engine_tag,omitempty"`
	Confidence   float64           `json:"confidence,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// SortIssues orders issues deterministically by (line, column, rule, message)
// so that repeated runs over unchanged input produce identical reports.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})
}

// CountBySeverity tallies issues per severity spelling.
func CountBySeverity(issues []Issue) map[string]int {
	out := map[string]int{
		SevLow.String():      0,
		SevMedium.String():   0,
		SevHigh.String():     0,
		SevCritical.String(): 0,
	}
	for i := range issues {
		out[issues[i].Severity.String()]++
	}
	return out
}
