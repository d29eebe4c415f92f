package rules

import (
	"fmt"

	"loupe/internal/diag"
	"loupe/internal/tree"
)

// DefaultMaxFunctionLines is the longfunc threshold when the config leaves
// it unset.
const DefaultMaxFunctionLines = 50

// LongFunc flags functions whose span exceeds a line budget.
type LongFunc struct {
	maxLines uint32
}

// NewLongFunc builds the analyzer; maxLines <= 0 selects the default.
func NewLongFunc(maxLines int) *LongFunc {
	if maxLines <= 0 {
		maxLines = DefaultMaxFunctionLines
	}
	return &LongFunc{maxLines: uint32(maxLines)} // #nosec G115 -- guarded above
}

func (l *LongFunc) Name() string { return "longfunc" }

// Analyze walks only the function nodes, nested ones included.
func (l *LongFunc) Analyze(t *tree.Tree, path string, _ []byte) []diag.Issue {
	var issues []diag.Issue
	for n := range t.Functions() {
		lines := n.Span.LineCount()
		if lines <= l.maxLines {
			continue
		}
		name := n.Name
		if name == "" {
			name = "(anonymous)"
		}
		issues = append(issues, diag.Issue{
			FilePath:     path,
			Line:         n.Span.LineStart,
			Column:       n.Span.ColStart,
			Kind:         "long_function",
			Severity:     diag.SevMedium,
			Message:      fmt.Sprintf("function %s spans %d lines (max %d)", name, lines, l.maxLines),
			FunctionName: n.Name,
			Suggestion:   "split the function into smaller pieces",
			RuleID:       "long-function",
			EngineTag:    EngineTag,
		})
	}
	return issues
}
