package rules

import (
	"fmt"

	"loupe/internal/diag"
	"loupe/internal/tree"
)

// DefaultMaxNestDepth is the nesting threshold when the config leaves it
// unset.
const DefaultMaxNestDepth = 4

// NestDepth flags conditionals and loops buried too deep inside other
// conditionals and loops. Ancestry comes from the traversal's explicit
// ancestor chain; nodes never store parent pointers.
type NestDepth struct {
	max int
}

// NewNestDepth builds the analyzer; max <= 0 selects the default.
func NewNestDepth(max int) *NestDepth {
	if max <= 0 {
		max = DefaultMaxNestDepth
	}
	return &NestDepth{max: max}
}

func (d *NestDepth) Name() string { return "nestdepth" }

// Analyze reports the first node of each chain that crosses the threshold,
// not every deeper one, so one over-nested block yields one issue.
func (d *NestDepth) Analyze(t *tree.Tree, path string, _ []byte) []diag.Issue {
	var issues []diag.Issue
	for n, ancestors := range t.WalkStack() {
		if !nesting(n.Kind) {
			continue
		}
		depth := 0
		var enclosing string
		for _, a := range ancestors {
			if nesting(a.Kind) {
				depth++
			}
			if a.Kind.IsFunction() {
				enclosing = a.Name
			}
		}
		if depth != d.max {
			continue
		}
		issues = append(issues, diag.Issue{
			FilePath:     path,
			Line:         n.Span.LineStart,
			Column:       n.Span.ColStart,
			Kind:         "deep_nesting",
			Severity:     diag.SevMedium,
			Message:      fmt.Sprintf("control flow nested %d levels deep (max %d)", depth+1, d.max),
			FunctionName: enclosing,
			Suggestion:   "extract the inner blocks into helper functions",
			RuleID:       "nest-depth",
			EngineTag:    EngineTag,
		})
	}
	return issues
}

func nesting(k tree.Kind) bool {
	return k == tree.KindConditional || k == tree.KindLoop
}
