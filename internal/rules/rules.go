// Package rules holds the rule analyzers the engine dispatches over adapted
// trees. Every structural analyzer follows the same pattern: consume
// (tree, path, source), emit issues, never mutate the tree, and treat a
// degenerate Unknown root as "no structural findings possible" rather than
// as an error.
package rules

import (
	"loupe/internal/diag"
	"loupe/internal/lang"
	"loupe/internal/tree"
)

// Analyzer is a structural rule run over an adapted tree.
type Analyzer interface {
	Name() string
	Analyze(t *tree.Tree, path string, src []byte) []diag.Issue
}

// LineAnalyzer is a line-oriented rule for declarative formats with no
// structural grammar wired in. It bypasses the tree model entirely but is
// fed through the same discovery, severity filtering and aggregation.
type LineAnalyzer interface {
	Name() string
	AnalyzeLines(path string, src []byte) []diag.Issue
}

// EngineTag marks issues produced by this engine's built-in analyzers.
const EngineTag = "loupe"

// DefaultAnalyzers returns the built-in structural rule set in dispatch
// order.
func DefaultAnalyzers(reg *lang.Registry) []Analyzer {
	return []Analyzer{
		NewSQLInject(reg),
		NewLongFunc(0),
		NewNestDepth(0),
	}
}

// DefaultLineAnalyzers returns the built-in line-oriented rule set.
func DefaultLineAnalyzers() []LineAnalyzer {
	return []LineAnalyzer{
		NewSecrets(),
	}
}
