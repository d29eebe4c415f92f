package rules

import (
	"regexp"
	"strings"

	"loupe/internal/diag"
)

var secretAssign = regexp.MustCompile(`(?i)\b(password|passwd|secret|api_key|apikey|token|access_key|private_key)\b\s*[:=]\s*["']?([^\s"']+)`)

// Secrets is a line-oriented analyzer for declarative configuration formats:
// it flags what looks like a hardcoded credential assignment. Values that
// reference the environment or a template variable are not findings.
type Secrets struct{}

// NewSecrets builds the analyzer.
func NewSecrets() *Secrets { return &Secrets{} }

func (s *Secrets) Name() string { return "secrets" }

// AnalyzeLines scans the raw lines; no tree is involved.
func (s *Secrets) AnalyzeLines(path string, src []byte) []diag.Issue {
	var issues []diag.Issue
	for i, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		m := secretAssign.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		value := line[m[4]:m[5]]
		if indirectValue(value) {
			continue
		}
		issues = append(issues, diag.Issue{
			FilePath:   path,
			Line:       uint32(i + 1), // #nosec G115 -- line numbers fit uint32
			Column:     uint32(m[0]),
			Kind:       "hardcoded_secret",
			Severity:   diag.SevHigh,
			Message:    "possible hardcoded credential",
			Suggestion: "load the value from the environment or a secret store",
			RuleID:     "hardcoded-secret",
			EngineTag:  EngineTag,
		})
	}
	return issues
}

// indirectValue recognizes env and template references, which are the
// accepted way to inject credentials.
func indirectValue(v string) bool {
	return strings.HasPrefix(v, "${") || strings.HasPrefix(v, "{{") ||
		strings.HasPrefix(v, "$") || strings.EqualFold(v, "null")
}
