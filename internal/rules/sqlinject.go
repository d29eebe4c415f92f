package rules

import (
	"regexp"
	"strings"

	"loupe/internal/diag"
	"loupe/internal/lang"
	"loupe/internal/tree"
)

// MetaSinkScope records which branch of the sink heuristic fired:
// "function" (execution call inside the enclosing scope), "file" (module
// level fallback hit) or "none".
const MetaSinkScope = "sink_scope"

var (
	sqlKeyword = regexp.MustCompile(`\b(SELECT|INSERT|UPDATE|DELETE|FROM|WHERE)\b`)
	sinkCall   = regexp.MustCompile(`\b(execute|executemany|executescript|run|raw|mogrify)\s*\(`)
	scopeOpen  = regexp.MustCompile(`^(\s*)(?:async\s+def|def|function|func|fn)\b\s*([A-Za-z_][A-Za-z0-9_]*)?`)
)

// stringBuildMarkers are the tokens that suggest the SQL text is being
// assembled at runtime rather than written as one literal.
var stringBuildMarkers = []string{"+", "%", "${", "`"}

// SQLInject flags string-built, SQL-shaped text, raising the severity when
// an execution sink is lexically nearby. It is deliberately lightweight:
// one scan over the lines plus one indentation pass, no semantic analysis.
// A candidate is never dropped, only its severity adjusted, so the rule
// works even on degenerate trees where only raw source is available.
type SQLInject struct {
	reg *lang.Registry
}

// NewSQLInject builds the analyzer; the registry supplies per-language
// comment markers for skipping pure-comment lines.
func NewSQLInject(reg *lang.Registry) *SQLInject {
	return &SQLInject{reg: reg}
}

func (s *SQLInject) Name() string { return "sqlinject" }

// scope is one lexical function body derived from indentation: it opens at a
// function line with indentation N and extends to the next non-blank line at
// indentation <= N, or end of file.
type scope struct {
	name      string
	indent    int
	startLine int // 1-based line of the opener
	endLine   int // 1-based, inclusive
	hasSink   bool
}

// Analyze implements the algorithm of the scope-aware sink heuristic.
func (s *SQLInject) Analyze(t *tree.Tree, path string, src []byte) []diag.Issue {
	lines := strings.Split(string(src), "\n")
	markers := s.commentMarkers(t)

	scopes := buildScopes(lines)
	fileHasSink := sinkCall.MatchString(string(src))

	var issues []diag.Issue
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isLineComment(trimmed, markers) {
			continue
		}

		kwLoc := sqlKeyword.FindStringIndex(line)
		if kwLoc == nil || !hasBuildMarker(line) {
			continue
		}

		sev := diag.SevMedium
		branch := "none"
		funcName := ""
		if sc := innermost(scopes, lineNo); sc != nil {
			funcName = sc.name
			if sc.hasSink {
				sev = diag.SevHigh
				branch = "function"
			}
		} else if fileHasSink {
			sev = diag.SevHigh
			branch = "file"
		}

		issue := diag.Issue{
			FilePath:     path,
			Line:         uint32(lineNo), // #nosec G115 -- line numbers fit uint32
			Column:       uint32(kwLoc[0]),
			Kind:         "sql_injection",
			Severity:     sev,
			Message:      "SQL query built from string concatenation or interpolation",
			FunctionName: funcName,
			Suggestion:   "use parameterized queries instead of string building",
			RuleID:       "sql-injection",
			EngineTag:    EngineTag,
			Metadata:     map[string]string{MetaSinkScope: branch},
		}
		issues = append(issues, issue)
	}
	return issues
}

func (s *SQLInject) commentMarkers(t *tree.Tree) []string {
	if s.reg == nil {
		return nil
	}
	info, ok := s.reg.Info(lang.Language(t.Language()))
	if !ok {
		return nil
	}
	return info.LineComments
}

func isLineComment(trimmed string, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}

func hasBuildMarker(line string) bool {
	for _, m := range stringBuildMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// buildScopes derives the lexical scope table from indentation in one pass.
// Blank lines never close a scope; they carry no indentation of their own.
func buildScopes(lines []string) []scope {
	var scopes []scope
	var open []int // indices into scopes, innermost last

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := indentWidth(line)

		for len(open) > 0 && i+1 > scopes[open[len(open)-1]].startLine && indent <= scopes[open[len(open)-1]].indent {
			scopes[open[len(open)-1]].endLine = i // previous line
			open = open[:len(open)-1]
		}

		if m := scopeOpen.FindStringSubmatch(line); m != nil {
			scopes = append(scopes, scope{
				name:      m[2],
				indent:    indent,
				startLine: i + 1,
				endLine:   len(lines),
			})
			open = append(open, len(scopes)-1)
		}
	}

	for _, idx := range open {
		scopes[idx].endLine = len(lines)
	}

	for i := range scopes {
		text := strings.Join(lines[scopes[i].startLine-1:scopes[i].endLine], "\n")
		scopes[i].hasSink = sinkCall.MatchString(text)
	}
	return scopes
}

func indentWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 8
		default:
			return w
		}
	}
	return w
}

// innermost returns the enclosing scope with the greatest indentation, or
// nil for module-level lines.
func innermost(scopes []scope, line int) *scope {
	var best *scope
	for i := range scopes {
		sc := &scopes[i]
		if line >= sc.startLine && line <= sc.endLine {
			if best == nil || sc.indent > best.indent || (sc.indent == best.indent && sc.startLine > best.startLine) {
				best = sc
			}
		}
	}
	return best
}
