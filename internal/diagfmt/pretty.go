package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"loupe/internal/diag"
)

// Pretty writes a human-readable report:
//
//	<path>:<line>:<col>: <SEVERITY> [<rule>] <message>
//
// grouped per file, followed by the summary block. File results arrive
// already sorted by the engine.
func Pretty(w io.Writer, report *diag.Report, opts PrettyOpts) {
	sevColors := severityColors(opts.Color)

	if !opts.Quiet {
		for _, fr := range report.FileResults {
			for _, issue := range fr.Issues {
				fmt.Fprintf(w, "%s:%d:%d: %s [%s] %s\n",
					issue.FilePath, issue.Line, issue.Column,
					sevColors[issue.Severity].Sprint(issue.Severity.String()),
					issue.RuleID, issue.Message)
				if issue.Suggestion != "" {
					fmt.Fprintf(w, "    hint: %s\n", issue.Suggestion)
				}
			}
		}
	}

	s := report.Summary
	fmt.Fprintf(w, "\n%d files analyzed, %d issues (%s %d, %s %d, %s %d, %s %d), %d lines of code, %.2fs\n",
		s.FilesAnalyzed, s.TotalIssues,
		sevColors[diag.SevCritical].Sprint("critical"), s.PerSeverityCounts[diag.SevCritical.String()],
		sevColors[diag.SevHigh].Sprint("high"), s.PerSeverityCounts[diag.SevHigh.String()],
		sevColors[diag.SevMedium].Sprint("medium"), s.PerSeverityCounts[diag.SevMedium.String()],
		sevColors[diag.SevLow].Sprint("low"), s.PerSeverityCounts[diag.SevLow.String()],
		s.TotalLOC, s.DurationSeconds)
}

func severityColors(enabled bool) map[diag.Severity]*color.Color {
	out := map[diag.Severity]*color.Color{
		diag.SevCritical: color.New(color.FgRed, color.Bold),
		diag.SevHigh:     color.New(color.FgRed),
		diag.SevMedium:   color.New(color.FgYellow),
		diag.SevLow:      color.New(color.FgCyan),
	}
	for _, c := range out {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return out
}
