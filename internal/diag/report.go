package diag

// FileResult is the outcome of analyzing one file.
type FileResult struct {
	FilePath    string  `json:"file_path"`
	Issues      []Issue `json:"issues"`
	LinesOfCode int     `json:"lines_of_code"`
	DurationMS  float64 `json:"duration_ms"`
	Language    string  `json:"language"`
}

// Summary aggregates per-severity counts across all retained file results.
// Field names are part of the wire contract.
type Summary struct {
	FilesAnalyzed     int            `json:"files_analyzed"`
	TotalIssues       int            `json:"total_issues"`
	PerSeverityCounts map[string]int `json:"per_severity_counts"`
	TotalLOC          int            `json:"total_loc"`
	DurationSeconds   float64        `json:"duration_seconds"`
}

// Report is the aggregate result of one analyze_path run.
type Report struct {
	Summary     Summary      `json:"summary"`
	FileResults []FileResult `json:"file_results"`
}

// Aggregate builds a report from ordered per-file results. Counts are sums
// over the set of results, so they are independent of processing order.
func Aggregate(results []FileResult, durationSeconds float64) *Report {
	summary := Summary{
		FilesAnalyzed: len(results),
		PerSeverityCounts: map[string]int{
			SevLow.String():      0,
			SevMedium.String():   0,
			SevHigh.String():     0,
			SevCritical.String(): 0,
		},
		DurationSeconds: durationSeconds,
	}
	for i := range results {
		summary.TotalLOC += results[i].LinesOfCode
		summary.TotalIssues += len(results[i].Issues)
		for _, issue := range results[i].Issues {
			summary.PerSeverityCounts[issue.Severity.String()]++
		}
	}
	return &Report{Summary: summary, FileResults: results}
}
