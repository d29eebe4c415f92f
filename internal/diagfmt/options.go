package diagfmt

// PrettyOpts configures human-readable report output.
type PrettyOpts struct {
	Color bool
	// Quiet suppresses per-issue lines and prints only the summary.
	Quiet bool
}
