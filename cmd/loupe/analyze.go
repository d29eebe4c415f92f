package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loupe/internal/cache"
	"loupe/internal/diag"
	"loupe/internal/diagfmt"
	"loupe/internal/engine"
	"loupe/internal/lang"
	"loupe/internal/observ"
	"loupe/internal/rules"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <file|directory>",
	Short: "Analyze source files and report findings",
	Long:  `Analyze a file or every supported file under a directory, filtered by severity`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("severity", "", "minimum severity to report (low|medium|high|critical)")
	analyzeCmd.Flags().StringArray("exclude", nil, "extra exclude pattern (repeatable; extends the default set)")
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	analyzeCmd.Flags().Bool("no-cache", false, "disable the per-file result cache")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	severityFlag, err := cmd.Flags().GetString("severity")
	if err != nil {
		return fmt.Errorf("failed to get severity flag: %w", err)
	}
	excludeFlag, err := cmd.Flags().GetStringArray("exclude")
	if err != nil {
		return fmt.Errorf("failed to get exclude flag: %w", err)
	}
	jobsFlag, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	// Manifest first, flags win.
	manifestStart := path
	if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
		manifestStart = filepath.Dir(path)
	}
	cfg := defaultProjectConfig()
	if manifest, ok, mErr := loadProjectManifest(manifestStart); mErr != nil {
		return mErr
	} else if ok {
		cfg = manifest.Config
	}

	severityStr := cfg.Analysis.Severity
	if severityFlag != "" {
		severityStr = severityFlag
	}
	threshold, err := diag.ParseSeverity(severityStr)
	if err != nil {
		return err
	}

	jobs := cfg.Analysis.Jobs
	if jobsFlag != 0 {
		jobs = jobsFlag
	}
	exclude := append(append([]string{}, cfg.Analysis.Exclude...), excludeFlag...)

	cacheEnabled := cfg.Analysis.Cache == nil || *cfg.Analysis.Cache
	var resultCache *cache.Cache
	if cacheEnabled && !noCache {
		// A cache that fails to open is a degraded run, not a failed one.
		resultCache, _ = cache.Open("loupe")
	}

	reg := lang.NewRegistry()
	adapters, err := engine.DefaultAdapters(reg)
	if err != nil {
		return err
	}
	analyzers := []rules.Analyzer{
		rules.NewSQLInject(reg),
		rules.NewLongFunc(cfg.Rules.LongFunc.MaxLines),
		rules.NewNestDepth(cfg.Rules.NestDepth.MaxDepth),
	}

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	eng, err := engine.New(reg, adapters, analyzers, rules.DefaultLineAnalyzers(), engine.Config{
		Threshold:   threshold,
		Exclude:     exclude,
		Jobs:        jobs,
		Cache:       resultCache,
		Fingerprint: configFingerprint(threshold, cfg),
		Timer:       timer,
	})
	if err != nil {
		return err
	}

	report, err := eng.AnalyzePath(cmd.Context(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := diagfmt.JSON(out, report); err != nil {
			return err
		}
	default:
		diagfmt.Pretty(out, report, diagfmt.PrettyOpts{
			Color: colorEnabled(cmd, os.Stdout),
			Quiet: quiet,
		})
	}

	if showTimings && timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if report.Summary.PerSeverityCounts[diag.SevHigh.String()] > 0 ||
		report.Summary.PerSeverityCounts[diag.SevCritical.String()] > 0 {
		exitCode = 1
	}
	return nil
}

// configFingerprint folds everything that changes analysis output into the
// cache key, so a config edit invalidates cached results.
func configFingerprint(threshold diag.Severity, cfg projectConfig) string {
	return fmt.Sprintf("v1:sev=%s:long=%d:nest=%d",
		threshold, cfg.Rules.LongFunc.MaxLines, cfg.Rules.NestDepth.MaxDepth)
}
