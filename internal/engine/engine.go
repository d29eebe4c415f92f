// Package engine orchestrates the analysis pipeline for a path:
// discover -> per file (read -> detect language -> adapt -> run analyzers ->
// filter by severity) -> aggregate.
//
// The per-file stage is a total function: read errors, unsupported
// languages, adapt failures and analyzer panics are all converted into
// "this file contributes no result" and never abort the run.
package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"loupe/internal/adapter"
	"loupe/internal/cache"
	"loupe/internal/diag"
	"loupe/internal/lang"
	"loupe/internal/observ"
	"loupe/internal/rules"
	"loupe/internal/source"
	"loupe/internal/tree"
)

// DefaultFileTimeout bounds one file's parse+analyze when the engine runs
// files in parallel. A timeout is treated exactly like a parse failure:
// skip and continue.
const DefaultFileTimeout = 30 * time.Second

// Config is the engine's fixed, run-scoped configuration.
type Config struct {
	// Threshold drops issues below this severity.
	Threshold diag.Severity
	// Exclude extends (never replaces) the default exclude set.
	Exclude []string
	// Jobs limits parallel file processing; 0 means GOMAXPROCS.
	Jobs int
	// FileTimeout bounds one file; 0 selects DefaultFileTimeout.
	FileTimeout time.Duration
	// Cache, when non-nil, short-circuits unchanged files.
	Cache *cache.Cache
	// Fingerprint folds the rule configuration into cache keys.
	Fingerprint string
	// Timer, when non-nil, records phase timings.
	Timer *observ.Timer
}

// Engine holds the language registry, the adapter per structural language
// and the ordered analyzer lists. Everything is read-only after New and
// safe to share across concurrent runs.
type Engine struct {
	reg           *lang.Registry
	adapters      map[lang.Language]adapter.Adapter
	analyzers     []rules.Analyzer
	lineAnalyzers []rules.LineAnalyzer
	cfg           Config
}

// New validates the configuration and builds an engine. This is the only
// point where the engine fails synchronously.
func New(reg *lang.Registry, adapters map[lang.Language]adapter.Adapter,
	analyzers []rules.Analyzer, lineAnalyzers []rules.LineAnalyzer, cfg Config) (*Engine, error) {
	if reg == nil {
		return nil, fmt.Errorf("engine: nil language registry")
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("engine: negative jobs %d", cfg.Jobs)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}
	if cfg.FileTimeout <= 0 {
		cfg.FileTimeout = DefaultFileTimeout
	}
	return &Engine{
		reg:           reg,
		adapters:      adapters,
		analyzers:     analyzers,
		lineAnalyzers: lineAnalyzers,
		cfg:           cfg,
	}, nil
}

// AnalyzePath runs the full pipeline over a file or directory. It returns an
// error only when the root path itself cannot be inspected; every per-file
// failure is recovered locally, so a run with isolated failures still
// succeeds with a smaller effective file count.
func (e *Engine) AnalyzePath(ctx context.Context, path string) (*diag.Report, error) {
	started := time.Now()

	var discoverIdx, analyzeIdx int
	if e.cfg.Timer != nil {
		discoverIdx = e.cfg.Timer.Begin("discover")
	}
	files, err := e.discover(path)
	if err != nil {
		return nil, err
	}
	if e.cfg.Timer != nil {
		e.cfg.Timer.End(discoverIdx, fmt.Sprintf("%d files", len(files)))
		analyzeIdx = e.cfg.Timer.Begin("analyze")
	}

	// One result slot per file; a nil slot means the file was skipped.
	// Indexes are unique per goroutine, so no mutex is needed.
	results := make([]*diag.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.cfg.Jobs, max(len(files), 1)))

	for i, filePath := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = e.analyzeFile(gctx, filePath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := make([]diag.FileResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			kept = append(kept, *r)
		}
	}

	var aggregateIdx int
	if e.cfg.Timer != nil {
		e.cfg.Timer.End(analyzeIdx, fmt.Sprintf("%d analyzed", len(kept)))
		aggregateIdx = e.cfg.Timer.Begin("aggregate")
	}
	report := diag.Aggregate(kept, time.Since(started).Seconds())
	if e.cfg.Timer != nil {
		e.cfg.Timer.End(aggregateIdx, "")
	}
	return report, nil
}

// analyzeFile is the per-file stage. It never returns an error and never
// panics; a nil result means the file contributes nothing.
func (e *Engine) analyzeFile(ctx context.Context, path string) *diag.FileResult {
	started := time.Now()

	file, err := source.Load(path)
	if err != nil {
		// IOFailure: file unreadable or vanished mid-scan. Drop and continue.
		return nil
	}

	language := e.reg.Detect(path, file.Content)
	if language == lang.Unknown {
		// UnsupportedLanguage: silently excluded, not an error.
		return nil
	}

	if e.cfg.Cache != nil {
		key := cache.Key(file.Hash, e.cfg.Fingerprint)
		if cached, ok, err := e.cfg.Cache.Get(key); err == nil && ok {
			return &cached
		}
	}

	fctx, cancel := context.WithTimeout(ctx, e.cfg.FileTimeout)
	defer cancel()

	info, _ := e.reg.Info(language)
	var issues []diag.Issue
	if info.Family == lang.FamilyDeclarative {
		issues = e.runLineAnalyzers(path, file.Content)
	} else {
		issues = e.runStructural(fctx, language, file)
	}
	if fctx.Err() != nil {
		// Timeout or cancellation counts as a parse/analyze failure.
		return nil
	}

	issues = filterBySeverity(issues, e.cfg.Threshold)
	diag.SortIssues(issues)

	result := &diag.FileResult{
		FilePath:    file.Path,
		Issues:      issues,
		LinesOfCode: e.reg.CountLOC(language, file.Lines()),
		DurationMS:  float64(time.Since(started)) / float64(time.Millisecond),
		Language:    string(language),
	}

	if e.cfg.Cache != nil {
		key := cache.Key(file.Hash, e.cfg.Fingerprint)
		_ = e.cfg.Cache.Put(key, *result) // a failed write only costs a future miss
	}
	return result
}

// runStructural adapts the file and dispatches every registered structural
// analyzer over the tree, concatenating their issues in analyzer order.
func (e *Engine) runStructural(ctx context.Context, language lang.Language, file *source.File) []diag.Issue {
	ad, ok := e.adapters[language]
	if !ok {
		return nil
	}

	t := ad.Adapt(ctx, file)
	if t == nil {
		// Adapters must always return a tree; treat a broken one like a
		// parse failure rather than crashing the run.
		t = tree.NewDegenerate(string(language), file, "adapter returned no tree")
	}

	var issues []diag.Issue
	for _, a := range e.analyzers {
		issues = append(issues, e.runAnalyzer(a, t, file)...)
	}
	return issues
}

// runAnalyzer isolates one (file, analyzer) pair: a panicking rule loses its
// own findings for this file, the engine continues with the remaining
// analyzers and files.
func (e *Engine) runAnalyzer(a rules.Analyzer, t *tree.Tree, file *source.File) (issues []diag.Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
		}
	}()
	return a.Analyze(t, file.Path, file.Content)
}

func (e *Engine) runLineAnalyzers(path string, content []byte) []diag.Issue {
	var issues []diag.Issue
	for _, a := range e.lineAnalyzers {
		issues = append(issues, e.runLineAnalyzer(a, path, content)...)
	}
	return issues
}

func (e *Engine) runLineAnalyzer(a rules.LineAnalyzer, path string, content []byte) (issues []diag.Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
		}
	}()
	return a.AnalyzeLines(path, content)
}

// filterBySeverity retains an issue iff its severity rank is at least the
// threshold's. Raising the threshold can only shrink the retained set.
func filterBySeverity(issues []diag.Issue, threshold diag.Severity) []diag.Issue {
	if threshold == diag.SevLow {
		return issues
	}
	kept := issues[:0]
	for _, issue := range issues {
		if issue.Severity >= threshold {
			kept = append(kept, issue)
		}
	}
	return kept
}

// statRoot distinguishes "root missing" (a real error) from per-file trouble.
func statRoot(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	return info, nil
}
