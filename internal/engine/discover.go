package engine

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// defaultExcludes are infrastructure, vendor and build directories no run
// should descend into. Caller-supplied patterns extend this set; they never
// replace it.
var defaultExcludes = []string{
	".git",
	".hg",
	".svn",
	".idea",
	".vscode",
	"node_modules",
	"vendor",
	"__pycache__",
	".venv",
	"venv",
	".tox",
	"dist",
	"build",
	"target",
	".terraform",
}

// discover enumerates supported files under the root in lexical path order,
// for reproducible reports. A single-file root bypasses the exclude rules:
// naming a file explicitly always wins.
func (e *Engine) discover(root string) ([]string, error) {
	info, err := statRoot(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if e.reg.IsSupported(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	excluded := make(map[string]struct{}, len(defaultExcludes)+len(e.cfg.Exclude))
	for _, d := range defaultExcludes {
		excluded[d] = struct{}{}
	}
	var patterns []string
	for _, p := range e.cfg.Exclude {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		excluded[p] = struct{}{}
		patterns = append(patterns, p)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A directory that vanished mid-scan is not fatal to the run.
			return nil
		}
		base := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := excluded[base]; skip || strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(patterns, base, path) {
			return nil
		}
		if e.reg.IsSupported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func matchesAny(patterns []string, base, path string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, path); ok {
			return true
		}
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}
