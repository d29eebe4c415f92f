package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"loupe/internal/rules"
)

// projectManifest is an optional loupe.toml discovered by walking parent
// directories from the analyzed path, the same way the toolchain finds a
// project root.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Analysis analysisConfig `toml:"analysis"`
	Rules    rulesConfig    `toml:"rules"`
}

type analysisConfig struct {
	Severity string   `toml:"severity"`
	Exclude  []string `toml:"exclude"`
	Jobs     int      `toml:"jobs"`
	Cache    *bool    `toml:"cache"`
}

type rulesConfig struct {
	LongFunc  longFuncConfig  `toml:"longfunc"`
	NestDepth nestDepthConfig `toml:"nestdepth"`
}

type longFuncConfig struct {
	MaxLines int `toml:"max_lines"`
}

type nestDepthConfig struct {
	MaxDepth int `toml:"max_depth"`
}

func defaultProjectConfig() projectConfig {
	return projectConfig{
		Analysis: analysisConfig{Severity: "low"},
		Rules: rulesConfig{
			LongFunc:  longFuncConfig{MaxLines: rules.DefaultMaxFunctionLines},
			NestDepth: nestDepthConfig{MaxDepth: rules.DefaultMaxNestDepth},
		},
	}
}

func findLoupeToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "loupe.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest returns the manifest if one exists; absence is not an
// error, the defaults apply.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findLoupeToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	cfg := defaultProjectConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Rules.LongFunc.MaxLines < 0 {
		return projectConfig{}, fmt.Errorf("%s: rules.longfunc.max_lines must not be negative", path)
	}
	if cfg.Rules.NestDepth.MaxDepth < 0 {
		return projectConfig{}, fmt.Errorf("%s: rules.nestdepth.max_depth must not be negative", path)
	}
	return cfg, nil
}
