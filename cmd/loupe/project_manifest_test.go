package main

import (
	"os"
	"path/filepath"
	"testing"

	"loupe/internal/rules"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "loupe.toml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	p := writeManifest(t, dir, `
[analysis]
severity = "medium"
exclude = ["gen", "migrations"]
jobs = 2
cache = false

[rules.longfunc]
max_lines = 80

[rules.nestdepth]
max_depth = 6
`)

	cfg, err := loadProjectConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.Severity != "medium" {
		t.Errorf("severity = %q", cfg.Analysis.Severity)
	}
	if len(cfg.Analysis.Exclude) != 2 || cfg.Analysis.Exclude[0] != "gen" {
		t.Errorf("exclude = %v", cfg.Analysis.Exclude)
	}
	if cfg.Analysis.Jobs != 2 {
		t.Errorf("jobs = %d", cfg.Analysis.Jobs)
	}
	if cfg.Analysis.Cache == nil || *cfg.Analysis.Cache {
		t.Error("cache = false not honored")
	}
	if cfg.Rules.LongFunc.MaxLines != 80 {
		t.Errorf("max_lines = %d", cfg.Rules.LongFunc.MaxLines)
	}
	if cfg.Rules.NestDepth.MaxDepth != 6 {
		t.Errorf("max_depth = %d", cfg.Rules.NestDepth.MaxDepth)
	}
}

func TestLoadProjectConfig_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	p := writeManifest(t, dir, "[analysis]\nseverity = \"high\"\n")

	cfg, err := loadProjectConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.Severity != "high" {
		t.Errorf("severity = %q", cfg.Analysis.Severity)
	}
	if cfg.Rules.LongFunc.MaxLines != rules.DefaultMaxFunctionLines {
		t.Errorf("max_lines = %d, want default", cfg.Rules.LongFunc.MaxLines)
	}
	if cfg.Analysis.Cache != nil {
		t.Error("unset cache should stay nil (enabled)")
	}
}

func TestLoadProjectConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "bad toml", content: "analysis = [\n"},
		{name: "negative max_lines", content: "[rules.longfunc]\nmax_lines = -1\n"},
		{name: "negative max_depth", content: "[rules.nestdepth]\nmax_depth = -3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := filepath.Join(dir, tt.name)
			if err := os.MkdirAll(sub, 0o755); err != nil {
				t.Fatal(err)
			}
			p := writeManifest(t, sub, tt.content)
			if _, err := loadProjectConfig(p); err == nil {
				t.Error("invalid manifest accepted")
			}
		})
	}
}

func TestFindLoupeToml_WalksParents(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[analysis]\nseverity = \"low\"\n")
	nested := filepath.Join(root, "services", "api")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, ok, err := findLoupeToml(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if found != filepath.Join(root, "loupe.toml") {
		t.Errorf("found %q", found)
	}
}

func TestLoadProjectManifest_AbsenceIsNotAnError(t *testing.T) {
	_, ok, err := loadProjectManifest(t.TempDir())
	if err != nil {
		t.Fatalf("absence reported as error: %v", err)
	}
	if ok {
		t.Fatal("phantom manifest found")
	}
}
