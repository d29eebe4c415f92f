package engine

import (
	"fmt"

	"loupe/internal/adapter"
	"loupe/internal/adapter/goast"
	"loupe/internal/adapter/grammar"
	"loupe/internal/lang"
	"loupe/internal/rules"
)

// DefaultAdapters wires one adapter per structural language in the registry:
// the reflective go/ast adapter for Go, a grammar adapter for everything
// tree-sitter covers. Grammar loading happens here, once per process.
func DefaultAdapters(reg *lang.Registry) (map[lang.Language]adapter.Adapter, error) {
	adapters := make(map[lang.Language]adapter.Adapter)
	for _, info := range reg.Languages() {
		switch info.Family {
		case lang.FamilyReflective:
			adapters[info.Lang] = goast.New()
		case lang.FamilyGrammar:
			a, err := grammar.New(info.Lang)
			if err != nil {
				return nil, fmt.Errorf("load grammar for %s: %w", info.Lang, err)
			}
			adapters[info.Lang] = a
		case lang.FamilyDeclarative:
			// Line-oriented analyzers handle these; no adapter.
		}
	}
	return adapters, nil
}

// NewDefault builds an engine with the default registry, adapters and rule
// sets. Most callers, the CLI included, start here.
func NewDefault(cfg Config) (*Engine, error) {
	reg := lang.NewRegistry()
	adapters, err := DefaultAdapters(reg)
	if err != nil {
		return nil, err
	}
	return New(reg, adapters, rules.DefaultAnalyzers(reg), rules.DefaultLineAnalyzers(), cfg)
}
