// Package adapter translates per-language native syntax trees into the
// unified tree model.
//
// Two families exist. The reflective family (goast) uses the host runtime's
// own parser and aborts to a degenerate Unknown tree on the first
// unrecoverable syntax error. The grammar family (grammar) drives compiled
// tree-sitter grammars, which are error-tolerant and return best-effort
// partial trees over invalid input. The asymmetry is intentional; analyzers
// may only assume that a Tree is always returned.
//
// Offset semantics are normalized here and nowhere else: both families emit
// 1-based lines and 0-based byte columns with half-open ends.
package adapter

import (
	"context"

	"loupe/internal/lang"
	"loupe/internal/source"
	"loupe/internal/tree"
)

// Adapter turns one language's native tree into a unified tree. An instance
// is stateless once its grammar or reflection tables are loaded and is safe
// to reuse across many files of the same language, concurrently.
type Adapter interface {
	Language() lang.Language

	// Adapt never fails: recoverable syntax errors degrade inside the
	// returned tree, unrecoverable ones yield the degenerate Unknown tree.
	Adapt(ctx context.Context, file *source.File) *tree.Tree
}

// MetaNative is the node metadata key carrying the original native node tag
// (the go/ast type name or the tree-sitter node type).
const MetaNative = "native"
