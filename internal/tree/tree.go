package tree

import (
	"iter"

	"loupe/internal/source"
)

// MetaError is the node metadata key carrying a parse-failure message on a
// degenerate Unknown root.
const MetaError = "error"

// Tree is the language-agnostic syntax tree every rule analyzer is written
// against. It is immutable once constructed: analyzers only read it. The
// original file is retained so that TextOf can slice without rescanning and
// analyzers can fall back to raw text when structure is missing.
type Tree struct {
	root     *Node
	language string
	file     *source.File
}

// New wraps an adapted root node. The file must be the one the spans were
// produced against.
func New(root *Node, language string, file *source.File) *Tree {
	return &Tree{root: root, language: language, file: file}
}

// NewDegenerate builds the one-node failure tree of an adapter that could not
// produce any structure: an Unknown root with no children, a span covering
// the whole file, and the error message under MetaError. Analyzers treat it
// as "no structural findings possible", never as a fatal condition.
func NewDegenerate(language string, file *source.File, errMsg string) *Tree {
	lines := file.LineCount()
	span := Span{LineStart: 1, LineEnd: 1}
	if lines > 0 {
		span.LineEnd = lines
		last := file.Line(lines)
		span.ColEnd = uint32(len(last)) // #nosec G115 -- a single line fits uint32
	}
	root := &Node{Kind: KindUnknown, Span: span}
	root.SetMeta(MetaError, errMsg)
	return &Tree{root: root, language: language, file: file}
}

// Root returns the root node. Callers must not mutate the tree.
func (t *Tree) Root() *Node { return t.root }

// Language returns the language tag the adapter parsed the file as.
func (t *Tree) Language() string { return t.language }

// File returns the underlying source file.
func (t *Tree) File() *source.File { return t.file }

// Source returns the full normalized source text.
func (t *Tree) Source() []byte { return t.file.Content }

// Degenerate reports whether the tree is the childless Unknown-root failure
// tree produced by NewDegenerate.
func (t *Tree) Degenerate() bool {
	return t.root.Kind == KindUnknown && len(t.root.Children) == 0 && t.root.Meta(MetaError) != ""
}

// Walk returns a lazy pre-order, depth-first traversal. Every node reachable
// from the root is yielded exactly once, parents strictly before descendants,
// children in source order. Each call starts a fresh traversal; the iterator
// keeps its own explicit stack and never mutates the tree.
func (t *Tree) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if t.root == nil {
			return
		}
		stack := []*Node{t.root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			// Push children in reverse so the leftmost is visited first.
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		}
	}
}

// WalkStack is Walk with the ancestor chain of each node as explicit context,
// root first. The yielded slice is reused between iterations; callers that
// keep it must copy.
func (t *Tree) WalkStack() iter.Seq2[*Node, []*Node] {
	return func(yield func(*Node, []*Node) bool) {
		if t.root == nil {
			return
		}
		var ancestors []*Node
		var visit func(n *Node) bool
		visit = func(n *Node) bool {
			if !yield(n, ancestors) {
				return false
			}
			ancestors = append(ancestors, n)
			for _, c := range n.Children {
				if !visit(c) {
					return false
				}
			}
			ancestors = ancestors[:len(ancestors)-1]
			return true
		}
		visit(t.root)
	}
}

// Functions yields, in document order and without duplicates, exactly the
// nodes whose kind is Function, AsyncFunction, or Method, nested ones
// included.
func (t *Tree) Functions() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := range t.Walk() {
			if n.Kind.IsFunction() {
				if !yield(n) {
					return
				}
			}
		}
	}
}

// TextOf returns exactly the slice of the source bounded by the node's span.
// It is O(1) amortized: the file's line index was built once at load, so no
// call rescans the content.
func (t *Tree) TextOf(n *Node) string {
	return t.file.Slice(n.Span.LineStart, n.Span.ColStart, n.Span.LineEnd, n.Span.ColEnd)
}
