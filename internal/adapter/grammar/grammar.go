// Package grammar is the grammar-family adapter: it drives compiled
// tree-sitter grammars and converts their concrete syntax trees into the
// unified model. The underlying parsers are error-tolerant, so invalid input
// usually yields a best-effort partial tree instead of a degenerate one.
package grammar

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"loupe/internal/adapter"
	"loupe/internal/lang"
	"loupe/internal/source"
	"loupe/internal/tree"
)

// Adapter adapts one language through its tree-sitter grammar. A tree-sitter
// parser is not safe for concurrent use, so instances are pooled; everything
// else is read-only after New.
type Adapter struct {
	language lang.Language
	kinds    map[string]tree.Kind
	parsers  sync.Pool
}

// New loads the grammar for a language. Unknown languages are a construction
// error, never a per-file one.
func New(l lang.Language) (*Adapter, error) {
	get, ok := grammars[l]
	if !ok {
		return nil, fmt.Errorf("no grammar wired for language %q", l)
	}
	ts := get()
	return &Adapter{
		language: l,
		kinds:    kindTables[l],
		parsers: sync.Pool{New: func() any {
			p := sitter.NewParser()
			p.SetLanguage(ts)
			return p
		}},
	}, nil
}

// Language implements adapter.Adapter.
func (a *Adapter) Language() lang.Language { return a.language }

// Adapt parses the file and converts every named grammar node. Anonymous
// nodes are lexical punctuation, not constructs, and are not part of the
// unified tree; ERROR nodes come through as Unknown so partial structure
// survives invalid input.
func (a *Adapter) Adapt(ctx context.Context, file *source.File) *tree.Tree {
	parser := a.parsers.Get().(*sitter.Parser)
	defer a.parsers.Put(parser)

	parsed, err := parser.ParseCtx(ctx, nil, file.Content)
	if err != nil || parsed == nil {
		msg := "no syntax tree produced"
		if err != nil {
			msg = err.Error()
		}
		return tree.NewDegenerate(string(a.language), file, msg)
	}
	defer parsed.Close()

	root := a.convert(parsed.RootNode(), file.Content, false)
	if root == nil {
		return tree.NewDegenerate(string(a.language), file, "empty syntax tree")
	}
	return tree.New(root, string(a.language), file)
}

func (a *Adapter) convert(n *sitter.Node, content []byte, inClass bool) *tree.Node {
	if n == nil {
		return nil
	}

	node := &tree.Node{
		Kind: a.kindOf(n, inClass),
		Name: a.nameOf(n, content),
		Span: spanOf(n),
	}
	node.SetMeta(adapter.MetaNative, n.Type())

	childInClass := inClass || node.Kind == tree.KindClass
	count := int(n.NamedChildCount())
	if count > 0 {
		node.Children = make([]*tree.Node, 0, count)
		for i := 0; i < count; i++ {
			if c := a.convert(n.NamedChild(i), content, childInClass); c != nil {
				node.Children = append(node.Children, c)
			}
		}
	}
	return node
}

// kindOf applies the per-language table plus two refinements the tags alone
// cannot express: a function directly declared under a class body is a
// method, and a function whose first token is `async` is an async function.
func (a *Adapter) kindOf(n *sitter.Node, inClass bool) tree.Kind {
	kind, ok := a.kinds[n.Type()]
	if !ok {
		return tree.KindUnknown
	}
	if kind == tree.KindFunction {
		if isAsync(n) {
			return tree.KindAsyncFunction
		}
		if inClass && a.language == lang.Python {
			return tree.KindMethod
		}
	}
	return kind
}

// isAsync checks the leading anonymous token of a function node.
func isAsync(n *sitter.Node) bool {
	if n.ChildCount() == 0 {
		return false
	}
	first := n.Child(0)
	return first != nil && first.Type() == "async"
}

// nameOf prefers the grammar's `name` field; otherwise the first immediate
// identifier-like named child wins. No name is valid.
func (a *Adapter) nameOf(n *sitter.Node, content []byte) string {
	if named := n.ChildByFieldName("name"); named != nil {
		return named.Content(content)
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c != nil && identifierLike(c.Type()) {
			return c.Content(content)
		}
	}
	return ""
}

func identifierLike(tag string) bool {
	return strings.Contains(tag, "identifier") || tag == "constant" || tag == "dotted_name"
}

// spanOf converts tree-sitter points (0-based rows, byte columns, exclusive
// end) into the unified 1-based-line convention. This is the only place the
// grammar family's offset semantics leak.
func spanOf(n *sitter.Node) tree.Span {
	start := n.StartPoint()
	end := n.EndPoint()
	return tree.Span{
		LineStart: start.Row + 1,
		LineEnd:   end.Row + 1,
		ColStart:  start.Column,
		ColEnd:    end.Column,
	}
}
