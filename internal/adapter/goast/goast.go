// Package goast is the reflective-family adapter for Go sources: it walks
// the tree go/parser already exposes and re-tags every node through a fixed
// kind mapping.
package goast

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"loupe/internal/adapter"
	"loupe/internal/lang"
	"loupe/internal/source"
	"loupe/internal/tree"
)

// Adapter adapts Go files. The zero value is not usable; call New.
type Adapter struct{}

// New returns the Go adapter. It holds no per-file state and may be shared.
func New() *Adapter { return &Adapter{} }

// Language implements adapter.Adapter.
func (a *Adapter) Language() lang.Language { return lang.Go }

// Adapt parses the file and converts the go/ast tree. On a parse error the
// whole file degrades to the one-node Unknown tree: the reflective family
// aborts on the first unrecoverable syntax error rather than guessing at
// partial structure.
func (a *Adapter) Adapt(_ context.Context, file *source.File) *tree.Tree {
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file.Path, file.Content, parser.ParseComments)
	if err != nil || parsed == nil {
		msg := "no syntax tree produced"
		if err != nil {
			msg = err.Error()
		}
		return tree.NewDegenerate(string(lang.Go), file, msg)
	}

	root := convert(fset, parsed)
	return tree.New(root, string(lang.Go), file)
}

// convert rebuilds the go/ast structure as unified nodes using the push/pop
// events of ast.Inspect, so children keep their original source order.
func convert(fset *token.FileSet, parsed *ast.File) *tree.Node {
	var root *tree.Node
	stack := make([]*tree.Node, 0, 32)

	ast.Inspect(parsed, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}

		node := newNode(fset, n)
		if len(stack) == 0 {
			root = node
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
		return true
	})

	if root != nil {
		root.Name = parsed.Name.Name
	}
	return root
}

func newNode(fset *token.FileSet, n ast.Node) *tree.Node {
	start := fset.Position(n.Pos())
	end := fset.Position(n.End())

	node := &tree.Node{
		Kind: kindOf(n),
		Name: nameOf(n),
		Span: tree.Span{
			LineStart: uint32(start.Line),   // #nosec G115 -- go/token lines fit uint32
			LineEnd:   uint32(end.Line),     // #nosec G115
			ColStart:  uint32(start.Column - 1), // #nosec G115 -- go/token columns are 1-based bytes
			ColEnd:    uint32(end.Column - 1),   // #nosec G115
		},
	}
	node.SetMeta(adapter.MetaNative, fmt.Sprintf("%T", n))
	return node
}

// kindOf is the fixed lookup from native node classes to unified kinds.
// Go has no async functions, no exceptions: those kinds never appear here.
// Everything unmapped degrades to Unknown but is still emitted, so raw-text
// checks over Unknown subtrees keep working.
func kindOf(n ast.Node) tree.Kind {
	switch x := n.(type) {
	case *ast.FuncDecl:
		if x.Recv != nil {
			return tree.KindMethod
		}
		return tree.KindFunction
	case *ast.FuncLit:
		return tree.KindFunction
	case *ast.TypeSpec:
		return tree.KindClass
	case *ast.IfStmt, *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
		return tree.KindConditional
	case *ast.ForStmt, *ast.RangeStmt:
		return tree.KindLoop
	case *ast.CallExpr:
		return tree.KindCall
	case *ast.ReturnStmt:
		return tree.KindReturn
	case *ast.ImportSpec:
		return tree.KindImport
	case *ast.ValueSpec:
		return tree.KindVariableBinding
	case *ast.AssignStmt:
		if x.Tok == token.DEFINE {
			return tree.KindVariableBinding
		}
		return tree.KindUnknown
	case *ast.Comment, *ast.CommentGroup:
		return tree.KindComment
	}
	return tree.KindUnknown
}

// nameOf extracts the declared name where the native node carries one.
// Absence is valid, not an error.
func nameOf(n ast.Node) string {
	switch x := n.(type) {
	case *ast.FuncDecl:
		return x.Name.Name
	case *ast.TypeSpec:
		return x.Name.Name
	case *ast.Ident:
		return x.Name
	case *ast.ValueSpec:
		if len(x.Names) > 0 {
			return x.Names[0].Name
		}
	case *ast.ImportSpec:
		return x.Path.Value
	case *ast.CallExpr:
		return calleeName(x.Fun)
	}
	return ""
}

// calleeName renders the called expression for plain and selector calls.
func calleeName(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.SelectorExpr:
		if base := calleeName(x.X); base != "" {
			return base + "." + x.Sel.Name
		}
		return x.Sel.Name
	}
	return ""
}
