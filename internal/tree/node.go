package tree

import "fmt"

// Kind is the closed, language-agnostic vocabulary of structural roles.
// Adapters map native node classes onto it through fixed lookup tables;
// anything without a mapping degrades to KindUnknown but is still emitted.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindFunction
	KindAsyncFunction
	KindMethod
	KindClass
	KindConditional
	KindLoop
	KindCall
	KindReturn
	KindImport
	KindTry
	KindCatch
	KindThrow
	KindVariableBinding
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindAsyncFunction:
		return "async_function"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	case KindConditional:
		return "conditional"
	case KindLoop:
		return "loop"
	case KindCall:
		return "call"
	case KindReturn:
		return "return"
	case KindImport:
		return "import"
	case KindTry:
		return "try"
	case KindCatch:
		return "catch"
	case KindThrow:
		return "throw"
	case KindVariableBinding:
		return "variable_binding"
	case KindComment:
		return "comment"
	}
	return "unknown"
}

// IsFunction reports whether the kind denotes a callable definition.
func (k Kind) IsFunction() bool {
	return k == KindFunction || k == KindAsyncFunction || k == KindMethod
}

// Span locates a node in its file. Lines are 1-based, columns are 0-based
// byte offsets within the line, and the end is exclusive.
type Span struct {
	LineStart uint32
	LineEnd   uint32
	ColStart  uint32
	ColEnd    uint32
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.LineStart, s.ColStart, s.LineEnd, s.ColEnd)
}

// LineCount returns the number of source lines the span touches.
func (s Span) LineCount() uint32 {
	if s.LineEnd < s.LineStart {
		return 0
	}
	return s.LineEnd - s.LineStart + 1
}

// Node is one element of the unified tree. Children are exclusively owned:
// no back-pointers, no sharing, no cycles. Analyzers that need ancestry use
// Tree.WalkStack instead of stored parent links.
type Node struct {
	Kind     Kind
	Name     string
	Span     Span
	Children []*Node
	Metadata map[string]string
}

// Meta returns a metadata value, tolerating a nil map.
func (n *Node) Meta(key string) string {
	if n.Metadata == nil {
		return ""
	}
	return n.Metadata[key]
}

// SetMeta records a metadata value, allocating the map on first use.
func (n *Node) SetMeta(key, value string) {
	if n.Metadata == nil {
		n.Metadata = make(map[string]string, 2)
	}
	n.Metadata[key] = value
}
