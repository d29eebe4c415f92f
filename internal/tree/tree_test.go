package tree

import (
	"testing"

	"loupe/internal/source"
)

// buildSample builds:
//
//	root (Unknown)
//	├── f (Function)
//	│   ├── if (Conditional)
//	│   │   └── call (Call)
//	│   └── return (Return)
//	└── C (Class)
//	    └── m (Method)
func buildSample() *Tree {
	call := &Node{Kind: KindCall, Name: "run", Span: Span{LineStart: 3, LineEnd: 3, ColStart: 8, ColEnd: 13}}
	cond := &Node{Kind: KindConditional, Span: Span{LineStart: 2, LineEnd: 3}, Children: []*Node{call}}
	ret := &Node{Kind: KindReturn, Span: Span{LineStart: 4, LineEnd: 4}}
	fn := &Node{Kind: KindFunction, Name: "f", Span: Span{LineStart: 1, LineEnd: 4}, Children: []*Node{cond, ret}}
	meth := &Node{Kind: KindMethod, Name: "m", Span: Span{LineStart: 6, LineEnd: 7}}
	cls := &Node{Kind: KindClass, Name: "C", Span: Span{LineStart: 5, LineEnd: 7}, Children: []*Node{meth}}
	root := &Node{Kind: KindUnknown, Span: Span{LineStart: 1, LineEnd: 7}, Children: []*Node{fn, cls}}
	file := source.NewVirtual("sample", []byte("l1\nl2\nl3\nl4\nl5\nl6\nl7\n"))
	return New(root, "test", file)
}

func TestWalk_PreOrderExactlyOnce(t *testing.T) {
	tr := buildSample()

	var kinds []Kind
	seen := map[*Node]int{}
	for n := range tr.Walk() {
		kinds = append(kinds, n.Kind)
		seen[n]++
	}

	expected := []Kind{
		KindUnknown, KindFunction, KindConditional, KindCall,
		KindReturn, KindClass, KindMethod,
	}
	if len(kinds) != len(expected) {
		t.Fatalf("visited %d nodes, want %d", len(kinds), len(expected))
	}
	for i, k := range expected {
		if kinds[i] != k {
			t.Errorf("position %d: got %s, want %s", i, kinds[i], k)
		}
	}
	for n, count := range seen {
		if count != 1 {
			t.Errorf("node %s visited %d times", n.Kind, count)
		}
	}
}

func TestWalk_Restartable(t *testing.T) {
	tr := buildSample()
	walk := tr.Walk()

	count := func() int {
		n := 0
		for range walk {
			n++
		}
		return n
	}
	first, second := count(), count()
	if first != second || first != 7 {
		t.Errorf("restarted walk yielded %d then %d nodes, want 7 both times", first, second)
	}
}

func TestWalk_EarlyStop(t *testing.T) {
	tr := buildSample()
	n := 0
	for range tr.Walk() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("stopped after %d nodes, want 3", n)
	}
}

func TestWalkStack_Ancestors(t *testing.T) {
	tr := buildSample()
	for n, ancestors := range tr.WalkStack() {
		if n.Kind != KindCall {
			continue
		}
		if len(ancestors) != 3 {
			t.Fatalf("call node has %d ancestors, want 3", len(ancestors))
		}
		want := []Kind{KindUnknown, KindFunction, KindConditional}
		for i, k := range want {
			if ancestors[i].Kind != k {
				t.Errorf("ancestor %d: got %s, want %s", i, ancestors[i].Kind, k)
			}
		}
	}
}

func TestFunctions_FiltersAndOrders(t *testing.T) {
	tr := buildSample()
	var names []string
	for fn := range tr.Functions() {
		names = append(names, fn.Name)
	}
	if len(names) != 2 || names[0] != "f" || names[1] != "m" {
		t.Errorf("Functions() = %v, want [f m]", names)
	}
}

func TestTextOf_MatchesSpan(t *testing.T) {
	file := source.NewVirtual("t.py", []byte("def f():\n    return 1\n"))
	fn := &Node{Kind: KindFunction, Name: "f", Span: Span{LineStart: 1, LineEnd: 2, ColStart: 0, ColEnd: 12}}
	tr := New(fn, "python", file)
	if got := tr.TextOf(fn); got != "def f():\n    return 1" {
		t.Errorf("TextOf = %q", got)
	}
}

func TestNewDegenerate(t *testing.T) {
	file := source.NewVirtual("broken.py", []byte("def f(:\n"))
	tr := NewDegenerate("python", file, "syntax error at line 1")

	if !tr.Degenerate() {
		t.Fatal("expected degenerate tree")
	}
	root := tr.Root()
	if root.Kind != KindUnknown || len(root.Children) != 0 {
		t.Errorf("root = %s with %d children, want unknown leaf", root.Kind, len(root.Children))
	}
	if got := root.Meta(MetaError); got != "syntax error at line 1" {
		t.Errorf("error metadata = %q", got)
	}
	if root.Span.LineStart != 1 || root.Span.LineEnd != file.LineCount() {
		t.Errorf("span %v does not cover the file", root.Span)
	}

	n := 0
	for range tr.Walk() {
		n++
	}
	if n != 1 {
		t.Errorf("degenerate walk yielded %d nodes, want 1", n)
	}
}

func TestKind_Strings(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "unknown"},
		{KindFunction, "function"},
		{KindAsyncFunction, "async_function"},
		{KindMethod, "method"},
		{KindClass, "class"},
		{KindConditional, "conditional"},
		{KindLoop, "loop"},
		{KindCall, "call"},
		{KindReturn, "return"},
		{KindImport, "import"},
		{KindTry, "try"},
		{KindCatch, "catch"},
		{KindThrow, "throw"},
		{KindVariableBinding, "variable_binding"},
		{KindComment, "comment"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestKind_IsFunction(t *testing.T) {
	for _, k := range []Kind{KindFunction, KindAsyncFunction, KindMethod} {
		if !k.IsFunction() {
			t.Errorf("%s.IsFunction() = false", k)
		}
	}
	for _, k := range []Kind{KindUnknown, KindClass, KindCall, KindLoop} {
		if k.IsFunction() {
			t.Errorf("%s.IsFunction() = true", k)
		}
	}
}

func TestSpan_LineCount(t *testing.T) {
	s := Span{LineStart: 3, LineEnd: 7}
	if got := s.LineCount(); got != 5 {
		t.Errorf("LineCount() = %d, want 5", got)
	}
	single := Span{LineStart: 4, LineEnd: 4}
	if got := single.LineCount(); got != 1 {
		t.Errorf("single-line LineCount() = %d, want 1", got)
	}
}
