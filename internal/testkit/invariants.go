package testkit

import (
	"fmt"

	"loupe/internal/tree"
)

// CheckTreeInvariants runs the structural invariants every adapted tree must
// satisfy:
//  1. every node reachable from the root is visited exactly once by Walk
//  2. a parent is visited strictly before its descendants
//  3. span.LineStart <= span.LineEnd, and ColStart <= ColEnd on a single line
//  4. child spans do not start before their parent's span
func CheckTreeInvariants(t *tree.Tree) error {
	if t == nil || t.Root() == nil {
		return fmt.Errorf("nil tree or root")
	}

	seen := make(map[*tree.Node]bool)
	for n, ancestors := range t.WalkStack() {
		if seen[n] {
			return fmt.Errorf("node %s %q visited twice", n.Kind, n.Name)
		}
		seen[n] = true

		for _, a := range ancestors {
			if !seen[a] {
				return fmt.Errorf("ancestor %s %q visited after descendant %s %q", a.Kind, a.Name, n.Kind, n.Name)
			}
		}

		sp := n.Span
		if sp.LineEnd < sp.LineStart {
			return fmt.Errorf("node %s %q: span end line before start: %s", n.Kind, n.Name, sp)
		}
		if sp.LineStart == sp.LineEnd && sp.ColEnd < sp.ColStart {
			return fmt.Errorf("node %s %q: single-line span with end col before start: %s", n.Kind, n.Name, sp)
		}
		if len(ancestors) > 0 {
			parent := ancestors[len(ancestors)-1]
			if sp.LineStart < parent.Span.LineStart {
				return fmt.Errorf("node %s %q starts before parent %s: %s < %s",
					n.Kind, n.Name, parent.Kind, sp, parent.Span)
			}
		}
	}

	// A second pass must see the same node set: Walk is restartable.
	count := 0
	for range t.Walk() {
		count++
	}
	if count != len(seen) {
		return fmt.Errorf("restarted walk visited %d nodes, first walk visited %d", count, len(seen))
	}
	return nil
}
