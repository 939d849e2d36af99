package tree

import "github.com/fsmlab/conform/pkg/trace"

// OutputNode is one node of an OutputTree: the output label of the edge
// that produced it (-1 at the root, which carries no incoming edge) and
// the FSM state reached by following that edge. Unlike TreeNode, a node
// here can spawn more than one child per step when the originating FSM
// is nondeterministic: one child per transition whose input matched.
type OutputNode struct {
	parent   *OutputNode
	children []*OutputNode
	output   int
	state    int
}

// NewOutputNode allocates a node reached from parent via the transition
// labeled output, landing in FSM state state. parent is nil for a root.
func NewOutputNode(parent *OutputNode, output, state int) *OutputNode {
	return &OutputNode{parent: parent, output: output, state: state}
}

// AddChild records child as one of n's children, produced by applying
// some input at n's state.
func (n *OutputNode) AddChild(child *OutputNode) { n.children = append(n.children, child) }

// Output returns the output label of the edge leading into n (-1 at the
// root).
func (n *OutputNode) Output() int { return n.output }

// State returns the FSM state n represents.
func (n *OutputNode) State() int { return n.state }

// Parent returns n's parent, or nil at the root.
func (n *OutputNode) Parent() *OutputNode { return n.parent }

// Children returns n's children.
func (n *OutputNode) Children() []*OutputNode { return n.children }

// IsLeaf reports whether n has no children: either the input trace was
// fully applied along this branch, or no transition matched the next
// input from n's state (the "longest matched prefix" stopping point).
func (n *OutputNode) IsLeaf() bool { return len(n.children) == 0 }

// OutputPath returns the sequence of output labels from the root to n,
// root-first, skipping the root's own -1 sentinel label.
func (n *OutputNode) OutputPath() trace.OutputTrace {
	var rev []int
	for cur := n; cur.parent != nil; cur = cur.parent {
		rev = append(rev, cur.output)
	}
	out := make(trace.OutputTrace, len(rev))
	for i, o := range rev {
		out[len(rev)-1-i] = o
	}
	return out
}

// OutputTree is the result of applying an input trace to an FSM state:
// rooted at the starting state, branching once per matching transition
// at every step, so a deterministic FSM produces a single path and a
// nondeterministic one produces every possible observed behavior.
type OutputTree struct {
	Root *OutputNode
}

// Leaves returns every leaf of t.
func (t *OutputTree) Leaves() []*OutputNode {
	var acc []*OutputNode
	var walk func(n *OutputNode)
	walk = func(n *OutputNode) {
		if n.IsLeaf() {
			acc = append(acc, n)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.Root)
	return acc
}

// Paths returns the output trace of every root-to-leaf path in t.
func (t *OutputTree) Paths() []trace.OutputTrace {
	leaves := t.Leaves()
	out := make([]trace.OutputTrace, len(leaves))
	for i, leaf := range leaves {
		out[i] = leaf.OutputPath()
	}
	return out
}

// Contains reports whether every root-to-leaf path of other also occurs
// as a root-to-leaf path of t: used to check that an expected
// (nondeterministic) output tree accounts for an observed one.
func (t *OutputTree) Contains(other *OutputTree) bool {
	own := map[string]bool{}
	for _, p := range t.Paths() {
		own[outputKey(p)] = true
	}
	for _, p := range other.Paths() {
		if !own[outputKey(p)] {
			return false
		}
	}
	return true
}

func outputKey(o trace.OutputTrace) string {
	b := make([]byte, 0, len(o)*2)
	for _, x := range o {
		b = append(b, byte(x>>8), byte(x))
		b = append(b, ',')
	}
	return string(b)
}
