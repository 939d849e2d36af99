// Package tree implements the tree-of-traces data structure used to
// accumulate and query the sets of input traces built by the test suite
// generators: state covers, transition covers, characterization sets and
// the final test suites themselves are all represented as trees whose
// root-to-leaf paths enumerate the traces.
//
// A Tree owns its root TreeNode; every TreeNode owns its outgoing
// TreeEdges and, through them, its children. Parent links are
// non-owning back-references used only for upward traversal (GetPath).
package tree

import "github.com/fsmlab/conform/pkg/trace"

// TreeEdge labels the input that leads from a TreeNode to its child.
type TreeEdge struct {
	input int
	child *TreeNode
}

// TreeNode is one node of a tree of traces. Each outgoing edge is labeled
// with an input code; the FSM is assumed observable, so a label uniquely
// identifies an edge among its siblings.
type TreeNode struct {
	parent   *TreeNode
	children []*TreeEdge
	index    map[int]*TreeEdge // child-index: input code -> edge, for O(1) lookup
}

func newNode(parent *TreeNode) *TreeNode {
	return &TreeNode{parent: parent, index: make(map[int]*TreeEdge)}
}

// Tree is a tree of traces rooted at Root.
type Tree struct {
	Root *TreeNode
}

// NewTree returns an empty tree (a tree containing only the empty trace).
func NewTree() *Tree {
	return &Tree{Root: newNode(nil)}
}

// IsLeaf reports whether n has no children.
func (n *TreeNode) IsLeaf() bool { return len(n.children) == 0 }

// Children returns n's outgoing edges.
func (n *TreeNode) Children() []*TreeEdge { return n.children }

// Input returns the edge's input label.
func (e *TreeEdge) Input() int { return e.input }

// Child returns the edge's target node.
func (e *TreeEdge) Child() *TreeNode { return e.child }

// getOrCreate returns the child reached by input x from n, creating it
// (and its edge) if it does not already exist. Matches the original's
// "adding an already-present label reuses the existing branch" rule.
func (n *TreeNode) getOrCreate(x int) *TreeNode {
	if e, ok := n.index[x]; ok {
		return e.child
	}
	child := newNode(n)
	e := &TreeEdge{input: x, child: child}
	n.children = append(n.children, e)
	n.index[x] = e
	return child
}

// addEdge inserts a pre-built subtree as the child reached via input x,
// if no such edge already exists.
func (n *TreeNode) addEdge(x int, child *TreeNode) {
	if _, ok := n.index[x]; ok {
		return
	}
	e := &TreeEdge{input: x, child: child}
	n.children = append(n.children, e)
	n.index[x] = e
	child.parent = n
}

// GetPath walks the parent chain from n back to the root and returns the
// sequence of input labels leading to n, root-first.
func (n *TreeNode) GetPath() trace.InputTrace {
	var rev []int
	cur := n
	for cur.parent != nil {
		for x, e := range cur.parent.index {
			if e.child == cur {
				rev = append(rev, x)
				break
			}
		}
		cur = cur.parent
	}
	out := make(trace.InputTrace, len(rev))
	for i, x := range rev {
		out[len(rev)-1-i] = x
	}
	return out
}

// calcLeaves recursively collects every leaf under n.
func (n *TreeNode) calcLeaves(acc *[]*TreeNode) {
	if n.IsLeaf() {
		*acc = append(*acc, n)
		return
	}
	for _, e := range n.children {
		e.child.calcLeaves(acc)
	}
}

// Leaves returns every leaf of the tree.
func (t *Tree) Leaves() []*TreeNode {
	var acc []*TreeNode
	t.Root.calcLeaves(&acc)
	return acc
}

// traverse depth-first collects root-to-leaf label sequences.
func (n *TreeNode) traverse(path []int, acc *[]trace.InputTrace) {
	if n.IsLeaf() {
		*acc = append(*acc, append(trace.InputTrace(nil), path...))
		return
	}
	for _, e := range n.children {
		n2 := append(path, e.input)
		e.child.traverse(n2, acc)
	}
}

// Traces returns every root-to-leaf trace in the tree.
func (t *Tree) Traces() []trace.InputTrace {
	var acc []trace.InputTrace
	t.Root.traverse(nil, &acc)
	return acc
}

// AddToRoot inserts tr as a path from the root, collapsing any prefix
// already shared with an existing path.
func (t *Tree) AddToRoot(tr trace.InputTrace) {
	n := t.Root
	for _, x := range tr {
		n = n.getOrCreate(x)
	}
}

// Add appends every trace in trs at every existing leaf (an empty tree's
// only leaf is its root), matching the original's semantics: "for every
// existing tree path, append each trace" (so the tree's total path count
// multiplies). Inner nodes get no new branches.
func (t *Tree) Add(trs []trace.InputTrace) {
	leaves := t.Leaves()
	if len(leaves) == 0 {
		for _, tr := range trs {
			t.AddToRoot(tr)
		}
		return
	}
	for _, leaf := range leaves {
		for _, tr := range trs {
			n := leaf
			for _, x := range tr {
				n = n.getOrCreate(x)
			}
		}
	}
}

// After performs a read-only traversal from n following tr; it returns the
// reached node, or nil if no matching edge exists at some step.
func (n *TreeNode) After(tr trace.InputTrace) *TreeNode {
	cur := n
	for _, x := range tr {
		e, ok := cur.index[x]
		if !ok {
			return nil
		}
		cur = e.child
	}
	return cur
}

// Remove deletes from t every path that other also contains: for every
// pair of edges with equal label at corresponding positions in t and
// other, the edge is a removal candidate; a candidate is actually
// deleted once recursion has emptied out its subtree, and that deletion
// propagates upward through any ancestor that becomes an empty leaf as
// a result. A branch of t that continues past where other ends (e.g.
// the single-input extensions a transition cover adds beyond a state
// cover's leaves) is left untouched, since it is not actually shared.
func (t *Tree) Remove(other *Tree) {
	removeShared(t.Root, other.Root)
}

func removeShared(n, o *TreeNode) {
	for i := 0; i < len(n.children); {
		e := n.children[i]
		oe, ok := o.index[e.input]
		if !ok {
			i++
			continue
		}
		removeShared(e.child, oe.child)
		if e.child.IsLeaf() {
			n.children = append(n.children[:i], n.children[i+1:]...)
			delete(n.index, e.input)
			continue
		}
		i++
	}
}

// GetSubTree returns a deep copy of the subtree reached by following tr
// from the root, rooted afresh (its new root has no parent). Returns an
// empty tree if tr cannot be followed to the end.
func (t *Tree) GetSubTree(tr trace.InputTrace) *Tree {
	n := t.Root.After(tr)
	if n == nil {
		return NewTree()
	}
	return &Tree{Root: cloneSubtree(n, nil)}
}

func cloneSubtree(n *TreeNode, parent *TreeNode) *TreeNode {
	c := newNode(parent)
	for _, e := range n.children {
		childCopy := cloneSubtree(e.child, c)
		c.addEdge(e.input, childCopy)
	}
	return c
}

// UnionTree merges other's paths into t, appending every path of other at
// t's root (reusing shared prefixes).
func (t *Tree) UnionTree(other *Tree) {
	for _, tr := range other.Traces() {
		t.AddToRoot(tr)
	}
}

// GetPrefixRelationTree builds the tree containing, for each leaf path p1
// of t and leaf path p2 of other, the longer of the two whenever one is a
// prefix of the other — used by the H-method to find the smallest tree
// that already "covers" a pending distinguishing-trace search.
func (t *Tree) GetPrefixRelationTree(other *Tree) *Tree {
	result := NewTree()
	for _, p1 := range t.Traces() {
		for _, p2 := range other.Traces() {
			if isPrefix(p1, p2) {
				result.AddToRoot(p2)
			} else if isPrefix(p2, p1) {
				result.AddToRoot(p1)
			}
		}
	}
	return result
}

func isPrefix(short, long trace.InputTrace) bool {
	if len(short) > len(long) {
		return false
	}
	for i := range short {
		if short[i] != long[i] {
			return false
		}
	}
	return true
}

// Cost codes returned by TentativeAddToRoot.
const (
	// CostCovered means tr is already a path in the tree; adding it is free.
	CostCovered = 0
	// CostExtend means tr reaches an existing leaf; adding it only
	// lengthens that leaf's path, no branching required.
	CostExtend = 1
	// CostBranch means tr requires creating a genuinely new branch.
	CostBranch = 2
)

// TentativeAddToRoot reports the cost of adding tr to the tree without
// actually modifying it: 0 if tr is already fully covered, 1 if tr only
// extends an existing leaf, 2 if it requires branching off partway through.
func (t *Tree) TentativeAddToRoot(tr trace.InputTrace) int {
	n := t.Root
	for _, x := range tr {
		if n.IsLeaf() {
			return CostExtend
		}
		e, ok := n.index[x]
		if !ok {
			return CostBranch
		}
		n = e.child
	}
	return CostCovered
}

// Size returns the total number of nodes in the tree, including the root.
func (t *Tree) Size() int { return sizeOf(t.Root) }

func sizeOf(n *TreeNode) int {
	s := 1
	for _, e := range n.children {
		s += sizeOf(e.child)
	}
	return s
}
