// Package fsm implements the Mealy-style finite state machine graph and
// the algebra built on top of it: the observability transform,
// minimization, intersection, state/transition covers, characterization
// sets, state identification sets and distinguishing-trace search. These
// operations are the building blocks the W/Wp/HSI/H generators (package
// generator) compose into full conformance test suites.
package fsm

import (
	"fmt"

	"github.com/fsmlab/conform/pkg/symtab"
	"github.com/fsmlab/conform/pkg/tables"
	"github.com/fsmlab/conform/pkg/trace"
	"github.com/fsmlab/conform/pkg/tree"
)

// Node visit colors used by reachability traversals.
const (
	White = 0
	Grey  = 1
	Black = 2
)

// Transition is an owned outgoing edge of a Node: applying Input at the
// owning node produces Output and moves to To.
type Transition struct {
	From   *Node
	Input  int
	To     *Node
	Output int
}

// Node is one state of an FSM. Transitions are owned by the node they
// originate from; To is a non-owning reference into the same FSM's Nodes
// slice.
type Node struct {
	ID          int
	Name        string
	Transitions []*Transition
	Color       int
	initial     bool
	Satisfies   []string // requirements tags carried through from the model file, if any
	derivedFrom [][2]int // product-node provenance, set by Intersect
}

// IsInitial reports whether n is the FSM's initial state.
func (n *Node) IsInitial() bool { return n.initial }

// After returns the set of successor node IDs reachable from n via input
// x (more than one if the FSM is nondeterministic).
func (n *Node) After(x int) []int {
	var out []int
	for _, t := range n.Transitions {
		if t.Input == x {
			out = append(out, t.To.ID)
		}
	}
	return out
}

// Apply returns the (output, successor) pairs produced by applying input
// x at n.
func (n *Node) Apply(x int) []Transition {
	var out []Transition
	for _, t := range n.Transitions {
		if t.Input == x {
			out = append(out, *t)
		}
	}
	return out
}

// HasTransitions reports whether n defines any transition at all.
func (n *Node) HasTransitions() bool { return len(n.Transitions) > 0 }

// FSM is a Mealy-style finite state machine: a set of Nodes, one marked as
// Initial, with integer-coded inputs and outputs resolved through Symbols.
type FSM struct {
	Name     string
	Symbols  *symtab.Table
	Nodes    []*Node
	Initial  *Node
	MaxInput int // highest valid input code
	MaxOut   int // highest valid output code
}

// New allocates an FSM with numStates unconnected nodes named from tbl and
// initial marked as the initial state.
func New(name string, tbl *symtab.Table, numStates, maxInput, maxOutput, initial int) *FSM {
	f := &FSM{Name: name, Symbols: tbl, MaxInput: maxInput, MaxOut: maxOutput}
	f.Nodes = make([]*Node, numStates)
	for i := 0; i < numStates; i++ {
		f.Nodes[i] = &Node{ID: i, Name: tbl.GetStateId(i, "s")}
	}
	if initial >= 0 && initial < numStates {
		f.Nodes[initial].initial = true
		f.Initial = f.Nodes[initial]
	}
	return f
}

// AddTransition records a new owned transition from the node with id
// `from`, returning an error if from or to are out of range.
func (f *FSM) AddTransition(from, input, to, output int) error {
	if from < 0 || from >= len(f.Nodes) {
		return fmt.Errorf("fsm: source state %d out of range", from)
	}
	if to < 0 || to >= len(f.Nodes) {
		return fmt.Errorf("fsm: target state %d out of range", to)
	}
	fn, tn := f.Nodes[from], f.Nodes[to]
	for _, t := range fn.Transitions {
		if t.Input == input && t.Output == output && t.To == tn {
			return nil // duplicate (label, output, target): silently ignored
		}
	}
	fn.Transitions = append(fn.Transitions, &Transition{From: fn, Input: input, To: tn, Output: output})
	return nil
}

// IsDeterministic reports whether every (state,input) pair has at most one
// outgoing transition.
func (f *FSM) IsDeterministic() bool {
	for _, n := range f.Nodes {
		seen := map[int]bool{}
		for _, t := range n.Transitions {
			if seen[t.Input] {
				return false
			}
			seen[t.Input] = true
		}
	}
	return true
}

// IsObservable reports whether every (state,input,output) triple leads to
// at most one successor.
func (f *FSM) IsObservable() bool {
	for _, n := range f.Nodes {
		seen := map[[2]int]bool{}
		for _, t := range n.Transitions {
			k := [2]int{t.Input, t.Output}
			if seen[k] {
				return false
			}
			seen[k] = true
		}
	}
	return true
}

// IsCompletelyDefined reports whether every state defines a transition for
// every input in [0,MaxInput].
func (f *FSM) IsCompletelyDefined() bool {
	for _, n := range f.Nodes {
		defined := make([]bool, f.MaxInput+1)
		for _, t := range n.Transitions {
			defined[t.Input] = true
		}
		for _, d := range defined {
			if !d {
				return false
			}
		}
	}
	return true
}

// resetColors marks every node White, ready for a fresh BFS/DFS.
func (f *FSM) resetColors() {
	for _, n := range f.Nodes {
		n.Color = White
	}
}

// RemoveUnreachableNodes strips every node not reachable from Initial and
// renumbers the survivors so that node.ID again equals its position in
// Nodes. It also drops the corresponding names from the symbol table's
// state-name vector. Returns the number of nodes removed.
func (f *FSM) RemoveUnreachableNodes() int {
	f.resetColors()
	queue := []*Node{f.Initial}
	f.Initial.Color = Grey
	reachable := map[int]bool{f.Initial.ID: true}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, t := range n.Transitions {
			if t.To.Color == White {
				t.To.Color = Grey
				reachable[t.To.ID] = true
				queue = append(queue, t.To)
			}
		}
		n.Color = Black
	}

	var kept []*Node
	for _, n := range f.Nodes {
		if reachable[n.ID] {
			kept = append(kept, n)
		}
	}
	removed := len(f.Nodes) - len(kept)
	if removed == 0 {
		return 0
	}

	// Renumber surviving nodes and rebuild the state-name vector to match.
	newNames := make([]string, len(kept))
	for i, n := range kept {
		newNames[i] = f.Symbols.GetStateId(n.ID, "s")
		n.ID = i
	}
	f.Nodes = kept
	f.Symbols = symtab.New(f.Symbols.In(), f.Symbols.Out(), newNames)
	return removed
}

// Clone returns a deep, independent copy of f (its own nodes, transitions
// and symbol table).
func (f *FSM) Clone() *FSM {
	g := &FSM{Name: f.Name, Symbols: f.Symbols.Clone(), MaxInput: f.MaxInput, MaxOut: f.MaxOut}
	g.Nodes = make([]*Node, len(f.Nodes))
	for i, n := range f.Nodes {
		g.Nodes[i] = &Node{ID: n.ID, Name: n.Name, initial: n.initial, Satisfies: append([]string(nil), n.Satisfies...)}
		if n.initial {
			g.Initial = g.Nodes[i]
		}
	}
	for i, n := range f.Nodes {
		for _, t := range n.Transitions {
			g.Nodes[i].Transitions = append(g.Nodes[i].Transitions, &Transition{
				From: g.Nodes[i], Input: t.Input, To: g.Nodes[t.To.ID], Output: t.Output,
			})
		}
	}
	return g
}

// Apply runs in from start, branching at every step into one OutputNode
// per matching transition: a deterministic, completely-specified FSM
// produces a single root-to-leaf path; a nondeterministic one produces
// every path the machine could have taken. If some state in the frontier
// has no transition for the next input, that branch stops there and
// keeps the longest prefix it matched rather than being discarded.
func (f *FSM) Apply(start int, in trace.InputTrace) *tree.OutputTree {
	root := tree.NewOutputNode(nil, -1, start)
	frontier := []*tree.OutputNode{root}
	for _, x := range in {
		var next []*tree.OutputNode
		for _, leaf := range frontier {
			for _, t := range f.Nodes[leaf.State()].Apply(x) {
				child := tree.NewOutputNode(leaf, t.Output, t.To.ID)
				leaf.AddChild(child)
				next = append(next, child)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return &tree.OutputTree{Root: root}
}

// ToDFSMTable builds the DFSM classification table for f, which must be
// deterministic and completely defined.
func (f *FSM) ToDFSMTable() *tables.DFSMTable {
	dt := tables.NewDFSMTable(len(f.Nodes), f.MaxInput)
	for _, n := range f.Nodes {
		for _, t := range n.Transitions {
			dt.Set(n.ID, t.Input, t.To.ID, t.Output)
		}
	}
	return dt
}
