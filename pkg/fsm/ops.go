package fsm

import (
	"sort"

	"github.com/fsmlab/conform/pkg/symtab"
	"github.com/fsmlab/conform/pkg/tables"
	"github.com/fsmlab/conform/pkg/trace"
	"github.com/fsmlab/conform/pkg/tree"
)

// pairKey identifies a product-construction node by the pair of source
// node IDs it derives from.
type pairKey struct{ a, b int }

// Intersect builds the product machine of f and other: a BFS over pairs
// of nodes reachable by shared (input,output) steps, used to check
// language/behavior equivalence and as the core of conformance checking.
func (f *FSM) Intersect(other *FSM) *FSM {
	type queued struct {
		a, b int
		id   int
	}
	idOf := map[pairKey]int{}
	var names []string
	var queue []queued

	start := pairKey{f.Initial.ID, other.Initial.ID}
	idOf[start] = 0
	names = append(names, f.Initial.Name+"_"+other.Initial.Name)
	queue = append(queue, queued{f.Initial.ID, other.Initial.ID, 0})

	type edge struct{ from, input, to, output int }
	var edges []edge

	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		na, nb := f.Nodes[q.a], other.Nodes[q.b]
		for x := 0; x <= f.MaxInput; x++ {
			for _, ta := range na.Apply(x) {
				for _, tb := range nb.Apply(x) {
					if ta.Output != tb.Output {
						continue
					}
					key := pairKey{ta.To.ID, tb.To.ID}
					id, ok := idOf[key]
					if !ok {
						id = len(names)
						idOf[key] = id
						names = append(names, ta.To.Name+"_"+tb.To.Name)
						queue = append(queue, queued{ta.To.ID, tb.To.ID, id})
					}
					edges = append(edges, edge{q.id, x, id, ta.Output})
				}
			}
		}
	}

	tbl := symtab.New(f.Symbols.In(), f.Symbols.Out(), names)
	result := New(f.Name+"_x_"+other.Name, tbl, len(names), f.MaxInput, f.MaxOut, 0)
	for key, id := range idOf {
		result.Nodes[id].derivedFrom = [][2]int{{key.a, key.b}}
	}
	for _, e := range edges {
		result.AddTransition(e.from, e.input, e.to, e.output)
	}
	return result
}

// GetStateCover returns the state cover tree V: a prefix-shared tree of
// shortest input traces with exactly one node per reachable state (the
// root stands for Initial), built by BFS from Initial. Traces() on the
// result lists only the leaf paths.
func (f *FSM) GetStateCover() *tree.Tree {
	f.resetColors()
	t := tree.NewTree()
	nodeAt := map[*tree.TreeNode]int{t.Root: f.Initial.ID}
	f.Initial.Color = Grey
	queue := []*tree.TreeNode{t.Root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		id := nodeAt[cur]
		n := f.Nodes[id]
		n.Color = Black
		for x := 0; x <= f.MaxInput; x++ {
			for _, succ := range n.After(x) {
				if f.Nodes[succ].Color == White {
					f.Nodes[succ].Color = Grey
					leafPath := append(append(trace.InputTrace(nil), cur.GetPath()...), x)
					t.AddToRoot(leafPath)
					leaf := t.Root.After(leafPath)
					nodeAt[leaf] = succ
					queue = append(queue, leaf)
				}
			}
		}
	}
	return t
}

// GetTransitionCover extends the state cover by one additional input per
// state, enumerating every input in [0,MaxInput] from every state cover
// node (the root and inner nodes as well as the leaves).
func (f *FSM) GetTransitionCover() *tree.Tree {
	scov := f.GetStateCover()
	t := &tree.Tree{Root: cloneTree(scov.Root)}
	var paths []trace.InputTrace
	var collect func(n *tree.TreeNode)
	collect = func(n *tree.TreeNode) {
		paths = append(paths, n.GetPath())
		for _, e := range n.Children() {
			collect(e.Child())
		}
	}
	collect(scov.Root)
	for _, p := range paths {
		for x := 0; x <= f.MaxInput; x++ {
			t.AddToRoot(append(append(trace.InputTrace(nil), p...), x))
		}
	}
	return t
}

func cloneTree(n *tree.TreeNode) *tree.TreeNode {
	// tree.Tree has no exported deep-clone constructor for a bare node, so
	// rebuild by replaying traces through a fresh tree.
	fresh := tree.NewTree()
	var walk func(node *tree.TreeNode, path []int)
	walk = func(node *tree.TreeNode, path []int) {
		if node.IsLeaf() && len(path) > 0 {
			fresh.AddToRoot(append(trace.InputTrace(nil), path...))
		}
		for _, e := range node.Children() {
			walk(e.Child(), append(path, e.Input()))
		}
	}
	walk(n, nil)
	return fresh.Root
}

// TransformToObservableFSM builds the observable equivalent of f via
// subset construction keyed by (input,output) pairs: each new state is
// the set of original states reachable by the same I/O-labeled path.
func (f *FSM) TransformToObservableFSM() *FSM {
	if f.IsObservable() {
		return f.Clone()
	}

	type set = string // canonical comma-joined sorted ID list, used as a map key
	keyOf := func(ids []int) set {
		cp := append([]int(nil), ids...)
		sort.Ints(cp)
		s := ""
		for i, id := range cp {
			if i > 0 {
				s += ","
			}
			s += itoa(id)
		}
		return s
	}

	initialSet := []int{f.Initial.ID}
	setByKey := map[set][]int{keyOf(initialSet): initialSet}
	idOf := map[set]int{keyOf(initialSet): 0}
	order := []set{keyOf(initialSet)}

	type edge struct{ from, input, to, output int }
	var edges []edge

	for qi := 0; qi < len(order); qi++ {
		key := order[qi]
		members := setByKey[key]
		for x := 0; x <= f.MaxInput; x++ {
			bucket := map[int][]int{} // output -> successor set
			for _, id := range members {
				for _, t := range f.Nodes[id].Apply(x) {
					bucket[t.Output] = append(bucket[t.Output], t.To.ID)
				}
			}
			for y, succSet := range bucket {
				k2 := keyOf(succSet)
				to, ok := idOf[k2]
				if !ok {
					to = len(order)
					idOf[k2] = to
					setByKey[k2] = succSet
					order = append(order, k2)
				}
				edges = append(edges, edge{qi, x, to, y})
			}
		}
	}

	names := make([]string, len(order))
	for i, key := range order {
		members := setByKey[key]
		nm := ""
		for j, id := range members {
			if j > 0 {
				nm += "_"
			}
			nm += f.Nodes[id].Name
		}
		names[i] = nm
	}
	tbl := symtab.New(f.Symbols.In(), f.Symbols.Out(), names)
	out := New(f.Name+"_obs", tbl, len(order), f.MaxInput, f.MaxOut, 0)
	for _, e := range edges {
		out.AddTransition(e.from, e.input, e.to, e.output)
	}
	return out
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

// MinimiseObservableFSM minimizes an observable (possibly nondeterministic)
// FSM using the OFSM-table classification chain.
func (f *FSM) MinimiseObservableFSM() *FSM {
	f.RemoveUnreachableNodes()
	chain := f.OFSMChain()
	last := chain[len(chain)-1]

	groups := map[int][]int{}
	for _, n := range f.Nodes {
		groups[last.S2C(n.ID)] = append(groups[last.S2C(n.ID)], n.ID)
	}
	classOf := make([]int, len(f.Nodes))
	classIDs := make([]int, 0, len(groups))
	for c := range groups {
		classIDs = append(classIDs, c)
	}
	sort.Ints(classIDs)
	newID := map[int]int{}
	for i, c := range classIDs {
		newID[c] = i
	}
	for _, n := range f.Nodes {
		classOf[n.ID] = newID[last.S2C(n.ID)]
	}

	names := make([]string, len(classIDs))
	for c, members := range groups {
		nm := ""
		for j, id := range members {
			if j > 0 {
				nm += "_"
			}
			nm += f.Nodes[id].Name
		}
		names[newID[c]] = nm
	}
	tbl := symtab.New(f.Symbols.In(), f.Symbols.Out(), names)
	out := New(f.Name+"_min", tbl, len(names), f.MaxInput, f.MaxOut, classOf[f.Initial.ID])
	seen := map[[3]int]bool{}
	for _, n := range f.Nodes {
		for _, t := range n.Transitions {
			k := [3]int{classOf[n.ID], t.Input, t.Output}
			if seen[k] {
				continue
			}
			seen[k] = true
			out.AddTransition(classOf[n.ID], t.Input, classOf[t.To.ID], t.Output)
		}
	}
	return out
}

// Minimise minimizes f: deterministic completely-specified machines use the
// fast Pk-table path directly; anything else is first made observable.
func (f *FSM) Minimise() *FSM {
	f.RemoveUnreachableNodes()
	if f.IsObservable() && f.IsDeterministic() && f.IsCompletelyDefined() {
		return f.minimiseDeterministic()
	}
	return f.TransformToObservableFSM().MinimiseObservableFSM()
}

func (f *FSM) minimiseDeterministic() *FSM {
	dt := f.ToDFSMTable()
	chain := tables.Chain(dt, f.MaxInput)
	last := chain[len(chain)-1]

	groups := map[int][]int{}
	for _, n := range f.Nodes {
		groups[last.GetClass(n.ID)] = append(groups[last.GetClass(n.ID)], n.ID)
	}
	classIDs := make([]int, 0, len(groups))
	for c := range groups {
		classIDs = append(classIDs, c)
	}
	sort.Ints(classIDs)
	newID := map[int]int{}
	for i, c := range classIDs {
		newID[c] = i
	}
	classOf := make([]int, len(f.Nodes))
	for _, n := range f.Nodes {
		classOf[n.ID] = newID[last.GetClass(n.ID)]
	}
	names := make([]string, len(classIDs))
	for c, members := range groups {
		nm := ""
		for j, id := range members {
			if j > 0 {
				nm += "_"
			}
			nm += f.Nodes[id].Name
		}
		names[newID[c]] = nm
	}
	tbl := symtab.New(f.Symbols.In(), f.Symbols.Out(), names)
	out := New(f.Name+"_min", tbl, len(names), f.MaxInput, f.MaxOut, classOf[f.Initial.ID])
	seen := map[[2]int]bool{}
	for _, n := range f.Nodes {
		for x := 0; x <= f.MaxInput; x++ {
			to := dt.Target(n.ID, x)
			if to < 0 {
				continue
			}
			k := [2]int{classOf[n.ID], x}
			if seen[k] {
				continue
			}
			seen[k] = true
			out.AddTransition(classOf[n.ID], x, classOf[to], dt.Output(n.ID, x))
		}
	}
	return out
}

// OFSMChain builds the OFSM classification chain for f (f must be
// observable; callers typically call TransformToObservableFSM first).
func (f *FSM) OFSMChain() []*tables.OFSMTable {
	n := len(f.Nodes)
	nextFn := func(state, input, output int) int {
		for _, t := range f.Nodes[state].Transitions {
			if t.Input == input && t.Output == output {
				return t.To.ID
			}
		}
		return -1
	}
	return tables.OFSMChain(n, f.MaxInput, f.MaxOut, nextFn)
}

// Distinguishable reports whether nodes a and b end up in different
// classes of the final OFSM table built over f.
func (f *FSM) Distinguishable(a, b int) bool {
	chain := f.OFSMChain()
	last := chain[len(chain)-1]
	return last.S2C(a) != last.S2C(b)
}
