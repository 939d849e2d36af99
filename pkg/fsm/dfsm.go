package fsm

import (
	"math/rand"

	"github.com/fsmlab/conform/pkg/symtab"
	"github.com/fsmlab/conform/pkg/tables"
	"github.com/fsmlab/conform/pkg/trace"
)

// Dfsm is a deterministic, completely-specified FSM together with its
// cached Pk-table classification chain, used as the reference model that
// the W/Wp/HSI/H generators are run against.
type Dfsm struct {
	*FSM
	pkChain []*tables.PkTable
	dt      *tables.DFSMTable
}

// NewDfsm wraps f as a Dfsm, computing its Pk-table chain immediately. f
// must be deterministic and completely specified.
func NewDfsm(f *FSM) *Dfsm {
	dt := f.ToDFSMTable()
	return &Dfsm{FSM: f, dt: dt, pkChain: tables.Chain(dt, f.MaxInput)}
}

// recalc rebuilds the cached Pk-table chain, used after an in-place
// structural change such as RemoveUnreachableNodes.
func (d *Dfsm) recalc() {
	d.dt = d.FSM.ToDFSMTable()
	d.pkChain = tables.Chain(d.dt, d.MaxInput)
}

// Minimise returns the minimized Dfsm, with its Pk-table chain recomputed
// over the minimized states.
func (d *Dfsm) Minimise() *Dfsm {
	return NewDfsm(d.FSM.Minimise())
}

// ApplyDet applies a sequence of inputs starting at the initial state,
// returning the partial-match semantics used by the CLI's -p option:
//   - if the very first input is not in the alphabet, returns an empty
//     IOTrace;
//   - if some prefix of in matches before an unmatched input is hit,
//     returns that prefix paired with the outputs actually produced;
//   - if all of in matches, returns the full IOTrace.
func (d *Dfsm) ApplyDet(in trace.InputTrace) trace.IOTrace {
	cur := d.Initial
	var outs trace.OutputTrace
	var matched trace.InputTrace
	for _, x := range in {
		ts := cur.Apply(x)
		if len(ts) == 0 {
			break
		}
		outs = append(outs, ts[0].Output)
		matched = append(matched, x)
		cur = ts[0].To
	}
	return trace.IOTrace{Inputs: matched, Outputs: outs}
}

// Pass reports whether the output trace produced applying in against d
// matches the expected outputs exactly (used to compare an implementation
// response against the reference model during conformance checking).
func (d *Dfsm) Pass(in trace.InputTrace, expected trace.OutputTrace) bool {
	got := d.ApplyDet(in)
	if len(got.Outputs) != len(expected) {
		return false
	}
	for i := range expected {
		if got.Outputs[i] != expected[i] {
			return false
		}
	}
	return true
}

// GetEquivalentInputs partitions [0,MaxInput] into classes of inputs that
// are indistinguishable from every state's point of view: x and y are in
// the same class iff, for every state, applying x produces the same
// (output,successor-class) as applying y. It uses the prime (fully
// refined) classification so that successor-equivalence is checked up to
// minimization, not just raw target identity.
func (d *Dfsm) GetEquivalentInputs() [][]int {
	last := d.pkChain[len(d.pkChain)-1]
	classOf := func(id int) int { return last.GetClass(id) }

	n := d.MaxInput + 1
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	equivalent := func(x, y int) bool {
		for _, node := range d.Nodes {
			tx := node.Apply(x)
			ty := node.Apply(y)
			if len(tx) != len(ty) {
				return false
			}
			if len(tx) == 0 {
				continue
			}
			if tx[0].Output != ty[0].Output {
				return false
			}
			if classOf(tx[0].To.ID) != classOf(ty[0].To.ID) {
				return false
			}
		}
		return true
	}

	for x := 0; x <= d.MaxInput; x++ {
		for y := x + 1; y <= d.MaxInput; y++ {
			if equivalent(x, y) {
				union(x, y)
			}
		}
	}

	groups := map[int][]int{}
	for x := 0; x <= d.MaxInput; x++ {
		groups[find(x)] = append(groups[find(x)], x)
	}
	var out [][]int
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}

// RandomFSM builds a random, completely-specified, connected Mealy
// machine: it starts from a single initial node and repeatedly links a
// random already-reachable node to a random not-yet-reachable node (to
// guarantee every state is reachable), then tops up any state missing
// transitions for some input with additional randomly targeted ones.
func RandomFSM(name string, numStates, maxInput, maxOutput int, rng *rand.Rand) *FSM {
	names := make([]string, numStates)
	ins := make([]string, maxInput+1)
	outs := make([]string, maxOutput+1)
	for i := range names {
		names[i] = "s" + itoa(i)
	}
	for i := range ins {
		ins[i] = "i" + itoa(i)
	}
	for i := range outs {
		outs[i] = "o" + itoa(i)
	}
	tbl := symtab.New(ins, outs, names)
	f := New(name, tbl, numStates, maxInput, maxOutput, 0)

	reached := []int{0}
	inTree := make([]bool, numStates)
	inTree[0] = true
	for len(reached) < numStates {
		from := reached[rng.Intn(len(reached))]
		to := -1
		for {
			c := rng.Intn(numStates)
			if !inTree[c] {
				to = c
				break
			}
		}
		x := rng.Intn(maxInput + 1)
		y := rng.Intn(maxOutput + 1)
		f.AddTransition(from, x, to, y)
		inTree[to] = true
		reached = append(reached, to)
	}

	for _, n := range f.Nodes {
		for x := 0; x <= maxInput; x++ {
			if len(n.Apply(x)) == 0 {
				to := rng.Intn(numStates)
				y := rng.Intn(maxOutput + 1)
				f.AddTransition(n.ID, x, to, y)
			}
		}
	}
	return f
}

// RandomDFSM builds a random completely-specified deterministic Mealy
// machine and wraps it as a Dfsm.
func RandomDFSM(name string, numStates, maxInput, maxOutput int, rng *rand.Rand) *Dfsm {
	f := RandomFSM(name, numStates, maxInput, maxOutput, rng)
	dedupeToDeterministic(f, rng)
	return NewDfsm(f)
}

// dedupeToDeterministic removes any duplicate-input transition created by
// RandomFSM's spanning-tree pass so the result is deterministic, keeping
// one randomly chosen transition per (state,input) pair.
func dedupeToDeterministic(f *FSM, rng *rand.Rand) {
	for _, n := range f.Nodes {
		byInput := map[int][]*Transition{}
		for _, t := range n.Transitions {
			byInput[t.Input] = append(byInput[t.Input], t)
		}
		var kept []*Transition
		for x := 0; x <= f.MaxInput; x++ {
			ts := byInput[x]
			if len(ts) == 0 {
				continue
			}
			kept = append(kept, ts[rng.Intn(len(ts))])
		}
		n.Transitions = kept
	}
}
