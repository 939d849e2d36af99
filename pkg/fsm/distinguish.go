package fsm

import (
	"github.com/fsmlab/conform/pkg/hittingset"
	"github.com/fsmlab/conform/pkg/tables"
	"github.com/fsmlab/conform/pkg/trace"
	"github.com/fsmlab/conform/pkg/tree"
)

// CalcDistinguishingTracePk finds the shortest input trace that produces
// different outputs from nodes a and b, using the Pk-table classification
// chain built over a deterministic, completely-specified FSM. Returns nil
// if a and b are not distinguishable at all (same class in the final Pk
// table).
func CalcDistinguishingTracePk(a, b int, chain []*tables.PkTable, dt *tables.DFSMTable, maxInput int) trace.InputTrace {
	l := -1
	for level := 0; level < len(chain); level++ {
		if chain[level].GetClass(a) != chain[level].GetClass(b) {
			l = level
			break
		}
	}
	if l < 0 {
		return nil
	}
	qi, qj := a, b
	var out trace.InputTrace
	for k := l; k > 0; k-- {
		tbl := chain[k-1]
		found := false
		for x := 0; x <= maxInput; x++ {
			qiNext := tbl.Successor(qi, x)
			qjNext := tbl.Successor(qj, x)
			if qiNext < 0 || qjNext < 0 {
				continue
			}
			if tbl.GetClass(qiNext) != tbl.GetClass(qjNext) {
				out = append(out, x)
				qi, qj = qiNext, qjNext
				found = true
				break
			}
		}
		if !found {
			return out // should not happen for a well-formed chain; return what we have
		}
	}
	// Final step: qi and qj disagree on output for some input at level 0.
	for x := 0; x <= maxInput; x++ {
		if dt.Output(qi, x) != dt.Output(qj, x) {
			out = append(out, x)
			return out
		}
	}
	return out
}

// CalcDistinguishingTraceOFSM is the OFSM-table analogue of
// CalcDistinguishingTracePk, used when the FSM is observable but possibly
// nondeterministic or incompletely specified.
func CalcDistinguishingTraceOFSM(a, b int, chain []*tables.OFSMTable, maxInput, maxOutput int) trace.InputTrace {
	l := -1
	for level := 0; level < len(chain); level++ {
		if chain[level].S2C(a) != chain[level].S2C(b) {
			l = level
			break
		}
	}
	if l < 0 {
		return nil
	}
	qi, qj := a, b
	var out trace.InputTrace
	for k := l; k > 0; k-- {
		tbl := chain[k-1]
		found := false
	search:
		for x := 0; x <= maxInput; x++ {
			for y := 0; y <= maxOutput; y++ {
				qiNext := tbl.Get(qi, x, y)
				qjNext := tbl.Get(qj, x, y)
				if qiNext < 0 || qjNext < 0 {
					continue
				}
				if tbl.S2C(qiNext) != tbl.S2C(qjNext) {
					out = append(out, x)
					qi, qj = qiNext, qjNext
					found = true
					break search
				}
			}
		}
		if !found {
			return out
		}
	}
	tbl0 := chain[0]
	for x := 0; x <= maxInput; x++ {
		for y := 0; y <= maxOutput; y++ {
			if (tbl0.Get(qi, x, y) >= 0) != (tbl0.Get(qj, x, y) >= 0) {
				out = append(out, x)
				return out
			}
		}
	}
	return out
}

// distCtx bundles what the tree-aware distinguishing-trace search needs,
// letting both the Pk and OFSM variants share the same three-tier search.
type distCtx struct {
	maxInput, maxOutput int
	pkChain             []*tables.PkTable
	dt                  *tables.DFSMTable
	ofsmChain           []*tables.OFSMTable
	after               func(nodeID int, in trace.InputTrace) (int, bool)
	outputsDiffer       func(a, b int, in trace.InputTrace) bool
}

func (c *distCtx) raw(a, b int) trace.InputTrace {
	if c.pkChain != nil {
		return CalcDistinguishingTracePk(a, b, c.pkChain, c.dt, c.maxInput)
	}
	return CalcDistinguishingTraceOFSM(a, b, c.ofsmChain, c.maxInput, c.maxOutput)
}

// calcDistinguishingTraceInTree searches t (rooted so that node a is
// reached by the empty trace and every branch is a candidate extension)
// breadth-first for the first branch whose path, applied from a and from
// b, produces different output sequences.
func (c *distCtx) inTree(a, b int, t *tree.Tree) (trace.InputTrace, bool) {
	queue := []*tree.TreeNode{t.Root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		path := n.GetPath()
		if len(path) > 0 && c.outputsDiffer(a, b, path) {
			return path, true
		}
		for _, e := range n.Children() {
			queue = append(queue, e.Child())
		}
	}
	return nil, false
}

func (c *distCtx) distinguishableAt(a, b int) bool {
	if a == b {
		return false
	}
	if c.pkChain != nil {
		last := c.pkChain[len(c.pkChain)-1]
		return last.GetClass(a) != last.GetClass(b)
	}
	last := c.ofsmChain[len(c.ofsmChain)-1]
	return last.S2C(a) != last.S2C(b)
}

// afterLeaves extends every leaf of t by its path and checks whether a and
// b reach distinguishable states, appending a raw fallback trace from
// those states if so.
func (c *distCtx) afterLeaves(a, b int, t *tree.Tree) (trace.InputTrace, bool) {
	for _, leaf := range t.Leaves() {
		path := leaf.GetPath()
		na, oka := c.after(a, path)
		nb, okb := c.after(b, path)
		if !oka || !okb {
			continue
		}
		if !c.distinguishableAt(na, nb) {
			continue
		}
		tail := c.raw(na, nb)
		full := append(append(trace.InputTrace(nil), path...), tail...)
		return full, true
	}
	return nil, false
}

// CalcDistinguishingTrace is the three-tier search used throughout the
// generators: try to find a distinguishing continuation already present
// in t; failing that, try extending from t's leaves; failing that, fall
// back to the raw Pk/OFSM-table search from a and b directly.
func (c *distCtx) CalcDistinguishingTrace(a, b int, t *tree.Tree) trace.InputTrace {
	if t != nil {
		if tr, ok := c.inTree(a, b, t); ok {
			return tr
		}
		if tr, ok := c.afterLeaves(a, b, t); ok {
			return tr
		}
	}
	return c.raw(a, b)
}

// GetCharacterisationSet builds a characterization set W for f: a
// set of input traces such that every pair of distinguishable states is
// separated by at least one trace in W. Built greedily, one
// distinguishing trace per still-unseparated pair, in node-ID order —
// matching the order guarantee the HSI method relies on ("first found in
// this order").
func (f *FSM) GetCharacterisationSet() []trace.InputTrace {
	ctx := f.distContext()
	var w []trace.InputTrace
	n := len(f.Nodes)
	separated := make([][]bool, n)
	for i := range separated {
		separated[i] = make([]bool, n)
	}
	markSeparated := func(tr trace.InputTrace) {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if separated[i][j] {
					continue
				}
				if outputDiffers(f, i, j, tr) {
					separated[i][j] = true
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if separated[i][j] || !ctx.distinguishableAt(i, j) {
				continue
			}
			tr := ctx.raw(i, j)
			if tr == nil {
				continue
			}
			w = append(w, tr)
			markSeparated(tr)
		}
	}
	return w
}

// outputDiffers reports whether applying tr from i and from j produces
// different output sequences.
func outputDiffers(f *FSM, i, j int, tr trace.InputTrace) bool {
	oi, oka := applyOutputs(f, i, tr)
	oj, okb := applyOutputs(f, j, tr)
	if !oka || !okb {
		return oka != okb
	}
	if len(oi) != len(oj) {
		return true
	}
	for k := range oi {
		if oi[k] != oj[k] {
			return true
		}
	}
	return false
}

func applyOutputs(f *FSM, start int, tr trace.InputTrace) ([]int, bool) {
	cur := start
	var outs []int
	for _, x := range tr {
		ts := f.Nodes[cur].Apply(x)
		if len(ts) == 0 {
			return outs, false
		}
		outs = append(outs, ts[0].Output)
		cur = ts[0].To.ID
	}
	return outs, true
}

// distContext builds the shared distinguishing-trace search context for
// f, using the Pk-table chain if f is deterministic and completely
// specified, or the OFSM-table chain otherwise (f is assumed observable;
// call TransformToObservableFSM first if it is not).
func (f *FSM) distContext() *distCtx {
	after := func(nodeID int, in trace.InputTrace) (int, bool) {
		cur := nodeID
		for _, x := range in {
			ts := f.Nodes[cur].Apply(x)
			if len(ts) == 0 {
				return 0, false
			}
			cur = ts[0].To.ID
		}
		return cur, true
	}
	differ := func(a, b int, in trace.InputTrace) bool { return outputDiffers(f, a, b, in) }
	if f.IsDeterministic() && f.IsCompletelyDefined() {
		dt := f.ToDFSMTable()
		return &distCtx{maxInput: f.MaxInput, maxOutput: f.MaxOut, pkChain: tables.Chain(dt, f.MaxInput), dt: dt, after: after, outputsDiffer: differ}
	}
	return &distCtx{maxInput: f.MaxInput, maxOutput: f.MaxOut, ofsmChain: f.OFSMChain(), after: after, outputsDiffer: differ}
}

// CalcDistinguishingTrace exposes the three-tier tree-aware search for use
// by the generator package, operating on f's own classification chain.
func (f *FSM) CalcDistinguishingTrace(a, b int, t *tree.Tree) trace.InputTrace {
	return f.distContext().CalcDistinguishingTrace(a, b, t)
}

// CalcStateIdentificationSets builds the exact state identification sets
// Wi for every state, given the characterization set w: for each pair of
// states, the indices of w-traces that separate them form a "must
// include one of these" constraint; Wi is a minimum-cardinality hitting
// set of all constraints involving state i.
func (f *FSM) CalcStateIdentificationSets(w []trace.InputTrace) [][]trace.InputTrace {
	n := len(f.Nodes)
	ctx := f.distContext()

	// z[i][j] = set of w-indices distinguishing i and j.
	z := make([][]hittingset.Set, n)
	for i := range z {
		z[i] = make([]hittingset.Set, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var s hittingset.Set
			for k, tr := range w {
				if outputDiffers(f, i, j, tr) {
					s = append(s, k)
				}
			}
			z[i][j] = s
			z[j][i] = s
		}
	}

	result := make([][]trace.InputTrace, n)
	for i := 0; i < n; i++ {
		var sets []hittingset.Set
		for j := 0; j < n; j++ {
			if j == i || !ctx.distinguishableAt(i, j) {
				continue
			}
			if len(z[i][j]) == 0 {
				continue
			}
			sets = append(sets, z[i][j])
		}
		hit := hittingset.MinCardinality(sets)
		for _, idx := range hit {
			result[i] = append(result[i], w[idx])
		}
	}
	return result
}

// CalcStateIdentificationSetsFast builds approximate (possibly
// larger-than-necessary) state identification sets in linear time: for
// each state, walk w in order and keep adding traces until every other
// distinguishable state has been separated from it at least once.
func (f *FSM) CalcStateIdentificationSetsFast(w []trace.InputTrace) [][]trace.InputTrace {
	n := len(f.Nodes)
	ctx := f.distContext()
	result := make([][]trace.InputTrace, n)
	for i := 0; i < n; i++ {
		remaining := map[int]bool{}
		for j := 0; j < n; j++ {
			if j != i && ctx.distinguishableAt(i, j) {
				remaining[j] = true
			}
		}
		for _, tr := range w {
			if len(remaining) == 0 {
				break
			}
			used := false
			for j := range remaining {
				if outputDiffers(f, i, j, tr) {
					delete(remaining, j)
					used = true
				}
			}
			if used {
				result[i] = append(result[i], tr)
			}
		}
	}
	return result
}

// AppendStateIdentificationSets splices each state's identification set
// under the matching leaf of t — every leaf whose path drives the initial
// state to state i gets state i's Wi traces appended beneath it.
func (f *FSM) AppendStateIdentificationSets(t *tree.Tree, stateIDSets [][]trace.InputTrace) {
	for _, leaf := range t.Leaves() {
		path := leaf.GetPath()
		cur := f.Initial.ID
		ok := true
		for _, x := range path {
			ts := f.Nodes[cur].Apply(x)
			if len(ts) == 0 {
				ok = false
				break
			}
			cur = ts[0].To.ID
		}
		if !ok {
			continue
		}
		for _, tr := range stateIDSets[cur] {
			full := append(append(trace.InputTrace(nil), path...), tr...)
			t.AddToRoot(full)
		}
	}
}
