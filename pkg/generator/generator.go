// Package generator implements the W, Wp, HSI and H conformance test
// suite generation methods, plus their "Safe" abstraction-aware variants,
// built from the state/transition covers, characterization sets, state
// identification sets and distinguishing-trace search provided by
// package fsm.
package generator

import (
	"github.com/fsmlab/conform/pkg/fsm"
	"github.com/fsmlab/conform/pkg/trace"
	"github.com/fsmlab/conform/pkg/tree"
)

// inputEnumeration returns every input trace of length exactly n over
// [0,maxInput].
func inputEnumeration(maxInput, n int) []trace.InputTrace {
	if n == 0 {
		return []trace.InputTrace{{}}
	}
	var out []trace.InputTrace
	var rec func(prefix trace.InputTrace, left int)
	rec = func(prefix trace.InputTrace, left int) {
		if left == 0 {
			out = append(out, append(trace.InputTrace(nil), prefix...))
			return
		}
		for x := 0; x <= maxInput; x++ {
			rec(append(prefix, x), left-1)
		}
	}
	rec(nil, n)
	return out
}

// inputEnumerationRange returns every input trace with length in
// [lo, hi], inclusive.
func inputEnumerationRange(maxInput, lo, hi int) []trace.InputTrace {
	var out []trace.InputTrace
	for n := lo; n <= hi; n++ {
		out = append(out, inputEnumeration(maxInput, n)...)
	}
	return out
}

// WMethod builds the W-method test suite for d against fault-domain bound
// m: V . Sigma^{<=m} . W, where V is d's transition cover and W its
// characterization set.
func WMethod(d *fsm.Dfsm, m int) *tree.Tree {
	md := d.Minimise()
	t := md.GetTransitionCover()
	inputEnum := inputEnumerationRange(md.MaxInput, 0, m)
	t.Add(inputEnum)
	w := md.GetCharacterisationSet()
	t.Add(w)
	return t
}

// WpMethod builds the Wp-method test suite: the state cover extended by
// Sigma^{<=m}.W, unioned with the remainder of the transition cover
// (tcov minus scov) extended by Sigma^{<=m} and each leaf's own state
// identification set.
func WpMethod(d *fsm.Dfsm, m int) *tree.Tree {
	md := d.Minimise()
	scov := md.GetStateCover()
	tcov := md.GetTransitionCover()
	inputEnum := inputEnumerationRange(md.MaxInput, 0, m)
	w := md.GetCharacterisationSet()

	suite := cloneOf(scov)
	suite.Add(inputEnum)
	suite.Add(w)

	remainder := cloneOf(tcov)
	remainder.Remove(scov)
	remainder.Add(inputEnum)
	stateIDSets := md.CalcStateIdentificationSets(w)
	md.AppendStateIdentificationSets(remainder, stateIDSets)

	suite.UnionTree(remainder)
	return suite
}

// HsiMethod builds the HSI-method test suite: the transition cover
// extended by Sigma^{<=m}, with each leaf's harmonized state
// identification set (pairwise, first-found-in-W-order) appended.
func HsiMethod(d *fsm.Dfsm, m int) *tree.Tree {
	md := d.Minimise()
	t := md.GetTransitionCover()
	inputEnum := inputEnumerationRange(md.MaxInput, 0, m)
	t.Add(inputEnum)
	w := md.GetCharacterisationSet()
	harmonized := harmonizedStateIDSets(md.FSM, w)
	md.AppendStateIdentificationSets(t, harmonized)
	return t
}

// harmonizedStateIDSets builds, for every state i, a set Hi such that for
// every other state j the FIRST trace of w that separates i and j (in w's
// own order) is included — the HSI variant of state identification,
// distinct from the exact minimum-cardinality Wi used by Wp.
func harmonizedStateIDSets(f *fsm.FSM, w []trace.InputTrace) [][]trace.InputTrace {
	n := len(f.Nodes)
	out := make([][]trace.InputTrace, n)
	for i := 0; i < n; i++ {
		seen := map[int]bool{}
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			for _, tr := range w {
				if separatesPair(f, i, j, tr) {
					key := traceKey(tr)
					if !seen[key] {
						seen[key] = true
						out[i] = append(out[i], tr)
					}
					break
				}
			}
		}
	}
	return out
}

func separatesPair(f *fsm.FSM, i, j int, tr trace.InputTrace) bool {
	oi, oka := applyOutputsPublic(f, i, tr)
	oj, okb := applyOutputsPublic(f, j, tr)
	if oka != okb {
		return true
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

func applyOutputsPublic(f *fsm.FSM, start int, tr trace.InputTrace) ([]int, bool) {
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

func traceKey(tr trace.InputTrace) int {
	h := 0
	for _, x := range tr {
		h = h*131 + x + 1
	}
	return h
}

// HMethod builds the H-method test suite over d's minimized form,
// following the three-step construction: (1) for every pair of
// state-cover-with-prefixes traces, the distinguishing continuation of
// their common reached-state pair; (2) for every alpha in V and beta of
// length in [1,m+1], every omega in V reaching a different state via
// alpha.beta gets separated from alpha.beta; (3) for every alpha in V and
// every beta of length exactly m+1, every two distinguishable-reaching
// prefixes of beta get separated.
func HMethod(d *fsm.Dfsm, m int) *tree.Tree {
	md := d.Minimise()
	v := md.GetStateCover()
	vTraces := v.Traces()
	fixedBeta := inputEnumeration(md.MaxInput, m+1)

	// Initial suite: V extended by Sigma_I^{m+1}. Steps 1-3 below only
	// ever enrich it with distinguishing continuations; a fault that a
	// bare length-(m+1) continuation already reveals must still show up
	// even when none of those continuations fire.
	suite := cloneOf(v)
	suite.Add(fixedBeta)

	// Step 1.
	for i := 0; i < len(vTraces); i++ {
		for j := i + 1; j < len(vTraces); j++ {
			alpha, beta := vTraces[i], vTraces[j]
			alphaTree := v.GetSubTree(alpha)
			betaTree := v.GetSubTree(beta)
			prefixRel := alphaTree.GetPrefixRelationTree(betaTree)
			sa, oka := after(md.FSM, alpha)
			sb, okb := after(md.FSM, beta)
			if !oka || !okb {
				continue
			}
			gamma := md.CalcDistinguishingTrace(sa, sb, prefixRel)
			if gamma == nil {
				continue
			}
			suite.AddToRoot(concat(alpha, gamma))
			suite.AddToRoot(concat(beta, gamma))
		}
	}

	// Step 2.
	allBeta := inputEnumerationRange(md.MaxInput, 1, m+1)
	for _, alpha := range vTraces {
		for _, beta := range allBeta {
			sAlphaBeta, ok := after(md.FSM, concat(alpha, beta))
			if !ok {
				continue
			}
			for _, omega := range vTraces {
				sOmega, ok2 := after(md.FSM, omega)
				if !ok2 || sOmega == sAlphaBeta {
					continue
				}
				gamma := md.CalcDistinguishingTrace(sAlphaBeta, sOmega, nil)
				if gamma == nil {
					continue
				}
				suite.AddToRoot(concat(concat(alpha, beta), gamma))
				suite.AddToRoot(concat(omega, gamma))
			}
		}
	}

	// Step 3.
	for _, alpha := range vTraces {
		for _, beta := range fixedBeta {
			for i := 0; i < len(beta); i++ {
				for j := i + 1; j < len(beta); j++ {
					beta1 := beta[:i+1]
					beta2 := beta[:j+1]
					s1, ok1 := after(md.FSM, concat(alpha, beta1))
					s2, ok2 := after(md.FSM, concat(alpha, beta2))
					if !ok1 || !ok2 || s1 == s2 {
						continue
					}
					gamma := md.CalcDistinguishingTrace(s1, s2, nil)
					if gamma == nil {
						continue
					}
					suite.AddToRoot(concat(concat(alpha, beta1), gamma))
					suite.AddToRoot(concat(concat(alpha, beta2), gamma))
				}
			}
		}
	}

	return suite
}

func after(f *fsm.FSM, in trace.InputTrace) (int, bool) {
	cur := f.Initial.ID
	for _, x := range in {
		ts := f.Nodes[cur].Apply(x)
		if len(ts) == 0 {
			return 0, false
		}
		cur = ts[0].To.ID
	}
	return cur, true
}

func concat(a, b trace.InputTrace) trace.InputTrace {
	out := make(trace.InputTrace, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func cloneOf(t *tree.Tree) *tree.Tree {
	out := tree.NewTree()
	out.Add(t.Traces())
	return out
}

