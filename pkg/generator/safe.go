package generator

import (
	"github.com/fsmlab/conform/pkg/fsm"
	"github.com/fsmlab/conform/pkg/tree"
)

// safetySuites builds the two abstraction-derived pieces the Safe-*
// generators fold into the full reference suite: V.wSafe and
// V.Sigma_I^{<=m+1}.wSafe, where V is the reference's own state cover
// and wSafe is the characterization set of the coarser abstraction
// model's minimized form. Both pieces only ever add test cases — the
// abstraction model narrows which faults are "safety-relevant" but
// never removes reference coverage.
func safetySuites(md *fsm.Dfsm, abs *fsm.FSM, m int) *tree.Tree {
	wSafe := abs.Minimise().GetCharacterisationSet()
	v := md.GetStateCover()

	vWSafe := cloneOf(v)
	vWSafe.Add(wSafe)

	vSigmaWSafe := cloneOf(v)
	vSigmaWSafe.Add(inputEnumerationRange(md.MaxInput, 1, m+1))
	vSigmaWSafe.Add(wSafe)

	out := tree.NewTree()
	out.UnionTree(vWSafe)
	out.UnionTree(vSigmaWSafe)
	return out
}

// SafeWMethod is the abstraction-aware variant of WMethod: the full
// reference W-suite, unioned with the abstraction-derived safety
// suites. The abstraction model can only widen the suite, never narrow
// it — suite monotonicity in m is preserved.
func SafeWMethod(d *fsm.Dfsm, abs *fsm.FSM, m int) *tree.Tree {
	md := d.Minimise()
	suite := WMethod(d, m)
	suite.UnionTree(safetySuites(md, abs, m))
	return suite
}

// SafeWpMethod is the abstraction-aware variant of WpMethod.
func SafeWpMethod(d *fsm.Dfsm, abs *fsm.FSM, m int) *tree.Tree {
	md := d.Minimise()
	suite := WpMethod(d, m)
	suite.UnionTree(safetySuites(md, abs, m))
	return suite
}

// SafeHMethod is the abstraction-aware variant of HMethod.
func SafeHMethod(d *fsm.Dfsm, abs *fsm.FSM, m int) *tree.Tree {
	md := d.Minimise()
	suite := HMethod(d, m)
	suite.UnionTree(safetySuites(md, abs, m))
	return suite
}
