// Package mutant generates single-fault mutants of a reference FSM, used
// only by this module's own tests to exercise the generators' soundness
// and completeness properties against known-faulty implementations. It is
// deliberately unexported from pkg/ and cmd/: producing production-grade
// mutants is explicitly out of scope, but the test suite still needs
// *some* faulty machine to check that a generated suite actually detects
// it.
package mutant

import (
	"math/rand"

	"github.com/fsmlab/conform/pkg/fsm"
)

// Kind identifies which single fault New injects.
type Kind int

const (
	// TransitionFault retargets one transition to a different successor
	// state, keeping its output unchanged.
	TransitionFault Kind = iota
	// OutputFault changes one transition's output, keeping its target
	// unchanged.
	OutputFault
)

// New returns a deep copy of ref with one fault of the given kind
// injected at a random (state,input) pair, carefully avoiding producing a
// duplicate (input,output,target) transition that the fault would
// otherwise collapse into a no-op. The replacement target (or output) is
// drawn at random a bounded number of times; if no draw qualifies, or the
// chosen state has no transitions, the copy is returned without a fault.
func New(ref *fsm.FSM, kind Kind, rng *rand.Rand) *fsm.FSM {
	m := ref.Clone()
	state := rng.Intn(len(m.Nodes))
	n := m.Nodes[state]
	if len(n.Transitions) == 0 {
		return m
	}
	idx := rng.Intn(len(n.Transitions))
	t := n.Transitions[idx]

	switch kind {
	case TransitionFault:
		for attempts := 0; attempts < len(m.Nodes)*2; attempts++ {
			candidate := m.Nodes[rng.Intn(len(m.Nodes))]
			if candidate == t.To {
				continue
			}
			if hasTransition(n, t.Input, t.Output, candidate) {
				continue
			}
			t.To = candidate
			break
		}
	case OutputFault:
		for attempts := 0; attempts < (m.MaxOut+1)*2; attempts++ {
			y := rng.Intn(m.MaxOut + 1)
			if y == t.Output {
				continue
			}
			if hasTransition(n, t.Input, y, t.To) {
				continue
			}
			t.Output = y
			break
		}
	}
	return m
}

func hasTransition(n *fsm.Node, input, output int, to *fsm.Node) bool {
	for _, t := range n.Transitions {
		if t.Input == input && t.Output == output && t.To == to {
			return true
		}
	}
	return false
}
