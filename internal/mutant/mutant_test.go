package mutant

import (
	"math/rand"
	"testing"

	"github.com/fsmlab/conform/pkg/fsm"
	"github.com/fsmlab/conform/pkg/symtab"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *fsm.FSM {
	tbl := symtab.New([]string{"0", "1"}, []string{"0", "1"}, []string{"s0", "s1", "s2"})
	f := fsm.New("ref", tbl, 3, 1, 1, 0)
	require.NoError(t, f.AddTransition(0, 0, 1, 0))
	require.NoError(t, f.AddTransition(0, 1, 2, 1))
	require.NoError(t, f.AddTransition(1, 0, 2, 0))
	require.NoError(t, f.AddTransition(1, 1, 0, 1))
	require.NoError(t, f.AddTransition(2, 0, 0, 0))
	require.NoError(t, f.AddTransition(2, 1, 1, 1))
	return f
}

func TestTransitionFaultChangesExactlyOneTarget(t *testing.T) {
	ref := sample(t)
	rng := rand.New(rand.NewSource(1))
	m := New(ref, TransitionFault, rng)

	diffs := 0
	for _, n := range ref.Nodes {
		mn := m.Nodes[n.ID]
		for i, tr := range n.Transitions {
			if tr.To.ID != mn.Transitions[i].To.ID {
				diffs++
			}
		}
	}
	require.LessOrEqual(t, diffs, 1)
}

func TestOutputFaultChangesExactlyOneOutput(t *testing.T) {
	ref := sample(t)
	rng := rand.New(rand.NewSource(2))
	m := New(ref, OutputFault, rng)

	diffs := 0
	for _, n := range ref.Nodes {
		mn := m.Nodes[n.ID]
		for i, tr := range n.Transitions {
			if tr.Output != mn.Transitions[i].Output {
				diffs++
			}
		}
	}
	require.LessOrEqual(t, diffs, 1)
}

func TestMutantDoesNotMutateReference(t *testing.T) {
	ref := sample(t)
	before := ref.Nodes[0].Transitions[0].To.ID
	rng := rand.New(rand.NewSource(3))
	_ = New(ref, TransitionFault, rng)
	require.Equal(t, before, ref.Nodes[0].Transitions[0].To.ID)
}
