package fsm

import (
	"testing"

	"github.com/fsmlab/conform/pkg/symtab"
	"github.com/stretchr/testify/require"
)

// threeDistinctStates builds a minimal machine where every pair of states
// is distinguishable by a length-1 or length-2 trace.
func threeDistinctStates(t *testing.T) *FSM {
	tbl := symtab.New([]string{"0", "1"}, []string{"0", "1"}, []string{"s0", "s1", "s2"})
	f := New("t", tbl, 3, 1, 1, 0)
	require.NoError(t, f.AddTransition(0, 0, 0, 0))
	require.NoError(t, f.AddTransition(0, 1, 1, 0))
	require.NoError(t, f.AddTransition(1, 0, 1, 1))
	require.NoError(t, f.AddTransition(1, 1, 2, 0))
	require.NoError(t, f.AddTransition(2, 0, 2, 0))
	require.NoError(t, f.AddTransition(2, 1, 0, 0))
	return f
}

func TestGetCharacterisationSetSeparatesEveryPair(t *testing.T) {
	f := threeDistinctStates(t)
	w := f.GetCharacterisationSet()
	require.NotEmpty(t, w)

	n := len(f.Nodes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			separated := false
			for _, tr := range w {
				if outputDiffers(f, i, j, tr) {
					separated = true
					break
				}
			}
			require.True(t, separated, "states %d and %d not separated by W", i, j)
		}
	}
}

func TestCalcStateIdentificationSetsCoverEveryOtherState(t *testing.T) {
	f := threeDistinctStates(t)
	w := f.GetCharacterisationSet()
	sets := f.CalcStateIdentificationSets(w)

	n := len(f.Nodes)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			separated := false
			for _, tr := range sets[i] {
				if outputDiffers(f, i, j, tr) {
					separated = true
					break
				}
			}
			require.True(t, separated, "state %d's ID set doesn't separate it from %d", i, j)
		}
	}
}

func TestCalcStateIdentificationSetsFastAlsoCovers(t *testing.T) {
	f := threeDistinctStates(t)
	w := f.GetCharacterisationSet()
	sets := f.CalcStateIdentificationSetsFast(w)

	n := len(f.Nodes)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			separated := false
			for _, tr := range sets[i] {
				if outputDiffers(f, i, j, tr) {
					separated = true
					break
				}
			}
			require.True(t, separated)
		}
	}
}

func TestIntersectOfMachineWithItselfIsLanguageEquivalent(t *testing.T) {
	f := threeDistinctStates(t)
	prod := f.Intersect(f)
	require.NotEmpty(t, prod.Nodes)
	// Every output on the diagonal product must match f's own output.
	for _, n := range prod.Nodes {
		src := f.Nodes[n.derivedFrom[0][0]]
		for _, tr := range n.Transitions {
			ts := src.Apply(tr.Input)
			require.Len(t, ts, 1)
			require.Equal(t, ts[0].Output, tr.Output)
		}
	}
}
