package tree

import (
	"testing"

	"github.com/fsmlab/conform/pkg/trace"
	"github.com/stretchr/testify/require"
)

func TestAddToRootCollapsesSharedPrefix(t *testing.T) {
	tr := NewTree()
	tr.AddToRoot(trace.InputTrace{1, 2})
	tr.AddToRoot(trace.InputTrace{1, 3})

	require.Equal(t, 4, tr.Size()) // root, the shared "1" node, and its two leaves
	leaves := tr.Leaves()
	require.Len(t, leaves, 2)
}

func TestAddAppendsAtEveryLeaf(t *testing.T) {
	tr := NewTree()
	tr.AddToRoot(trace.InputTrace{1})
	tr.AddToRoot(trace.InputTrace{2})

	tr.Add([]trace.InputTrace{{9}})

	traces := tr.Traces()
	require.Len(t, traces, 2)
	require.Contains(t, traces, trace.InputTrace{1, 9})
	require.Contains(t, traces, trace.InputTrace{2, 9})
}

func TestTentativeAddToRootCostModel(t *testing.T) {
	tr := NewTree()
	tr.AddToRoot(trace.InputTrace{1, 2})

	require.Equal(t, CostCovered, tr.TentativeAddToRoot(trace.InputTrace{1, 2}))
	require.Equal(t, CostExtend, tr.TentativeAddToRoot(trace.InputTrace{1, 2, 3}))
	require.Equal(t, CostBranch, tr.TentativeAddToRoot(trace.InputTrace{5}))
}

func TestGetSubTreeAndUnion(t *testing.T) {
	tr := NewTree()
	tr.AddToRoot(trace.InputTrace{1, 2})
	tr.AddToRoot(trace.InputTrace{1, 3})

	sub := tr.GetSubTree(trace.InputTrace{1})
	require.ElementsMatch(t, []trace.InputTrace{{2}, {3}}, sub.Traces())

	other := NewTree()
	other.AddToRoot(trace.InputTrace{9})
	tr.UnionTree(other)
	require.Contains(t, tr.Traces(), trace.InputTrace{9})
}

func TestRemovePropagatesUpThroughEmptyAncestors(t *testing.T) {
	tr := NewTree()
	tr.AddToRoot(trace.InputTrace{1, 2})

	other := NewTree()
	other.AddToRoot(trace.InputTrace{1, 2})

	tr.Remove(other)
	require.True(t, tr.Root.IsLeaf())
}

func TestRemoveLeavesUnsharedExtensionIntact(t *testing.T) {
	// tr is other's single leaf path extended by one more input, matching
	// how a transition cover extends every leaf of its state cover.
	tr := NewTree()
	tr.AddToRoot(trace.InputTrace{1, 2, 3})

	other := NewTree()
	other.AddToRoot(trace.InputTrace{1, 2})

	tr.Remove(other)
	require.ElementsMatch(t, []trace.InputTrace{{1, 2, 3}}, tr.Traces())
}
