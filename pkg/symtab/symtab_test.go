package symtab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupRoundTrip(t *testing.T) {
	tbl := New([]string{"a", "b"}, []string{"x", "y", "z"}, []string{"s0", "s1"})

	in, ok := tbl.In2Num("b")
	require.True(t, ok)
	require.Equal(t, 1, in)

	out, ok := tbl.Out2Num("z")
	require.True(t, ok)
	require.Equal(t, 2, out)

	st, ok := tbl.State2Num("s1")
	require.True(t, ok)
	require.Equal(t, 1, st)

	_, ok = tbl.In2Num("nope")
	require.False(t, ok)
}

func TestGetIdSynthesizesOutOfRange(t *testing.T) {
	tbl := New([]string{"a"}, []string{"x"}, []string{"s0"})

	require.Equal(t, "a", tbl.GetInId(0))
	require.Equal(t, "5", tbl.GetInId(5))
	require.Equal(t, "s0", tbl.GetStateId(0, "s"))
	require.Equal(t, "s7", tbl.GetStateId(7, "s"))
}

func TestAddAndRemoveState(t *testing.T) {
	tbl := New(nil, nil, []string{"s0", "s1"})

	id := tbl.AddState2String("s2")
	require.Equal(t, 2, id)
	n, ok := tbl.State2Num("s2")
	require.True(t, ok)
	require.Equal(t, 2, n)

	tbl.RemoveState2String(0)
	require.Equal(t, []string{"s1", "s2"}, tbl.States())
	n, ok = tbl.State2Num("s2")
	require.True(t, ok)
	require.Equal(t, 1, n)
}

func TestCompareIgnoresStateNames(t *testing.T) {
	a := New([]string{"a"}, []string{"x"}, []string{"p", "q"})
	b := New([]string{"a"}, []string{"x"}, []string{"different", "names"})
	require.True(t, Compare(a, b))

	c := New([]string{"a", "b"}, []string{"x"}, []string{"p", "q"})
	require.False(t, Compare(a, c))
}

func TestClone(t *testing.T) {
	tbl := New([]string{"a"}, []string{"x"}, []string{"s0"})
	clone := tbl.Clone()
	clone.AddState2String("s1")
	require.Len(t, clone.States(), 2)
	require.Len(t, tbl.States(), 1)
}
