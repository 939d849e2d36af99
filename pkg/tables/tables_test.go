package tables

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildSample builds a 3-state DFSM table where states 1 and 2 are
// equivalent (same output row, same successor classes) and state 0 is
// not, so Chain should collapse to two classes.
func buildSample() *DFSMTable {
	dt := NewDFSMTable(3, 1)
	dt.Set(0, 0, 1, 0)
	dt.Set(0, 1, 2, 1)
	dt.Set(1, 0, 1, 1)
	dt.Set(1, 1, 1, 1)
	dt.Set(2, 0, 2, 1)
	dt.Set(2, 1, 2, 1)
	return dt
}

func TestPkChainConverges(t *testing.T) {
	dt := buildSample()
	chain := Chain(dt, 1)
	require.NotEmpty(t, chain)

	last := chain[len(chain)-1]
	require.NotEqual(t, last.GetClass(0), last.GetClass(1))
	require.Equal(t, last.GetClass(1), last.GetClass(2))
}

func TestCompareColumns(t *testing.T) {
	dt := buildSample()
	require.True(t, dt.CompareColumns(1, 0, 1, 1))
	require.False(t, dt.CompareColumns(0, 0, 0, 1))
}

func TestOFSMChainBaseLevel(t *testing.T) {
	// state 0: defines (0,0)->1 and (1,1)->2; state 1: defines only (0,0)->1;
	// state 2: defines only (0,1)->2, so the three states define different
	// (input,output) pairs and are already in separate classes at level 0.
	next := func(state, input, output int) int {
		switch {
		case state == 0 && input == 0 && output == 0:
			return 1
		case state == 0 && input == 1 && output == 1:
			return 2
		case state == 1 && input == 0 && output == 0:
			return 1
		case state == 2 && input == 0 && output == 1:
			return 2
		}
		return -1
	}
	chain := OFSMChain(3, 1, 1, next)
	require.NotEmpty(t, chain)
	base := chain[0]
	require.NotEqual(t, base.S2C(0), base.S2C(1))
}
