package trace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInputTraceEqualAndPrefixes(t *testing.T) {
	a := InputTrace{1, 2, 3}
	b := InputTrace{1, 2, 3}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(InputTrace{1, 2}))

	prefixes := a.Prefixes()
	require.Equal(t, []InputTrace{{1}, {1, 2}, {1, 2, 3}}, prefixes)
}

func TestIOTraceString(t *testing.T) {
	tc := IOTrace{Inputs: InputTrace{0, 1}, Outputs: OutputTrace{2, 3}}
	require.Equal(t, "0/2.1/3", tc.String(nil))
	require.True(t, IOTrace{}.Empty())
	require.False(t, tc.Empty())
}

func TestSegmentedTrace(t *testing.T) {
	s := NewSegmentedTrace(InputTrace{1, 2})
	s.Append(InputTrace{3, 4, 5})

	require.Equal(t, 5, s.Len())

	v, ok := s.At(0)
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = s.At(3)
	require.True(t, ok)
	require.Equal(t, 4, v)

	_, ok = s.At(10)
	require.False(t, ok)

	require.Equal(t, InputTrace{1, 2, 3, 4, 5}, s.Flatten())

	clone := s.Clone()
	clone.Append(InputTrace{6})
	require.Equal(t, 5, s.Len())
	require.Equal(t, 6, clone.Len())
}
