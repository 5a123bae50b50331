package headerlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendGrowsAndReports(t *testing.T) {
	l := New[int](2, 100)
	for i := 0; i < 10; i++ {
		ok := l.Append(i)
		require.True(t, ok)
	}
	require.Equal(t, 10, l.Len())
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, l.Slice())
}

func TestAppendRespectsMaxCount(t *testing.T) {
	l := New[int](2, 3)
	require.True(t, l.Append(1))
	require.True(t, l.Append(2))
	require.True(t, l.Append(3))
	require.False(t, l.Append(4))
	require.Equal(t, 3, l.Len())
}

func TestResetEmptiesWithoutRealloc(t *testing.T) {
	l := New[int](4, 10)
	l.Append(1)
	l.Append(2)
	l.Reset()
	require.Equal(t, 0, l.Len())
	require.Equal(t, 4, cap(l.Slice()))
	require.True(t, l.Append(3))
	require.Equal(t, []int{3}, l.Slice())
}

func TestNewZeroInitialCapacityGrows(t *testing.T) {
	l := New[string](0, 4)
	require.True(t, l.Append("a"))
	require.True(t, l.Append("b"))
	require.Equal(t, 2, l.Len())
}
