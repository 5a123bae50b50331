package ascii

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTchar(t *testing.T) {
	require.True(t, IsTchar('a'))
	require.True(t, IsTchar('Z'))
	require.True(t, IsTchar('9'))
	require.True(t, IsTchar('-'))
	require.False(t, IsTchar(' '))
	require.False(t, IsTchar('"'))
	require.False(t, IsTchar('/'))
}

func TestIsVchar(t *testing.T) {
	require.True(t, IsVchar('!'))
	require.True(t, IsVchar('~'))
	require.False(t, IsVchar(' '))
	require.False(t, IsVchar(0x7f))
}

func TestIsDigit(t *testing.T) {
	require.True(t, IsDigit('0'))
	require.True(t, IsDigit('9'))
	require.False(t, IsDigit('a'))
}

func TestIsHexdig(t *testing.T) {
	require.True(t, IsHexdig('0'))
	require.True(t, IsHexdig('a'))
	require.True(t, IsHexdig('F'))
	require.False(t, IsHexdig('g'))
}

func TestHalfbyteTable(t *testing.T) {
	require.EqualValues(t, 10, HalfbyteTable['a'])
	require.EqualValues(t, 10, HalfbyteTable['A'])
	require.EqualValues(t, 9, HalfbyteTable['9'])
	require.EqualValues(t, 0xff, HalfbyteTable['g'])
}

func TestIsCTL(t *testing.T) {
	require.True(t, IsCTL(0x00))
	require.True(t, IsCTL(0x1f))
	require.True(t, IsCTL(0x7f))
	require.False(t, IsCTL('a'))
}

func TestIsURIChar(t *testing.T) {
	require.True(t, IsURIChar('/'))
	require.True(t, IsURIChar('a'))
	require.False(t, IsURIChar('%'))
	require.False(t, IsURIChar(' '))
}

func TestIsQueryExtra(t *testing.T) {
	require.True(t, IsQueryExtra('/'))
	require.True(t, IsQueryExtra('?'))
	require.False(t, IsQueryExtra('&'))
}
