package span

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAndBytes(t *testing.T) {
	buf := []byte("GET / HTTP/1.1")
	s := New(0, 3)
	require.Equal(t, "GET", string(s.Bytes(buf)))
	require.Equal(t, "GET", s.Str(buf))
}

func TestEmpty(t *testing.T) {
	require.True(t, Zero.Empty())
	require.False(t, New(0, 1).Empty())
}

func TestEnd(t *testing.T) {
	s := New(4, 10)
	require.EqualValues(t, 10, s.End())
}

func TestZeroResolvesToEmptyString(t *testing.T) {
	buf := []byte("anything")
	require.Equal(t, "", Zero.Str(buf))
}
