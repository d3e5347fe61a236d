package strpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntern_DedupesAndPreservesFirstAppearanceOrder(t *testing.T) {
	require := require.New(t)

	p := New()

	i0 := p.Intern("alpha")
	i1 := p.Intern("beta")
	i2 := p.Intern("alpha") // duplicate

	require.Equal(0, i0)
	require.Equal(1, i1)
	require.Equal(0, i2, "re-interning an existing string returns its original index")
	require.Equal(2, p.Len(), "a duplicate must not grow the pool")

	require.Equal([]string{"alpha", "beta"}, p.Values())
}

func TestGet_OutOfRange(t *testing.T) {
	require := require.New(t)

	p := New()
	p.Intern("only")

	s, ok := p.Get(0)
	require.True(ok)
	require.Equal("only", s)

	_, ok = p.Get(1)
	require.False(ok)

	_, ok = p.Get(-1)
	require.False(ok)
}

func TestFromValues(t *testing.T) {
	require := require.New(t)

	p := FromValues([]string{"x", "y", "x"})
	require.Equal(3, p.Len())

	s, ok := p.Get(2)
	require.True(ok)
	require.Equal("x", s)
}
