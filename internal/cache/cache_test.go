package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrComputeMemoizes(t *testing.T) {
	c := New[[]int]()
	calls := 0
	compute := func() []int {
		calls++
		return []int{calls}
	}

	first := c.GetOrCompute("file:///a.c", compute)
	second := c.GetOrCompute("file:///a.c", compute)

	require.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
	assert.Equal(t, 1, c.Len())
}

func TestDeleteForcesRecompute(t *testing.T) {
	c := New[string]()
	c.GetOrCompute("doc", func() string { return "old" })

	c.Delete("doc")
	_, ok := c.Get("doc")
	require.False(t, ok)

	got := c.GetOrCompute("doc", func() string { return "new" })
	assert.Equal(t, "new", got)

	c.Delete("missing")
	assert.Equal(t, 1, c.Len())
}

func TestClear(t *testing.T) {
	c := New[int]()
	c.GetOrCompute("a", func() int { return 1 })
	c.GetOrCompute("b", func() int { return 2 })
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
