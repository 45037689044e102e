package randutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestShufflePermutes(t *testing.T) {
	rng := New(7)
	s := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	Shuffle(rng, s)

	sorted := slices.Clone(s)
	slices.Sort(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)
}

func TestShuffleEdgeCases(t *testing.T) {
	rng := New(1)
	var empty []int
	Shuffle(rng, empty)
	assert.Empty(t, empty)

	one := []string{"x"}
	Shuffle(rng, one)
	assert.Equal(t, []string{"x"}, one)
}

// Every permutation of three elements should come up roughly 1/6 of the time.
func TestShuffleUniform(t *testing.T) {
	rng := New(2024)
	counts := make(map[[3]int]int)
	const trials = 60000
	for i := 0; i < trials; i++ {
		s := []int{0, 1, 2}
		Shuffle(rng, s)
		counts[[3]int{s[0], s[1], s[2]}]++
	}

	require.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, trials/6, n, trials/60, "permutation %v", perm)
	}
}
