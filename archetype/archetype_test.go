package archetype

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsSumToOneHundred(t *testing.T) {
	total := 0
	for _, a := range All() {
		total += a.Weight
	}
	assert.Equal(t, 100, total)
}

func TestByName(t *testing.T) {
	a, ok := ByName("explorer")
	require.True(t, ok)
	assert.Equal(t, "Explorer", a.Name)
	assert.Equal(t, "Explorer Innovative", a.Voice)

	_, ok = ByName("villain")
	assert.False(t, ok)
}

func TestPickConvergesToWeights(t *testing.T) {
	const draws = 100_000
	sel := NewSelector(rand.New(rand.NewSource(7)))

	counts := make(map[string]int)
	for i := 0; i < draws; i++ {
		counts[sel.Pick().Name]++
	}

	for _, a := range All() {
		expected := float64(a.Weight) / 100.0
		observed := float64(counts[a.Name]) / draws
		assert.LessOrEqual(t, math.Abs(observed-expected), 0.01,
			"archetype %s: observed %.3f, expected %.3f", a.Name, observed, expected)
	}
}

func TestPickCoversEveryArchetype(t *testing.T) {
	sel := NewSelector(rand.New(rand.NewSource(42)))
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[sel.Pick().Name] = true
	}
	assert.Len(t, seen, len(All()))
}
