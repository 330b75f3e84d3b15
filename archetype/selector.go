package archetype

import "math/rand"

// Selector picks personas at random, biased by table weights. Selection
// probability converges to Weight/100 over repeated draws.
type Selector struct {
	rng      *rand.Rand
	expanded []int // index into table, repeated Weight times
}

// NewSelector creates a selector with the given random source. A nil source
// falls back to the shared package-level source.
func NewSelector(rng *rand.Rand) *Selector {
	s := &Selector{rng: rng}
	for i, a := range table {
		for j := 0; j < a.Weight; j++ {
			s.expanded = append(s.expanded, i)
		}
	}
	return s
}

// Pick draws one persona uniformly from the weight-expanded key list.
func (s *Selector) Pick() Archetype {
	var n int
	if s.rng != nil {
		n = s.rng.Intn(len(s.expanded))
	} else {
		n = rand.Intn(len(s.expanded))
	}
	return table[s.expanded[n]]
}
