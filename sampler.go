package main

import (
	"iter"
	"math/rand/v2"
	"slices"
	"time"
)

// maxSampleCollisions bounds consecutive duplicate draws before the sampler gives up.
const maxSampleCollisions = 4096

// Sampler draws distinct uniformly random ComboSize-subsets of a pool. A combination is never
// produced twice in one run. It stops at the iteration budget, at the deadline, when the pool has
// no unseen combination left, or after maxSampleCollisions duplicate draws in a row.
//
// budget <= 0 and a zero deadline disable the respective limit.
type Sampler struct {
	pool     []int
	budget   int
	deadline time.Time
	rng      *rand.Rand
	seen     map[Mask]struct{}
	space    int
	now      func() time.Time
}

func NewSampler(pool []int, budget int, deadline time.Time, rng *rand.Rand) *Sampler {
	hint := budget
	if hint <= 0 || hint > 1<<20 {
		hint = 1 << 10
	}
	return &Sampler{
		pool:     slices.Clone(pool),
		budget:   budget,
		deadline: deadline,
		rng:      rng,
		seen:     make(map[Mask]struct{}, hint),
		space:    Binomial(len(pool), ComboSize),
		now:      time.Now,
	}
}

// Emitted is the number of distinct combinations produced so far.
func (s *Sampler) Emitted() int { return len(s.seen) }

func (s *Sampler) Next() (Mask, bool) {
	if s.budget > 0 && len(s.seen) >= s.budget {
		return 0, false
	}
	if !s.deadline.IsZero() && !s.now().Before(s.deadline) {
		return 0, false
	}
	if len(s.seen) >= s.space {
		return 0, false
	}
	for range maxSampleCollisions {
		m := s.draw()
		if _, dup := s.seen[m]; dup {
			continue
		}
		s.seen[m] = struct{}{}
		return m, true
	}
	return 0, false
}

// draw picks ComboSize pool values by a partial Fisher-Yates shuffle.
func (s *Sampler) draw() Mask {
	return randomMask(s.rng, s.pool)
}

func (s *Sampler) All() iter.Seq[Mask] {
	return func(yield func(Mask) bool) {
		for m, ok := s.Next(); ok; m, ok = s.Next() {
			if !yield(m) {
				return
			}
		}
	}
}

// randomMask picks ComboSize distinct values from pool uniformly. It permutes pool in place,
// which keeps it a permutation of the same values. len(pool) must be at least ComboSize.
func randomMask(rng *rand.Rand, pool []int) Mask {
	var m Mask
	n := len(pool)
	for i := 0; i < ComboSize; i++ {
		j := i + rng.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
		m = m.With(pool[i])
	}
	return m
}
