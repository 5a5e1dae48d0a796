package main

import (
	"iter"
	"slices"
)

// Enumerator walks every ComboSize-subset of a reduced pool in canonical order: lexicographic by
// position in the pool. It is lazy, stops after budget combinations (budget <= 0 means no cap)
// or when the pool is exhausted, and Reset restarts the identical sequence.
//
// The pool must hold distinct domain values.
type Enumerator struct {
	pool    []int
	budget  int
	idx     [ComboSize]int
	emitted int
	started bool
	done    bool
}

func NewEnumerator(pool []int, budget int) *Enumerator {
	e := &Enumerator{pool: slices.Clone(pool), budget: budget}
	e.Reset()
	return e
}

func (e *Enumerator) Reset() {
	e.emitted = 0
	e.started = false
	e.done = len(e.pool) < ComboSize
}

// Emitted is the number of combinations produced since the last Reset.
func (e *Enumerator) Emitted() int { return e.emitted }

// Space is the number of combinations the pool holds, ignoring the budget.
func (e *Enumerator) Space() int { return Binomial(len(e.pool), ComboSize) }

func (e *Enumerator) Next() (Mask, bool) {
	if e.done || (e.budget > 0 && e.emitted >= e.budget) {
		return 0, false
	}
	if !e.started {
		for i := range e.idx {
			e.idx[i] = i
		}
		e.started = true
	} else if !e.advance() {
		e.done = true
		return 0, false
	}
	e.emitted++

	var m Mask
	for _, p := range e.idx {
		m = m.With(e.pool[p])
	}
	return m, true
}

// advance moves idx to the next position tuple, reporting false past the last one.
func (e *Enumerator) advance() bool {
	n := len(e.pool)
	for i := ComboSize - 1; i >= 0; i-- {
		if e.idx[i] < n-ComboSize+i {
			e.idx[i]++
			for j := i + 1; j < ComboSize; j++ {
				e.idx[j] = e.idx[j-1] + 1
			}
			return true
		}
	}
	return false
}

// All restarts the enumerator and yields its full sequence.
func (e *Enumerator) All() iter.Seq[Mask] {
	return func(yield func(Mask) bool) {
		e.Reset()
		for m, ok := e.Next(); ok; m, ok = e.Next() {
			if !yield(m) {
				return
			}
		}
	}
}

// Binomial returns C(n, k), or 0 when k is out of range.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}
