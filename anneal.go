package main

import (
	"math"
	"math/rand/v2"
)

// Result is the best combination an annealer invocation found.
type Result struct {
	Mask      Mask
	Score     int
	Breakdown Breakdown
}

// Annealer is a single-mask local search over the full domain. One Annealer is not safe for
// concurrent use; give each worker its own, sharing only the read-only Matrix.
type Annealer struct {
	matrix *Matrix
	rng    *rand.Rand
	iters  int
	t0     float64

	// Visited, when set, is offered every accepted state.
	Visited *TopK
	// OnStep, when set, observes every step after the acceptance decision.
	OnStep func(step int, current Mask, currentScore, bestScore int)
}

func NewAnnealer(m *Matrix, rng *rand.Rand, iters int, t0 float64) *Annealer {
	return &Annealer{matrix: m, rng: rng, iters: iters, t0: t0}
}

// Run anneals from seed for the configured number of steps under the linear cooling schedule
// T_i = T0·(1 − i/iters) and returns the best state seen, not the final one.
func (a *Annealer) Run(seed Mask) Result {
	return a.search(seed, a.iters, a.t0)
}

// Greedy is Run with the temperature held at zero: only strictly improving moves are taken.
func (a *Annealer) Greedy(seed Mask, iters int) Result {
	return a.search(seed, iters, 0)
}

func (a *Annealer) search(seed Mask, iters int, t0 float64) Result {
	cur := seed
	curScore := a.matrix.Total(cur)
	best, bestScore := cur, curScore
	if a.Visited != nil {
		a.visit(cur, curScore)
	}

	for i := 0; i < iters; i++ {
		temp := t0 * (1 - float64(i)/float64(iters))
		cand := a.neighbor(cur)
		candScore := a.matrix.Total(cand)

		if accept(candScore-curScore, temp, a.rng) {
			cur, curScore = cand, candScore
			if curScore < bestScore {
				best, bestScore = cur, curScore
			}
			if a.Visited != nil {
				a.visit(cur, curScore)
			}
		}
		if a.OnStep != nil {
			a.OnStep(i, cur, curScore, bestScore)
		}
	}

	score, b := a.matrix.Score(best)
	return Result{Mask: best, Score: score, Breakdown: b}
}

func (a *Annealer) visit(m Mask, score int) {
	if worst, full := a.Visited.Worst(); full && score >= worst {
		return
	}
	_, b := a.matrix.Score(m)
	a.Visited.Insert(m, score, b)
}

// neighbor swaps one selected value, chosen uniformly, for one unselected value, chosen uniformly.
func (a *Annealer) neighbor(m Mask) Mask {
	out := m.nth(a.rng.IntN(ComboSize))
	in := (domainMask &^ m).nth(a.rng.IntN(DomainSize - ComboSize))
	return m.Without(out).With(in)
}

// accept is the Metropolis criterion. A non-positive temperature accepts only improvements.
func accept(delta int, temp float64, rng *rand.Rand) bool {
	if delta < 0 {
		return true
	}
	if temp <= 0 {
		return false
	}
	return rng.Float64() < math.Exp(-float64(delta)/temp)
}
