package main

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quickConfig keeps annealed runs short enough for unit tests.
func quickConfig(mode Mode) Config {
	cfg := DefaultConfig()
	cfg.Mode = mode
	cfg.K = 5
	cfg.AnnealIters = 1500
	cfg.FreqSeeds = 3
	cfg.RandomSeeds = 3
	cfg.RefineIters = 300
	cfg.Budget = 5000
	cfg.Workers = 2
	return cfg
}

// verifyResult checks what every search result must satisfy: at most K valid, distinct entries,
// ranked by score, each carrying the score the matrix gives it.
func verifyResult(t *testing.T, m *Matrix, cfg Config, res *SearchResult) {
	t.Helper()
	require.NotNil(t, res)
	assert.Equal(t, cfg.Mode, res.Mode)
	require.NotEmpty(t, res.Entries)
	assert.LessOrEqual(t, len(res.Entries), cfg.K)
	assert.True(t, slices.IsSortedFunc(res.Entries, func(a, b Entry) int { return a.Score - b.Score }))

	seen := make(map[Mask]bool)
	for _, e := range res.Entries {
		require.True(t, e.Mask.Valid(), "%b", e.Mask)
		require.False(t, seen[e.Mask], "duplicate %v", e.Mask)
		seen[e.Mask] = true

		score, bd := m.Score(e.Mask)
		assert.Equal(t, score, e.Score, "%v", e.Mask)
		assert.Equal(t, bd, e.Breakdown, "%v", e.Mask)
	}
	best, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, res.Entries[0], best)
}

func TestOptimizeModes(t *testing.T) {
	store := NewTicketStore(randomTickets(testRand(42), 500))
	for _, mode := range []Mode{ModeAnnealed, ModeExhaustive, ModeRandomized} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := quickConfig(mode)
			opt, err := NewOptimizer(store, cfg)
			require.NoError(t, err)

			res, err := opt.Optimize(context.Background())
			require.NoError(t, err)
			verifyResult(t, opt.Matrix(), cfg, res)
			assert.Len(t, res.Entries, cfg.K)
			assert.Positive(t, res.Evaluated)
		})
	}
}

func TestOptimizeExhaustiveMatchesBruteForce(t *testing.T) {
	store := NewTicketStore(randomTickets(testRand(5), 250))
	m := mustMatrix(t, store)

	cfg := quickConfig(ModeExhaustive)
	cfg.PoolSize = 10
	cfg.Budget = 0
	cfg.RefineIters = 0
	cfg.Workers = 3

	type scored struct {
		mask  Mask
		score int
	}
	var all []scored
	for _, c := range combinations(store.LeastFrequent(cfg.PoolSize), ComboSize) {
		all = append(all, scored{c, m.Total(c)})
	}
	slices.SortStableFunc(all, func(a, b scored) int { return a.score - b.score })

	opt, err := NewOptimizer(store, cfg)
	require.NoError(t, err)
	res, err := opt.Optimize(context.Background())
	require.NoError(t, err)
	verifyResult(t, m, cfg, res)
	assert.Equal(t, Binomial(10, ComboSize), res.Evaluated)

	require.Len(t, res.Entries, cfg.K)
	for i, e := range res.Entries {
		assert.Equal(t, all[i].mask, e.Mask, "rank %d", i+1)
		assert.Equal(t, all[i].score, e.Score, "rank %d", i+1)
	}

	// Refinement can only lower the best score.
	cfg.RefineIters = 500
	opt, err = NewOptimizer(store, cfg)
	require.NoError(t, err)
	refined, err := opt.Optimize(context.Background())
	require.NoError(t, err)
	verifyResult(t, m, cfg, refined)
	assert.LessOrEqual(t, refined.Entries[0].Score, all[0].score)
}

func TestOptimizeDeterministicAcrossWorkers(t *testing.T) {
	store := NewTicketStore(randomTickets(testRand(9), 400))
	for _, mode := range []Mode{ModeAnnealed, ModeExhaustive, ModeRandomized} {
		t.Run(string(mode), func(t *testing.T) {
			run := func(workers int) []Entry {
				cfg := quickConfig(mode)
				cfg.Workers = workers
				res, err := runSearch(context.Background(), store, cfg)
				require.NoError(t, err)
				return res.Entries
			}
			one := run(1)
			assert.Equal(t, one, run(4))
			assert.Equal(t, one, run(1))
		})
	}
}

func TestOptimizeZeroPayout(t *testing.T) {
	// Every ticket draws from 1..10, so the best combination pays nothing.
	rng := testRand(4)
	low := allValues()[:10]
	tickets := make([]Ticket, 80)
	for i := range tickets {
		tickets[i] = Ticket{mask: randomMask(rng, low)}
	}
	store := NewTicketStore(tickets)

	for _, mode := range []Mode{ModeAnnealed, ModeExhaustive, ModeRandomized} {
		t.Run(string(mode), func(t *testing.T) {
			res, err := runSearch(context.Background(), store, quickConfig(mode))
			require.NoError(t, err)
			best, ok := res.Best()
			require.True(t, ok)
			assert.Zero(t, best.Score)
			assert.Equal(t, Breakdown{}, best.Breakdown)
		})
	}
}

func TestOptimizeErrors(t *testing.T) {
	_, err := NewOptimizer(NewTicketStore(nil), DefaultConfig())
	assert.ErrorIs(t, err, ErrNoTickets)

	store := storeOf(t, []int{1, 2, 3, 4, 5, 6, 7})
	cfg := DefaultConfig()
	cfg.K = 0
	_, err = NewOptimizer(store, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, mode := range []Mode{ModeAnnealed, ModeExhaustive, ModeRandomized} {
		_, err := runSearch(ctx, store, quickConfig(mode))
		assert.ErrorIs(t, err, context.Canceled, "mode %s", mode)
	}
}

func TestOptimizeRandomizedDeadline(t *testing.T) {
	store := NewTicketStore(randomTickets(testRand(12), 200))
	cfg := quickConfig(ModeRandomized)
	cfg.Budget = 0
	cfg.Deadline = 50 * time.Millisecond
	cfg.RefineIters = 0

	start := time.Now()
	res, err := runSearch(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Positive(t, res.Evaluated)
	verifyResult(t, mustMatrix(t, store), cfg, res)
}

func TestOptimizeExhaustiveBudget(t *testing.T) {
	store := NewTicketStore(randomTickets(testRand(3), 100))
	cfg := quickConfig(ModeExhaustive)
	cfg.Budget = 100
	res, err := runSearch(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Evaluated)

	cfg.PoolSize = 8
	cfg.Budget = 1000
	res, err = runSearch(context.Background(), store, cfg)
	require.NoError(t, err)
	assert.Equal(t, Binomial(8, ComboSize), res.Evaluated, "space smaller than budget")
}

func TestGenerateSeeds(t *testing.T) {
	store := NewTicketStore(randomTickets(testRand(1), 150))
	cfg := quickConfig(ModeAnnealed)
	cfg.FreqSeeds = 10
	cfg.RandomSeeds = 10
	opt, err := NewOptimizer(store, cfg)
	require.NoError(t, err)

	seeds := opt.generateSeeds()
	require.NotEmpty(t, seeds)
	assert.LessOrEqual(t, len(seeds), 21)
	assert.Equal(t, MaskOf(store.LeastFrequent(ComboSize)...), seeds[0])

	pool := MaskOf(store.LeastFrequent(cfg.PoolSize)...)
	seen := make(map[Mask]bool)
	for i, s := range seeds {
		require.True(t, s.Valid())
		require.False(t, seen[s])
		seen[s] = true
		if i >= 1 && i <= cfg.FreqSeeds && len(seeds) == 21 {
			assert.Zero(t, s&^pool, "frequency seed %d left the pool", i)
		}
	}
	assert.Equal(t, seeds, opt.generateSeeds())
}
