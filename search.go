package main

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// rng stream ids; annealer i uses streamAnneal+i.
const (
	streamSeeds   uint64 = 0
	streamSampler uint64 = 1
	streamRefine  uint64 = 2
	streamAnneal  uint64 = 1 << 32
)

// scanBatch is the number of candidates handed to a scan worker at once.
const scanBatch = 4096

// SearchResult is the ranked outcome of one Optimize call.
type SearchResult struct {
	Mode      Mode
	Entries   []Entry
	Seeds     int
	Evaluated int
	Refined   int
	Elapsed   time.Duration
}

// Best returns the lowest-payout entry.
func (r *SearchResult) Best() (Entry, bool) {
	if r == nil || len(r.Entries) == 0 {
		return Entry{}, false
	}
	return r.Entries[0], true
}

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer searches for the combinations with the lowest payout against a ticket store.
// All state it shares with its workers is read-only.
type Optimizer struct {
	cfg    Config
	store  *TicketStore
	matrix *Matrix
	least  []int // every domain value, least frequent first
}

// NewOptimizer validates cfg and builds the indicator matrix. An empty store fails with
// ErrNoTickets.
func NewOptimizer(store *TicketStore, cfg Config) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := NewMatrix(store, DefaultTiers())
	if err != nil {
		return nil, err
	}
	return &Optimizer{
		cfg:    cfg,
		store:  store,
		matrix: m,
		least:  store.LeastFrequent(DomainSize),
	}, nil
}

func (o *Optimizer) Matrix() *Matrix { return o.matrix }

func (o *Optimizer) rand(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(o.cfg.Seed, stream))
}

func (o *Optimizer) numWorkers(units int) int {
	n := o.cfg.Workers
	if n == 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return max(1, min(n, units))
}

// reducedPool is the PoolSize least-frequent values.
func (o *Optimizer) reducedPool() []int {
	return slices.Clone(o.least[:o.cfg.PoolSize])
}

// Optimize runs the configured search mode, merges everything into a top-K tracker, refines the
// survivors greedily and returns them ranked. Cancelling ctx aborts with ctx's error; hitting the
// configured deadline only ends the search phase early.
func (o *Optimizer) Optimize(ctx context.Context) (*SearchResult, error) {
	start := time.Now()
	var deadline time.Time
	if o.cfg.Deadline > 0 {
		deadline = start.Add(o.cfg.Deadline)
	}

	slog.Info("search started",
		"mode", o.cfg.Mode, "tickets", o.matrix.Tickets(), "rows", o.matrix.Rows(), "k", o.cfg.K)

	top := NewTopK(o.cfg.K)
	res := &SearchResult{Mode: o.cfg.Mode}
	var err error
	switch o.cfg.Mode {
	case ModeAnnealed:
		res.Seeds, res.Evaluated, err = o.anneal(ctx, deadline, top)
	case ModeExhaustive:
		e := NewEnumerator(o.reducedPool(), o.cfg.Budget)
		slog.Info("scan", "pool", o.cfg.PoolSize, "space", e.Space(), "budget", o.cfg.Budget)
		res.Evaluated, err = o.scan(ctx, deadline, e.Next, top)
	case ModeRandomized:
		s := NewSampler(allValues(), o.cfg.Budget, deadline, o.rand(streamSampler))
		slog.Info("sample", "budget", o.cfg.Budget, "deadline", o.cfg.Deadline)
		res.Evaluated, err = o.scan(ctx, time.Time{}, s.Next, top)
	}
	if err != nil {
		return nil, err
	}
	if worst, ok := top.Worst(); ok {
		slog.Info("search phase done", "evaluated", res.Evaluated, "kept", top.Len(), "worst", worst)
	} else {
		slog.Info("search phase done", "evaluated", res.Evaluated, "kept", top.Len())
	}

	res.Refined = top.Refine(NewAnnealer(o.matrix, o.rand(streamRefine), 0, 0), o.cfg.RefineIters)
	res.Entries = top.Entries()
	res.Elapsed = time.Since(start)

	if best, ok := res.Best(); ok {
		slog.Info("done", "best", best.Score, "combo", best.Combo().String(),
			"refined", res.Refined, "elapsed", res.Elapsed)
	}
	return res, nil
}

// ── Seeds ───────────────────────────────────────────────────────────

// frequencySeed is the deterministic seed: the ComboSize least-frequent values.
func (o *Optimizer) frequencySeed() Mask {
	return MaskOf(o.least[:ComboSize]...)
}

// generateSeeds returns the frequency seed, FreqSeeds seeds drawn from the reduced pool and
// RandomSeeds seeds drawn from the whole domain, without duplicates.
func (o *Optimizer) generateSeeds() []Mask {
	rng := o.rand(streamSeeds)
	seeds := make([]Mask, 0, 1+o.cfg.FreqSeeds+o.cfg.RandomSeeds)
	seeds = append(seeds, o.frequencySeed())

	pool := o.reducedPool()
	for range o.cfg.FreqSeeds {
		seeds = append(seeds, randomMask(rng, pool))
	}
	full := allValues()
	for range o.cfg.RandomSeeds {
		seeds = append(seeds, randomMask(rng, full))
	}
	return dedupSeeds(seeds)
}

func dedupSeeds(seeds []Mask) []Mask {
	seen := make(map[Mask]bool, len(seeds))
	var out []Mask
	for _, s := range seeds {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// ── Annealed mode ───────────────────────────────────────────────────

// anneal runs one annealer per seed on a worker pool. Every worker owns its annealer and rng
// stream; results are merged in seed order so ties resolve identically on every run.
func (o *Optimizer) anneal(ctx context.Context, deadline time.Time, top *TopK) (int, int, error) {
	seeds := o.generateSeeds()
	slog.Info("seed", "count", len(seeds))

	type result struct {
		idx     int
		best    Result
		visited *TopK
	}
	seedCh := make(chan int, len(seeds))
	for i := range seeds {
		seedCh <- i
	}
	close(seedCh)
	resultCh := make(chan result, len(seeds))

	var wg sync.WaitGroup
	for range o.numWorkers(len(seeds)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range seedCh {
				if ctx.Err() != nil || expired(deadline) {
					continue
				}
				a := NewAnnealer(o.matrix, o.rand(streamAnneal+uint64(idx)), o.cfg.AnnealIters, o.cfg.T0)
				a.Visited = NewTopK(o.cfg.K)
				resultCh <- result{idx: idx, best: a.Run(seeds[idx]), visited: a.Visited}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]*result, len(seeds))
	for r := range resultCh {
		slog.Debug("anneal", "seed", r.idx, "score", r.best.Score, "combo", r.best.Mask.String())
		results[r.idx] = &r
	}
	if err := ctx.Err(); err != nil {
		return len(seeds), 0, err
	}

	done := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		done++
		top.Insert(r.best.Mask, r.best.Score, r.best.Breakdown)
		top.Merge(r.visited)
	}
	if done < len(seeds) {
		slog.Warn("deadline reached before all seeds ran", "ran", done, "seeds", len(seeds))
	}
	return len(seeds), done * o.cfg.AnnealIters, nil
}

// ── Exhaustive / randomized modes ───────────────────────────────────

// scan pulls candidates from next in batches and scores them on a worker pool. Each worker keeps
// a local top-K whose sequence numbers are candidate positions; the locals are merged at the end.
// The deadline and ctx are checked between candidates, never mid-score.
func (o *Optimizer) scan(ctx context.Context, deadline time.Time, next func() (Mask, bool), top *TopK) (int, error) {
	type batch struct {
		base  uint64
		masks []Mask
	}
	workers := o.numWorkers(math.MaxInt)
	batches := make(chan batch, workers)
	locals := make([]*TopK, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := range locals {
		local := NewTopK(o.cfg.K)
		locals[w] = local
		g.Go(func() error {
			for b := range batches {
				for i, m := range b.masks {
					score := o.matrix.Total(m)
					if worst, full := local.Worst(); full && score >= worst {
						continue
					}
					_, bd := o.matrix.Score(m)
					local.Offer(Entry{Score: score, Seq: b.base + uint64(i), Mask: m, Breakdown: bd})
				}
			}
			return nil
		})
	}

	evaluated := 0
produce:
	for gctx.Err() == nil {
		masks := make([]Mask, 0, scanBatch)
		for len(masks) < scanBatch && !expired(deadline) {
			m, ok := next()
			if !ok {
				break
			}
			masks = append(masks, m)
		}
		if len(masks) == 0 {
			break
		}
		select {
		case batches <- batch{base: uint64(evaluated), masks: masks}:
			evaluated += len(masks)
		case <-gctx.Done():
			break produce
		}
	}
	close(batches)

	if err := g.Wait(); err != nil {
		return evaluated, err
	}
	if err := ctx.Err(); err != nil {
		return evaluated, err
	}
	top.MergeAll(locals)
	return evaluated, nil
}

func expired(deadline time.Time) bool {
	return !deadline.IsZero() && !time.Now().Before(deadline)
}

func allValues() []int {
	out := make([]int, DomainSize)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
