package main

import (
	"container/heap"
	"slices"
	"sync"
)

// Entry is one retained combination. Seq orders entries with equal scores: the earlier
// insertion ranks first. It carries no other meaning.
type Entry struct {
	Score     int
	Seq       uint64
	Mask      Mask
	Breakdown Breakdown
}

func (e Entry) Combo() Combo { return e.Mask.Combo() }

// compareEntries orders by (score, seq) ascending.
func compareEntries(a, b Entry) int {
	if a.Score != b.Score {
		if a.Score < b.Score {
			return -1
		}
		return 1
	}
	switch {
	case a.Seq < b.Seq:
		return -1
	case a.Seq > b.Seq:
		return 1
	}
	return 0
}

// entryHeap is a max-heap on (score, seq): the worst retained entry sits at index 0.
type entryHeap []*Entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return compareEntries(*h[i], *h[j]) > 0 }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(*Entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// ── TopK ────────────────────────────────────────────────────────────

// TopK retains at most k distinct combinations with the smallest (score, seq). It is safe for
// concurrent use; inserts are serialized by a mutex.
type TopK struct {
	mu   sync.Mutex
	k    int
	seq  uint64
	h    entryHeap
	held map[Mask]struct{}
}

func NewTopK(k int) *TopK {
	k = max(k, 1)
	return &TopK{
		k:    k,
		h:    make(entryHeap, 0, k),
		held: make(map[Mask]struct{}, k),
	}
}

func (t *TopK) K() int { return t.k }

func (t *TopK) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.h)
}

// Insert offers a combination under the next sequence number and reports whether it was kept.
// A combination already held is discarded; so is one that does not beat the worst retained
// score once the tracker is full.
func (t *TopK) Insert(m Mask, score int, b Breakdown) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := Entry{Score: score, Seq: t.seq, Mask: m, Breakdown: b}
	t.seq++
	return t.offer(e)
}

// Offer inserts e keeping its caller-assigned sequence number. Local trackers use it to order
// ties by enumeration position rather than by which worker got there first.
func (t *TopK) Offer(e Entry) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e.Seq >= t.seq {
		t.seq = e.Seq + 1
	}
	return t.offer(e)
}

func (t *TopK) offer(e Entry) bool {
	if _, dup := t.held[e.Mask]; dup {
		return false
	}
	if len(t.h) < t.k {
		heap.Push(&t.h, &e)
		t.held[e.Mask] = struct{}{}
		return true
	}
	if compareEntries(e, *t.h[0]) >= 0 {
		return false
	}
	worst := heap.Pop(&t.h).(*Entry)
	delete(t.held, worst.Mask)
	heap.Push(&t.h, &e)
	t.held[e.Mask] = struct{}{}
	return true
}

// Worst returns the largest retained score, or false while the tracker is not full.
func (t *TopK) Worst() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.h) < t.k {
		return 0, false
	}
	return t.h[0].Score, true
}

// Entries returns the retained entries sorted ascending by score, sequence as tie-break.
func (t *TopK) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sorted()
}

func (t *TopK) sorted() []Entry {
	out := make([]Entry, len(t.h))
	for i, e := range t.h {
		out[i] = *e
	}
	slices.SortFunc(out, compareEntries)
	return out
}

// Merge inserts other's entries, best first, under fresh sequence numbers.
func (t *TopK) Merge(other *TopK) {
	if other == nil || other == t {
		return
	}
	for _, e := range other.Entries() {
		t.Insert(e.Mask, e.Score, e.Breakdown)
	}
}

// MergeAll pools the entries of several trackers, orders them by (score, seq) and inserts them
// in that order. Used when the locals share one sequence space.
func (t *TopK) MergeAll(locals []*TopK) {
	var all []Entry
	for _, l := range locals {
		if l != nil {
			all = append(all, l.Entries()...)
		}
	}
	slices.SortFunc(all, compareEntries)
	for _, e := range all {
		t.Insert(e.Mask, e.Score, e.Breakdown)
	}
}

// ── Refinement ──────────────────────────────────────────────────────

// Refine runs a greedy local search of iters steps from every retained entry and keeps a refined
// combination when it strictly lowers the score and is not already held. It returns how many
// entries improved.
func (t *TopK) Refine(a *Annealer, iters int) int {
	if iters <= 0 {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	order := slices.Clone(t.h)
	slices.SortFunc(order, func(x, y *Entry) int { return compareEntries(*x, *y) })

	improved := 0
	for _, e := range order {
		r := a.Greedy(e.Mask, iters)
		if r.Score >= e.Score {
			continue
		}
		if _, dup := t.held[r.Mask]; dup {
			continue
		}
		delete(t.held, e.Mask)
		t.held[r.Mask] = struct{}{}
		e.Mask, e.Score, e.Breakdown = r.Mask, r.Score, r.Breakdown
		improved++
	}
	heap.Init(&t.h)
	return improved
}
