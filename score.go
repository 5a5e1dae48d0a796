package main

import (
	"fmt"
	"math/bits"
)

// ── Indicator matrix ────────────────────────────────────────────────

// Matrix is the ticket-by-value indicator matrix, built once per run and read-only after.
//
// Each row is bit-packed: bit v-1 of a row is the cell for value v. Scoring a combination is
// the matrix–vector product of the rows with the combination's 0/1 vector, which for packed
// rows is popcount(row & mask). Identical tickets share one row with a weight.
type Matrix struct {
	rows    []Mask
	weights []int
	tickets int
	tiers   Tiers
}

// NewMatrix builds the indicator matrix for store. It fails with ErrNoTickets on an empty store:
// every combination scores zero against no tickets and the search would be meaningless.
func NewMatrix(store *TicketStore, tiers Tiers) (*Matrix, error) {
	if store == nil || store.Len() == 0 {
		return nil, ErrNoTickets
	}
	m := &Matrix{tickets: store.Len(), tiers: tiers}
	index := make(map[Mask]int, store.Len())
	for _, t := range store.tickets {
		if !t.mask.Valid() {
			return nil, fmt.Errorf("%w: %v", ErrBadTicket, t.mask.Values())
		}
		if i, ok := index[t.mask]; ok {
			m.weights[i]++
			continue
		}
		index[t.mask] = len(m.rows)
		m.rows = append(m.rows, t.mask)
		m.weights = append(m.weights, 1)
	}
	return m, nil
}

// Tickets is the number of tickets the matrix was built from.
func (m *Matrix) Tickets() int { return m.tickets }

// Rows is the number of distinct ticket rows.
func (m *Matrix) Rows() int { return len(m.rows) }

func (m *Matrix) Tiers() Tiers { return m.tiers }

// At returns the 0/1 cell for row i and value v.
func (m *Matrix) At(i, v int) int {
	if m.rows[i].Has(v) {
		return 1
	}
	return 0
}

// Weight is the number of tickets sharing row i.
func (m *Matrix) Weight(i int) int { return m.weights[i] }

// ── Scoring ─────────────────────────────────────────────────────────

// MatchCounts returns the per-row match counts for c, i.e. the raw matrix–vector product.
func (m *Matrix) MatchCounts(c Mask) []int {
	out := make([]int, len(m.rows))
	for i, row := range m.rows {
		out[i] = bits.OnesCount64(uint64(row & c))
	}
	return out
}

// Score returns the total payout of c and the number of tickets at each paying match level.
// c must be a valid mask; anything else is a caller bug and is not checked.
func (m *Matrix) Score(c Mask) (int, Breakdown) {
	var b Breakdown
	total := 0
	for i, row := range m.rows {
		k := bits.OnesCount64(uint64(row & c))
		if k < MinPayMatch {
			continue
		}
		w := m.weights[i]
		b[k] += w
		total += w * m.tiers[k]
	}
	return total, b
}

// Total is Score without the breakdown, for inner search loops.
func (m *Matrix) Total(c Mask) int {
	total := 0
	for i, row := range m.rows {
		if k := bits.OnesCount64(uint64(row & c)); k >= MinPayMatch {
			total += m.weights[i] * m.tiers[k]
		}
	}
	return total
}
