package main

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// TicketStore is the validated, immutable ticket collection a run searches against.
type TicketStore struct {
	tickets []Ticket
}

func NewTicketStore(tickets []Ticket) *TicketStore {
	return &TicketStore{tickets: slices.Clone(tickets)}
}

func (s *TicketStore) Len() int { return len(s.tickets) }

func (s *TicketStore) At(i int) Ticket { return s.tickets[i] }

// Tickets returns a copy of the stored tickets in load order.
func (s *TicketStore) Tickets() []Ticket { return slices.Clone(s.tickets) }

// Frequencies counts, for each value 1..DomainSize, how many tickets contain it. Index 0 is unused.
func (s *TicketStore) Frequencies() [DomainSize + 1]int {
	var freq [DomainSize + 1]int
	for _, t := range s.tickets {
		for _, v := range t.Values() {
			freq[v]++
		}
	}
	return freq
}

// LeastFrequent returns the n least-played values, ties broken by ascending value.
// Values no ticket contains come first.
func (s *TicketStore) LeastFrequent(n int) []int {
	freq := s.Frequencies()
	values := make([]int, DomainSize)
	for i := range values {
		values[i] = i + 1
	}
	slices.SortStableFunc(values, func(a, b int) int { return freq[a] - freq[b] })
	n = max(0, min(n, DomainSize))
	return values[:n]
}

// Fingerprint identifies the ticket multiset independent of load order.
func (s *TicketStore) Fingerprint() uint64 {
	masks := make([]uint64, len(s.tickets))
	for i, t := range s.tickets {
		masks[i] = uint64(t.mask)
	}
	slices.Sort(masks)

	d := xxhash.New()
	var buf [8]byte
	for _, m := range masks {
		binary.LittleEndian.PutUint64(buf[:], m)
		d.Write(buf[:])
	}
	return d.Sum64()
}
