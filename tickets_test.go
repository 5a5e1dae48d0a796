package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequencies(t *testing.T) {
	store := storeOf(t,
		[]int{1, 2, 3, 4, 5, 6, 7},
		[]int{1, 2, 3, 8, 9, 10, 11},
		[]int{1, 12, 13, 14, 15, 16, 17},
	)
	freq := store.Frequencies()
	assert.Equal(t, 3, freq[1])
	assert.Equal(t, 2, freq[2])
	assert.Equal(t, 1, freq[17])
	assert.Equal(t, 0, freq[37])

	total := 0
	for _, n := range freq {
		total += n
	}
	assert.Equal(t, 3*ComboSize, total)
}

func TestLeastFrequent(t *testing.T) {
	store := storeOf(t,
		[]int{1, 2, 3, 4, 5, 6, 7},
		[]int{1, 2, 3, 8, 9, 10, 11},
		[]int{12, 13, 14, 15, 16, 17, 18},
		[]int{19, 20, 21, 22, 23, 24, 25},
		[]int{26, 27, 28, 29, 30, 31, 32},
	)
	// 33..37 are never played; then the values seen once, ascending.
	assert.Equal(t, []int{33, 34, 35, 36, 37, 4, 5, 6, 7}, store.LeastFrequent(9))

	all := store.LeastFrequent(100)
	assert.Len(t, all, DomainSize)
	assert.Equal(t, []int{1, 2, 3}, all[DomainSize-3:])
	assert.Empty(t, store.LeastFrequent(-1))
}

func TestFingerprint(t *testing.T) {
	a := storeOf(t, []int{1, 2, 3, 4, 5, 6, 7}, []int{8, 9, 10, 11, 12, 13, 14})
	b := storeOf(t, []int{14, 13, 12, 11, 10, 9, 8}, []int{7, 6, 5, 4, 3, 2, 1})
	c := storeOf(t, []int{1, 2, 3, 4, 5, 6, 7})
	d := storeOf(t, []int{1, 2, 3, 4, 5, 6, 7}, []int{1, 2, 3, 4, 5, 6, 7}, []int{8, 9, 10, 11, 12, 13, 14})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "load order is irrelevant")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint(), "duplicates count")
}

func TestTicketStoreCopies(t *testing.T) {
	tickets := []Ticket{mustTicket(t, 1, 2, 3, 4, 5, 6, 7)}
	store := NewTicketStore(tickets)
	tickets[0] = mustTicket(t, 8, 9, 10, 11, 12, 13, 14)
	assert.Equal(t, MaskOf(1, 2, 3, 4, 5, 6, 7), store.At(0).Mask())

	out := store.Tickets()
	out[0] = Ticket{}
	assert.Equal(t, MaskOf(1, 2, 3, 4, 5, 6, 7), store.At(0).Mask())
	assert.Equal(t, 1, store.Len())
}
