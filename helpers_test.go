package main

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	InitLogger(LogOptions{Level: slog.LevelDebug, Writer: io.Discard})
	os.Exit(m.Run())
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func mustTicket(t testing.TB, values ...int) Ticket {
	t.Helper()
	tk, err := NewTicket(values)
	require.NoError(t, err)
	return tk
}

func storeOf(t testing.TB, tickets ...[]int) *TicketStore {
	t.Helper()
	out := make([]Ticket, len(tickets))
	for i, v := range tickets {
		out[i] = mustTicket(t, v...)
	}
	return NewTicketStore(out)
}

func mustMatrix(t testing.TB, store *TicketStore) *Matrix {
	t.Helper()
	m, err := NewMatrix(store, DefaultTiers())
	require.NoError(t, err)
	return m
}

func randomTickets(rng *rand.Rand, n int) []Ticket {
	pool := allValues()
	out := make([]Ticket, n)
	for i := range out {
		out[i] = Ticket{mask: randomMask(rng, pool)}
	}
	return out
}

// overlap counts shared values by plain set intersection.
func overlap(a, b []int) int {
	set := make(map[int]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	n := 0
	for _, v := range b {
		if set[v] {
			n++
		}
	}
	return n
}
