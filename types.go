package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"
)

const (
	// DomainSize is the largest value a ticket or combination may hold; values run 1..DomainSize.
	DomainSize = 37
	// ComboSize is the number of distinct values in every ticket and combination.
	ComboSize = 7
	// MinPayMatch is the smallest match count that earns a payout.
	MinPayMatch = 3
)

var (
	ErrBadTicket     = errors.New("invalid ticket")
	ErrBadCombo      = errors.New("invalid combination")
	ErrNoTickets     = errors.New("no tickets")
	ErrInvalidConfig = errors.New("invalid config")
)

// ── Mask ────────────────────────────────────────────────────────────

// Mask is the bit-vector form of a combination: bit v-1 is set when value v is selected.
type Mask uint64

const domainMask Mask = 1<<DomainSize - 1

func bit(v int) Mask { return Mask(1) << (v - 1) }

// MaskOf sets the bit of every value. It does not validate; see NewCombo.
func MaskOf(values ...int) Mask {
	var m Mask
	for _, v := range values {
		m |= bit(v)
	}
	return m
}

func (m Mask) Has(v int) bool {
	return v >= 1 && v <= DomainSize && m&bit(v) != 0
}

func (m Mask) With(v int) Mask    { return m | bit(v) }
func (m Mask) Without(v int) Mask { return m &^ bit(v) }
func (m Mask) Count() int         { return bits.OnesCount64(uint64(m)) }

// Valid reports whether m holds exactly ComboSize values, all inside the domain.
func (m Mask) Valid() bool {
	return m&^domainMask == 0 && m.Count() == ComboSize
}

// Values returns the selected values in ascending order.
func (m Mask) Values() []int {
	out := make([]int, 0, m.Count())
	for r := uint64(m); r != 0; r &= r - 1 {
		out = append(out, bits.TrailingZeros64(r)+1)
	}
	return out
}

// Combo converts a valid mask to its sorted tuple form.
func (m Mask) Combo() Combo {
	var c Combo
	i := 0
	for r := uint64(m); r != 0 && i < ComboSize; r &= r - 1 {
		c[i] = bits.TrailingZeros64(r) + 1
		i++
	}
	return c
}

func (m Mask) String() string { return m.Combo().String() }

// nth returns the value of the n-th (0-based) set bit of m.
func (m Mask) nth(n int) int {
	r := uint64(m)
	for ; n > 0; n-- {
		r &= r - 1
	}
	return bits.TrailingZeros64(r) + 1
}

// ── Combo ───────────────────────────────────────────────────────────

// Combo is the sorted tuple form of a combination.
type Combo [ComboSize]int

// NewCombo validates values and returns them sorted.
func NewCombo(values []int) (Combo, error) {
	if err := checkValues(values); err != nil {
		return Combo{}, fmt.Errorf("%w: %v", ErrBadCombo, err)
	}
	var c Combo
	copy(c[:], values)
	slices.Sort(c[:])
	return c, nil
}

// ParseCombo reads a combination written as "1,2,3,4,5,6,7".
func ParseCombo(s string) (Combo, error) {
	values, err := parseValues(s)
	if err != nil {
		return Combo{}, fmt.Errorf("%w: %v", ErrBadCombo, err)
	}
	return NewCombo(values)
}

func (c Combo) Mask() Mask { return MaskOf(c[:]...) }

func (c Combo) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func checkValues(values []int) error {
	if len(values) != ComboSize {
		return fmt.Errorf("want %d values, got %d", ComboSize, len(values))
	}
	var seen Mask
	for _, v := range values {
		if v < 1 || v > DomainSize {
			return fmt.Errorf("value %d outside 1..%d", v, DomainSize)
		}
		if seen.Has(v) {
			return fmt.Errorf("duplicate value %d", v)
		}
		seen = seen.With(v)
	}
	return nil
}

// ── Ticket ──────────────────────────────────────────────────────────

// Ticket is a previously issued entry. The zero value is not a valid ticket; use NewTicket.
type Ticket struct {
	mask Mask
}

func NewTicket(values []int) (Ticket, error) {
	if err := checkValues(values); err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrBadTicket, err)
	}
	return Ticket{mask: MaskOf(values...)}, nil
}

func (t Ticket) Mask() Mask     { return t.mask }
func (t Ticket) Values() []int  { return t.mask.Values() }
func (t Ticket) String() string { return t.mask.String() }

// ── Payout tiers ────────────────────────────────────────────────────

// Tiers maps a match count to the payout one ticket earns at that count. A ticket earns only
// its own tier, never the lower tiers it also satisfies.
type Tiers [ComboSize + 1]int

func DefaultTiers() Tiers {
	return Tiers{3: 15, 4: 1000, 5: 4000, 6: 10000, 7: 100000}
}

func (t Tiers) Payout(matches int) int {
	if matches < MinPayMatch || matches > ComboSize {
		return 0
	}
	return t[matches]
}

// Breakdown counts tickets per paying match level; the index is the match count.
// Levels below MinPayMatch are always zero.
type Breakdown [ComboSize + 1]int

func (b Breakdown) String() string {
	parts := make([]string, 0, ComboSize-MinPayMatch+1)
	for k := MinPayMatch; k <= ComboSize; k++ {
		parts = append(parts, fmt.Sprintf("%d:%d", k, b[k]))
	}
	return strings.Join(parts, " ")
}

// MarshalJSON writes the paying levels as an object keyed by match count.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, ComboSize-MinPayMatch+1)
	for k := MinPayMatch; k <= ComboSize; k++ {
		m[strconv.Itoa(k)] = b[k]
	}
	return json.Marshal(m)
}

func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*b = Breakdown{}
	for key, n := range m {
		k, err := strconv.Atoi(key)
		if err != nil || k < MinPayMatch || k > ComboSize {
			return fmt.Errorf("breakdown: unexpected match level %q", key)
		}
		b[k] = n
	}
	return nil
}
