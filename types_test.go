package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskCombo(t *testing.T) {
	m := MaskOf(7, 1, 37, 20, 2, 14, 9)
	assert.True(t, m.Valid())
	assert.Equal(t, 7, m.Count())
	assert.Equal(t, []int{1, 2, 7, 9, 14, 20, 37}, m.Values())
	assert.Equal(t, Combo{1, 2, 7, 9, 14, 20, 37}, m.Combo())
	assert.Equal(t, m, m.Combo().Mask())
	assert.Equal(t, "(1, 2, 7, 9, 14, 20, 37)", m.String())

	assert.True(t, m.Has(37))
	assert.False(t, m.Has(3))
	assert.False(t, m.Has(0))
	assert.False(t, m.Has(38))

	swapped := m.Without(37).With(3)
	assert.True(t, swapped.Valid())
	assert.Equal(t, []int{1, 2, 3, 7, 9, 14, 20}, swapped.Values())

	assert.Equal(t, 3, MaskOf(3, 5, 9).nth(0))
	assert.Equal(t, 9, MaskOf(3, 5, 9).nth(2))
}

func TestMaskValid(t *testing.T) {
	assert.False(t, MaskOf(1, 2, 3, 4, 5, 6).Valid())
	assert.False(t, MaskOf(1, 2, 3, 4, 5, 6, 7, 8).Valid())
	assert.False(t, (MaskOf(1, 2, 3, 4, 5, 6) | Mask(1)<<40).Valid())
	assert.Equal(t, Mask(0x7f), MaskOf(1, 2, 3, 4, 5, 6, 7))
}

func TestNewCombo(t *testing.T) {
	c, err := NewCombo([]int{5, 3, 1, 7, 2, 6, 4})
	require.NoError(t, err)
	assert.Equal(t, Combo{1, 2, 3, 4, 5, 6, 7}, c)

	for name, values := range map[string][]int{
		"short":     {1, 2, 3, 4, 5, 6},
		"long":      {1, 2, 3, 4, 5, 6, 7, 8},
		"duplicate": {1, 1, 3, 4, 5, 6, 7},
		"zero":      {0, 2, 3, 4, 5, 6, 7},
		"too big":   {1, 2, 3, 4, 5, 6, 38},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewCombo(values)
			assert.ErrorIs(t, err, ErrBadCombo)
			_, err = NewTicket(values)
			assert.ErrorIs(t, err, ErrBadTicket)
		})
	}
}

func TestParseCombo(t *testing.T) {
	c, err := ParseCombo("8, 9,10 11;12 13,14")
	require.NoError(t, err)
	assert.Equal(t, Combo{8, 9, 10, 11, 12, 13, 14}, c)

	_, err = ParseCombo("1,2,x,4,5,6,7")
	assert.ErrorIs(t, err, ErrBadCombo)
	_, err = ParseCombo("")
	assert.ErrorIs(t, err, ErrBadCombo)
}

func TestTiersPayout(t *testing.T) {
	tiers := DefaultTiers()
	want := map[int]int{0: 0, 1: 0, 2: 0, 3: 15, 4: 1000, 5: 4000, 6: 10000, 7: 100000, 8: 0, -1: 0}
	for k, pay := range want {
		assert.Equal(t, pay, tiers.Payout(k), "matches=%d", k)
	}
}

func TestBreakdownJSON(t *testing.T) {
	b := Breakdown{3: 2, 7: 1}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"3":2,"4":0,"5":0,"6":0,"7":1}`, string(data))

	var back Breakdown
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)

	assert.Error(t, json.Unmarshal([]byte(`{"2":1}`), &back))
	assert.Equal(t, "3:2 4:0 5:0 6:0 7:1", b.String())
}
