package main

import (
	"fmt"
	"strings"
)

// EntryView is the exported form of one ranked entry.
type EntryView struct {
	Rank        int       `json:"rank"`
	Combination Combo     `json:"combination"`
	Score       int       `json:"score"`
	Breakdown   Breakdown `json:"breakdown"`
}

// ResultView is the exported form of a search result.
type ResultView struct {
	Mode      Mode        `json:"mode"`
	Tickets   int         `json:"tickets"`
	Seeds     int         `json:"seeds,omitempty"`
	Evaluated int         `json:"evaluated"`
	Refined   int         `json:"refined"`
	ElapsedMs int64       `json:"elapsedMs"`
	Entries   []EntryView `json:"entries"`
}

func NewResultView(res *SearchResult, tickets int) ResultView {
	v := ResultView{
		Mode:      res.Mode,
		Tickets:   tickets,
		Seeds:     res.Seeds,
		Evaluated: res.Evaluated,
		Refined:   res.Refined,
		ElapsedMs: res.Elapsed.Milliseconds(),
		Entries:   make([]EntryView, len(res.Entries)),
	}
	for i, e := range res.Entries {
		v.Entries[i] = EntryView{Rank: i + 1, Combination: e.Combo(), Score: e.Score, Breakdown: e.Breakdown}
	}
	return v
}

// FormatResult renders the ranked list followed by the lowest payout found.
func FormatResult(v ResultView) string {
	var b strings.Builder
	if len(v.Entries) == 0 {
		b.WriteString("No results\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Top %d lowest payout results (%s, %d tickets)\n", len(v.Entries), v.Mode, v.Tickets)
	for _, e := range v.Entries {
		fmt.Fprintf(&b, "%3d. %s → %d  [%s]\n", e.Rank, e.Combination, e.Score, e.Breakdown)
	}
	best := v.Entries[0]
	fmt.Fprintf(&b, "Lowest payout found: %s → %d\n", best.Combination, best.Score)
	return b.String()
}

// FormatScore renders a single combination's score against the tickets.
func FormatScore(c Combo, score int, bd Breakdown, tiers Tiers) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Combination: %s\n", c)
	for k := ComboSize; k >= MinPayMatch; k-- {
		fmt.Fprintf(&b, "  %d matches: %d tickets × %d = %d\n", k, bd[k], tiers[k], bd[k]*tiers[k])
	}
	fmt.Fprintf(&b, "Total payout: %d\n", score)
	return b.String()
}
