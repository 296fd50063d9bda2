package till

import (
	"fmt"
	"sort"
	"strings"
)

// Breakdown is a sparse combination of note counts plus a coin-pool
// amount; absent denominations count as zero. It describes money
// tendered by a buyer or money returned as change. Breakdowns are
// ephemeral values; the zero Breakdown is empty and valid.
type Breakdown struct {
	Notes map[int]int
	Coins int
}

// Total sums denomination times count over all notes, plus the pool
// amount.
func (b Breakdown) Total() int {
	sum := b.Coins
	for den, cnt := range b.Notes {
		sum += den * cnt
	}
	return sum
}

// Count returns the note count for den, zero if absent.
func (b Breakdown) Count(den int) int {
	return b.Notes[den]
}

// IsZero reports whether the breakdown carries no money at all.
func (b Breakdown) IsZero() bool {
	if b.Coins != 0 {
		return false
	}
	for _, cnt := range b.Notes {
		if cnt != 0 {
			return false
		}
	}
	return true
}

// Clone deep-copies the breakdown.
func (b Breakdown) Clone() Breakdown {
	out := Breakdown{Coins: b.Coins}
	if b.Notes != nil {
		out.Notes = make(map[int]int, len(b.Notes))
		for den, cnt := range b.Notes {
			out.Notes[den] = cnt
		}
	}
	return out
}

// String renders the breakdown largest note first, e.g.
// "2000x1, 500x2, coins:150". An empty breakdown renders as "-".
func (b Breakdown) String() string {
	dens := make([]int, 0, len(b.Notes))
	for den, cnt := range b.Notes {
		if cnt != 0 {
			dens = append(dens, den)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dens)))
	parts := make([]string, 0, len(dens)+1)
	for _, den := range dens {
		parts = append(parts, fmt.Sprintf("%dx%d", den, b.Notes[den]))
	}
	if b.Coins != 0 {
		parts = append(parts, fmt.Sprintf("coins:%d", b.Coins))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// Delta is the signed per-denomination net effect of a transaction on
// the drawer: tendered minus returned. Individual fields may be
// negative even though the drawer never is.
type Delta struct {
	Notes map[int]int
	Coins int
}

// DeltaOf computes tendered minus returned, dropping zero entries.
func DeltaOf(tendered, returned Breakdown) Delta {
	d := Delta{Notes: make(map[int]int), Coins: tendered.Coins - returned.Coins}
	for den, cnt := range tendered.Notes {
		d.Notes[den] += cnt
	}
	for den, cnt := range returned.Notes {
		d.Notes[den] -= cnt
	}
	for den, cnt := range d.Notes {
		if cnt == 0 {
			delete(d.Notes, den)
		}
	}
	return d
}
