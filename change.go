package till

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MakeChange computes a breakdown summing exactly to amount from the
// drawer's current stock, or fails with ErrNoFeasibleChange. The
// drawer is only read; callers apply the result via Drawer.Remove
// after acceptance.
//
// Phase 1 searches for an all-notes solution, descending denominations
// with a stock-bounded backtracking walk that always tries the largest
// feasible count first, so the common case returns the fewest pieces
// and never touches the pool. Phase 2 runs only when phase 1 fails: it
// commits the greedy maximum of each note, then hands back one note at
// a time, smallest denomination first, until the remainder is a pool
// amount the drawer can cover.
//
// amount must be a non-negative multiple of the coin unit; that is a
// caller contract, not something the engine re-checks.
func MakeChange(amount int, d *Drawer) (Breakdown, error) {
	if amount == 0 {
		return Breakdown{}, nil
	}
	denoms := d.denoms.notes

	if notes, ok := searchNotes(amount, denoms, d.notes); ok {
		log.Debugf("change %d: all-notes %v", amount, notes)
		return Breakdown{Notes: notes}, nil
	}

	if b, ok := poolFallback(amount, denoms, d); ok {
		log.Debugf("change %d: mixed %v + coins %d", amount, b.Notes, b.Coins)
		return b, nil
	}

	return Breakdown{}, errors.Wrapf(ErrNoFeasibleChange, "amount %d", amount)
}

// frame is one level of the phase-1 walk: the denomination index, the
// amount still owed when the level was entered, and the count
// currently committed at this level.
type frame struct {
	idx       int
	remaining int
	count     int
}

// searchNotes looks for note counts summing exactly to amount,
// bounded per denomination by stock. The walk is depth-first over an
// explicit frame stack whose depth never exceeds the denomination
// count: each level starts at the maximum feasible count and steps
// down by one on backtrack.
func searchNotes(amount int, denoms []int, stock map[int]int) (map[int]int, bool) {
	push := func(stack []frame, idx, remaining int) []frame {
		den := denoms[idx]
		max := remaining / den
		if s := stock[den]; s < max {
			max = s
		}
		return append(stack, frame{idx: idx, remaining: remaining, count: max})
	}

	stack := push(nil, 0, amount)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		rem := top.remaining - denoms[top.idx]*top.count

		if rem == 0 {
			counts := make(map[int]int, len(stack))
			for _, f := range stack {
				if f.count > 0 {
					counts[denoms[f.idx]] = f.count
				}
			}
			return counts, true
		}

		if top.idx+1 < len(denoms) {
			stack = push(stack, top.idx+1, rem)
			continue
		}

		// deepest level missed; step the walk back
		for len(stack) > 0 {
			top = &stack[len(stack)-1]
			if top.count > 0 {
				top.count--
				break
			}
			stack = stack[:len(stack)-1]
		}
	}
	return nil, false
}

// poolFallback builds a mixed notes+pool breakdown: greedy maximum of
// each note descending, then relax the commitment one note at a time
// from the smallest used denomination upward until the remainder is a
// multiple of the coin unit that the pool can cover.
func poolFallback(amount int, denoms []int, d *Drawer) (Breakdown, bool) {
	remaining := amount
	used := make(map[int]int, len(denoms))
	for _, den := range denoms {
		take := remaining / den
		if s := d.notes[den]; s < take {
			take = s
		}
		if take > 0 {
			used[den] = take
			remaining -= den * take
		}
	}

	feasible := func() bool {
		return remaining%d.denoms.coinUnit == 0 && d.coins >= remaining
	}

	if !feasible() {
		relaxed := false
		for i := len(denoms) - 1; i >= 0 && !relaxed; i-- {
			den := denoms[i]
			for used[den] > 0 {
				used[den]--
				remaining += den
				if feasible() {
					relaxed = true
					break
				}
			}
		}
		if !relaxed {
			return Breakdown{}, false
		}
	}

	notes := make(map[int]int, len(used))
	for den, cnt := range used {
		if cnt > 0 {
			notes[den] = cnt
		}
	}
	return Breakdown{Notes: notes, Coins: remaining}, true
}
