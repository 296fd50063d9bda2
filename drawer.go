package till

import (
	"github.com/pkg/errors"
)

// Drawer is the till inventory: one non-negative count per note
// denomination and one aggregated coin-pool amount. Every mutation
// goes through the bounded add/remove operations below; each is
// all-or-nothing, so a failed call leaves the drawer untouched.
type Drawer struct {
	denoms *DenomSet
	notes  map[int]int
	coins  int
}

// NewDrawer returns an empty drawer over the given denomination set.
func NewDrawer(ds *DenomSet) *Drawer {
	notes := make(map[int]int, len(ds.notes))
	for _, den := range ds.notes {
		notes[den] = 0
	}
	return &Drawer{denoms: ds, notes: notes}
}

// Denoms returns the drawer's denomination set.
func (d *Drawer) Denoms() *DenomSet {
	return d.denoms
}

// Total is the drawer's value: sum of denomination times count plus
// the pool.
func (d *Drawer) Total() int {
	sum := d.coins
	for den, cnt := range d.notes {
		sum += den * cnt
	}
	return sum
}

// NoteCount returns the count held for den.
func (d *Drawer) NoteCount(den int) int {
	return d.notes[den]
}

// Coins returns the pool amount.
func (d *Drawer) Coins() int {
	return d.coins
}

// checkNotes validates a count map against the denomination set
// without mutating anything.
func (d *Drawer) checkNotes(counts map[int]int) error {
	for den, cnt := range counts {
		if !d.denoms.Contains(den) {
			return errors.Wrapf(ErrInvalidQuantity, "unknown denomination %d", den)
		}
		if cnt < 0 {
			return errors.Wrapf(ErrInvalidQuantity, "count %d for denomination %d", cnt, den)
		}
	}
	return nil
}

// AddNotes increases each named denomination's count. There is no
// upper bound; it fails only on a negative count or a denomination
// outside the set.
func (d *Drawer) AddNotes(counts map[int]int) error {
	if err := d.checkNotes(counts); err != nil {
		return err
	}
	for den, cnt := range counts {
		d.notes[den] += cnt
	}
	return nil
}

// RemoveNotes decreases each named denomination's count. All
// requested counts are verified against stock before any decrement is
// applied.
func (d *Drawer) RemoveNotes(counts map[int]int) error {
	if err := d.checkNotes(counts); err != nil {
		return err
	}
	for den, cnt := range counts {
		if d.notes[den] < cnt {
			return errors.Wrapf(ErrInsufficientStock, "denomination %d: have %d, need %d", den, d.notes[den], cnt)
		}
	}
	for den, cnt := range counts {
		d.notes[den] -= cnt
	}
	return nil
}

// AddCoins increases the pool. The amount must be a non-negative
// multiple of the coin unit.
func (d *Drawer) AddCoins(amount int) error {
	if !d.denoms.PoolValid(amount) {
		return errors.Wrapf(ErrInvalidQuantity, "pool amount %d", amount)
	}
	d.coins += amount
	return nil
}

// RemoveCoins decreases the pool.
func (d *Drawer) RemoveCoins(amount int) error {
	if !d.denoms.PoolValid(amount) {
		return errors.Wrapf(ErrInvalidQuantity, "pool amount %d", amount)
	}
	if d.coins < amount {
		return errors.Wrapf(ErrInsufficientStock, "pool: have %d, need %d", d.coins, amount)
	}
	d.coins -= amount
	return nil
}

// SetNoteCount sets a denomination's count wholesale (opening float
// entry).
func (d *Drawer) SetNoteCount(den, cnt int) error {
	if !d.denoms.Contains(den) {
		return errors.Wrapf(ErrInvalidQuantity, "unknown denomination %d", den)
	}
	if cnt < 0 {
		return errors.Wrapf(ErrInvalidQuantity, "count %d", cnt)
	}
	d.notes[den] = cnt
	return nil
}

// SetCoins sets the pool wholesale (opening float entry).
func (d *Drawer) SetCoins(amount int) error {
	if !d.denoms.PoolValid(amount) {
		return errors.Wrapf(ErrInvalidQuantity, "pool amount %d", amount)
	}
	d.coins = amount
	return nil
}

// Merge adds a whole breakdown to the drawer. The breakdown is
// validated up front so a bad pool amount cannot leave the notes
// half-applied.
func (d *Drawer) Merge(b Breakdown) error {
	if err := d.checkNotes(b.Notes); err != nil {
		return err
	}
	if !d.denoms.PoolValid(b.Coins) {
		return errors.Wrapf(ErrInvalidQuantity, "pool amount %d", b.Coins)
	}
	for den, cnt := range b.Notes {
		d.notes[den] += cnt
	}
	d.coins += b.Coins
	return nil
}

// Remove takes a whole breakdown out of the drawer, verifying both
// the notes and the pool before applying either.
func (d *Drawer) Remove(b Breakdown) error {
	if err := d.checkNotes(b.Notes); err != nil {
		return err
	}
	if !d.denoms.PoolValid(b.Coins) {
		return errors.Wrapf(ErrInvalidQuantity, "pool amount %d", b.Coins)
	}
	for den, cnt := range b.Notes {
		if d.notes[den] < cnt {
			return errors.Wrapf(ErrInsufficientStock, "denomination %d: have %d, need %d", den, d.notes[den], cnt)
		}
	}
	if d.coins < b.Coins {
		return errors.Wrapf(ErrInsufficientStock, "pool: have %d, need %d", d.coins, b.Coins)
	}
	for den, cnt := range b.Notes {
		d.notes[den] -= cnt
	}
	d.coins -= b.Coins
	return nil
}

// Clone deep-copies the drawer. Used for transaction snapshots.
func (d *Drawer) Clone() *Drawer {
	notes := make(map[int]int, len(d.notes))
	for den, cnt := range d.notes {
		notes[den] = cnt
	}
	return &Drawer{denoms: d.denoms, notes: notes, coins: d.coins}
}

// Restore copies another drawer's state into this one. The two must
// share a denomination set.
func (d *Drawer) Restore(src *Drawer) {
	for den := range d.notes {
		d.notes[den] = src.notes[den]
	}
	d.coins = src.coins
}
