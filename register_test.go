package till

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestRegister wires a register with a ledger and store in a temp
// dir, as the CLI does.
func newTestRegister(t *testing.T, notes map[int]int, coins int) (*Register, *Ledger) {
	t.Helper()
	dir := t.TempDir()
	d := stocked(t, notes, coins)
	l := NewLedger(dir)
	s := NewStore(dir, d.Denoms())
	return NewRegister(d, l, s), l
}

func TestRegisterSale(t *testing.T) {
	// due 1000, buyer gives a 2000, change is one 1000 note
	reg, l := newTestRegister(t, map[int]int{1000: 2}, 140)

	tx, err := reg.Begin(1000)
	require.NoError(t, err)
	rec, err := tx.Resolve(Breakdown{Notes: map[int]int{2000: 1}})
	require.NoError(t, err)

	require.Equal(t, 1000, rec.AmountDue)
	require.Equal(t, map[int]int{1000: 1}, rec.Returned.Notes)
	require.Zero(t, rec.Returned.Coins)
	require.Equal(t, map[int]int{2000: 1, 1000: -1}, rec.Delta.Notes)

	d := reg.Drawer()
	require.Equal(t, 1, d.NoteCount(2000))
	require.Equal(t, 1, d.NoteCount(1000))
	require.Equal(t, 140, d.Coins())
	require.Equal(t, rec.TotalAfter, d.Total())

	last, err := l.ReadLast(Today())
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, rec.ID, last.ID)
}

func TestRegisterExactTender(t *testing.T) {
	reg, _ := newTestRegister(t, nil, 0)

	tx, err := reg.Begin(1000)
	require.NoError(t, err)
	rec, err := tx.Resolve(Breakdown{Notes: map[int]int{1000: 1}})
	require.NoError(t, err)
	require.True(t, rec.Returned.IsZero())
	require.Equal(t, 1000, reg.Drawer().Total())
}

func TestRegisterCancelRestores(t *testing.T) {
	reg, _ := newTestRegister(t, map[int]int{1000: 1}, 50)

	tx, err := reg.Begin(500)
	require.NoError(t, err)
	require.NoError(t, tx.Cancel())

	d := reg.Drawer()
	require.Equal(t, 1, d.NoteCount(1000))
	require.Equal(t, 50, d.Coins())

	// cancelled transactions are terminal
	require.ErrorIs(t, tx.Cancel(), ErrTxResolved)
	_, err = tx.Resolve(Breakdown{})
	require.ErrorIs(t, err, ErrTxResolved)
}

func TestRegisterSingleOpenTransaction(t *testing.T) {
	reg, _ := newTestRegister(t, nil, 0)

	tx, err := reg.Begin(500)
	require.NoError(t, err)
	_, err = reg.Begin(500)
	require.ErrorIs(t, err, ErrTxOpen)

	// resolving frees the register for the next transaction
	require.NoError(t, tx.Abort())
	tx2, err := reg.Begin(500)
	require.NoError(t, err)
	require.NoError(t, tx2.Abort())
}

func TestRegisterBeginValidatesAmount(t *testing.T) {
	reg, _ := newTestRegister(t, nil, 0)

	_, err := reg.Begin(0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = reg.Begin(-500)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = reg.Begin(1001) // not a multiple of the coin unit
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestRegisterShortTender(t *testing.T) {
	reg, l := newTestRegister(t, map[int]int{1000: 1}, 0)

	tx, err := reg.Begin(1000)
	require.NoError(t, err)
	_, err = tx.Resolve(Breakdown{Notes: map[int]int{500: 1}})
	require.ErrorIs(t, err, ErrShortTender)

	// nothing reached the drawer or the log
	require.Equal(t, 1000, reg.Drawer().Total())
	last, err := l.ReadLast(Today())
	require.NoError(t, err)
	require.Nil(t, last)
}

func TestRegisterNoFeasibleChangeReversesTender(t *testing.T) {
	// empty drawer: the buyer's 2000 cannot be broken for a 1000 due
	reg, l := newTestRegister(t, nil, 0)

	tx, err := reg.Begin(1000)
	require.NoError(t, err)
	_, err = tx.Resolve(Breakdown{Notes: map[int]int{2000: 1}})
	require.ErrorIs(t, err, ErrNoFeasibleChange)

	// the merged tender was taken back out
	d := reg.Drawer()
	require.Zero(t, d.NoteCount(2000))
	require.Zero(t, d.Total())

	last, err := l.ReadLast(Today())
	require.NoError(t, err)
	require.Nil(t, last)

	// the register is free again
	tx2, err := reg.Begin(500)
	require.NoError(t, err)
	require.NoError(t, tx2.Abort())
}

func TestRegisterUndoAfterSale(t *testing.T) {
	reg, l := newTestRegister(t, map[int]int{1000: 2}, 140)
	before := reg.Drawer().Clone()

	tx, err := reg.Begin(1000)
	require.NoError(t, err)
	first, err := tx.Resolve(Breakdown{Notes: map[int]int{2000: 1}})
	require.NoError(t, err)

	tx, err = reg.Begin(200)
	require.NoError(t, err)
	_, err = tx.Resolve(Breakdown{Notes: map[int]int{200: 1}})
	require.NoError(t, err)

	// undo the second sale, then the first; the drawer walks back to
	// its starting state and ReadLast tracks the shrinking log
	_, err = l.Undo(reg.Drawer(), Today())
	require.NoError(t, err)
	last, err := l.ReadLast(Today())
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, first.ID, last.ID)

	_, err = l.Undo(reg.Drawer(), Today())
	require.NoError(t, err)

	d := reg.Drawer()
	for _, den := range d.Denoms().Notes() {
		require.Equal(t, before.NoteCount(den), d.NoteCount(den), "denomination %d", den)
	}
	require.Equal(t, before.Coins(), d.Coins())

	last, err = l.ReadLast(Today())
	require.NoError(t, err)
	require.Nil(t, last)
}
