package till

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Register owns the live drawer and coordinates transactions against
// the ledger and the snapshot store. Exactly one transaction may be
// open at a time; the register is single-operator and single-threaded
// by design.
type Register struct {
	drawer *Drawer
	ledger *Ledger
	store  *Store
	open   *Tx
}

// NewRegister wires a register over an existing drawer. ledger and
// store may be nil in tests that only exercise the in-memory flow.
func NewRegister(d *Drawer, l *Ledger, s *Store) *Register {
	return &Register{drawer: d, ledger: l, store: s}
}

// Drawer returns the live drawer.
func (r *Register) Drawer() *Drawer {
	return r.drawer
}

// Tx is an open transaction: the amount due and a snapshot of drawer
// state taken when the transaction began. The snapshot is reapplied
// verbatim on Cancel and discarded on any other outcome.
type Tx struct {
	reg      *Register
	due      int
	snapshot *Drawer
	done     bool
}

// Begin opens a transaction for an amount due, deep-copying the
// drawer. The amount must be a positive multiple of the coin unit.
// Opening a second transaction while one is unresolved fails with
// ErrTxOpen.
func (r *Register) Begin(due int) (*Tx, error) {
	if r.open != nil {
		return nil, ErrTxOpen
	}
	if due <= 0 || due%r.drawer.denoms.coinUnit != 0 {
		return nil, errors.Wrapf(ErrInvalidQuantity, "amount due %d", due)
	}
	tx := &Tx{reg: r, due: due, snapshot: r.drawer.Clone()}
	r.open = tx
	log.Debugf("tx: begin, due %d, drawer total %d", due, r.drawer.Total())
	return tx, nil
}

// finish moves the transaction to a terminal state and discards it.
func (t *Tx) finish() {
	t.done = true
	t.reg.open = nil
}

// Cancel restores the drawer from the snapshot and closes the
// transaction.
func (t *Tx) Cancel() error {
	if t.done {
		return ErrTxResolved
	}
	t.reg.drawer.Restore(t.snapshot)
	t.finish()
	log.Debug("tx: cancelled, drawer restored")
	return nil
}

// Abort closes the transaction without touching the drawer. Used when
// the tender never made it into the drawer (empty input, parse
// failure), so there is nothing to restore.
func (t *Tx) Abort() error {
	if t.done {
		return ErrTxResolved
	}
	t.finish()
	log.Debug("tx: aborted")
	return nil
}

// Resolve completes the transaction with the buyer's tender: the
// tender is merged into the drawer, the change engine computes the
// amount owed back, the change breakdown is removed from the drawer,
// and a ledger record is appended and the day's snapshot saved.
//
// On failure nothing is logged and the drawer ends as it began: a
// short or invalid tender fails before any mutation, and when the
// engine reports ErrNoFeasibleChange the already-merged tender is
// removed again, exactly as it was added, before the error is
// returned. Either way the transaction is closed.
func (t *Tx) Resolve(tender Breakdown) (*Record, error) {
	if t.done {
		return nil, ErrTxResolved
	}
	r := t.reg

	tenderTotal := tender.Total()
	if tenderTotal < t.due {
		t.finish()
		return nil, errors.Wrapf(ErrShortTender, "tendered %d, due %d", tenderTotal, t.due)
	}

	if err := r.drawer.Merge(tender); err != nil {
		t.finish()
		return nil, err
	}

	owed := tenderTotal - t.due
	change, err := MakeChange(owed, r.drawer)
	if err != nil {
		// compensate: take back exactly what the tender added
		if rerr := r.drawer.Remove(tender); rerr != nil {
			// cannot happen: the tender was just merged
			log.Errorf("tx: tender reversal failed: %v", rerr)
		}
		t.finish()
		return nil, err
	}

	if err := r.drawer.Remove(change); err != nil {
		// cannot happen: the engine only uses available stock
		t.finish()
		return nil, err
	}

	rec := &Record{
		ID:         uuid.NewString(),
		Time:       time.Now(),
		AmountDue:  t.due,
		Tendered:   tender.Clone(),
		Returned:   change.Clone(),
		Delta:      DeltaOf(tender, change),
		TotalAfter: r.drawer.Total(),
	}

	if r.ledger != nil {
		if err := r.ledger.Append(Today(), rec); err != nil {
			t.finish()
			return nil, err
		}
	}
	if r.store != nil {
		if err := r.store.Save(Today(), r.drawer); err != nil {
			t.finish()
			return nil, err
		}
	}

	t.finish()
	log.Debugf("tx: resolved, change %s, drawer total %d", change, rec.TotalAfter)
	return rec, nil
}
