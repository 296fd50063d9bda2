package till

import (
	"github.com/pkg/errors"
)

// Error kinds returned by drawer, engine, ledger, and register
// operations. All are fail-fast: an operation that returns one of
// these has not mutated any state.
var (
	// ErrInvalidQuantity means a negative count or a pool amount
	// that is negative or not a multiple of the coin unit.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientStock means a removal would underflow a note
	// count or the coin pool.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNoFeasibleChange means the change engine exhausted both the
	// all-notes search and the pool fallback.
	ErrNoFeasibleChange = errors.New("no feasible change")

	// ErrInconsistentLedger means undoing the last record would
	// underflow the target drawer.
	ErrInconsistentLedger = errors.New("inconsistent ledger")

	// ErrMalformedTender means the tender string could not be parsed.
	ErrMalformedTender = errors.New("malformed tender")

	// ErrShortTender means the tendered total is less than the amount
	// due.
	ErrShortTender = errors.New("tendered amount less than amount due")

	// ErrTxOpen means Begin was called while another transaction was
	// still unresolved.
	ErrTxOpen = errors.New("transaction already open")

	// ErrTxResolved means Resolve or Cancel was called on a
	// transaction that already reached a terminal state.
	ErrTxResolved = errors.New("transaction already resolved")
)
