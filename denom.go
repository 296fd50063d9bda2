package till

import (
	"sort"

	"github.com/pkg/errors"
)

// DenomSet is the closed set of note values a till tracks by count,
// plus the unit size of the aggregated coin pool. Notes are kept
// sorted descending. The set never changes after creation; amounts
// below the smallest note belong to the pool.
type DenomSet struct {
	notes    []int
	coinUnit int
}

// DefaultDenoms returns the HUF profile: notes from 20000 down to
// 200, coins aggregated in multiples of 5.
func DefaultDenoms() *DenomSet {
	ds, err := NewDenomSet([]int{20000, 10000, 5000, 2000, 1000, 500, 200}, 5)
	if err != nil {
		// the literal set above is valid
		panic(err)
	}
	return ds
}

// NewDenomSet validates and builds a denomination set. Note values
// must be positive and unique.
func NewDenomSet(notes []int, coinUnit int) (*DenomSet, error) {
	if coinUnit <= 0 {
		return nil, errors.Wrapf(ErrInvalidQuantity, "coin unit %d", coinUnit)
	}
	if len(notes) == 0 {
		return nil, errors.Wrap(ErrInvalidQuantity, "empty denomination set")
	}
	sorted := make([]int, len(notes))
	copy(sorted, notes)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for i, n := range sorted {
		if n <= 0 {
			return nil, errors.Wrapf(ErrInvalidQuantity, "denomination %d", n)
		}
		if i > 0 && sorted[i-1] == n {
			return nil, errors.Wrapf(ErrInvalidQuantity, "duplicate denomination %d", n)
		}
	}
	return &DenomSet{notes: sorted, coinUnit: coinUnit}, nil
}

// Notes returns the note values in descending order. The slice is a
// copy; callers may not grow the set through it.
func (ds *DenomSet) Notes() []int {
	out := make([]int, len(ds.notes))
	copy(out, ds.notes)
	return out
}

// CoinUnit returns the smallest amount the pool may change by.
func (ds *DenomSet) CoinUnit() int {
	return ds.coinUnit
}

// Contains reports whether v is a tracked note value.
func (ds *DenomSet) Contains(v int) bool {
	for _, n := range ds.notes {
		if n == v {
			return true
		}
	}
	return false
}

// PoolValid reports whether amount is a legal pool quantity:
// non-negative and a multiple of the coin unit.
func (ds *DenomSet) PoolValid(amount int) bool {
	return amount >= 0 && amount%ds.coinUnit == 0
}
