package till

import (
	"errors"
	"testing"
)

func TestTenderBareNote(t *testing.T) {
	b, err := ParseTender("2000", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, b.Count(2000) == 1, "count %d", b.Count(2000))
	tassert(t, b.Coins == 0, "coins %d", b.Coins)
}

func TestTenderBareAmountBecomesCoins(t *testing.T) {
	// a bare value outside the note set is pool money by convention
	b, err := ParseTender("150", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, len(b.Notes) == 0, "notes %v", b.Notes)
	tassert(t, b.Coins == 150, "coins %d", b.Coins)
}

func TestTenderNoteCounts(t *testing.T) {
	b, err := ParseTender("2000x1, 1000x2, 200x1", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, b.Count(2000) == 1, "2000 count %d", b.Count(2000))
	tassert(t, b.Count(1000) == 2, "1000 count %d", b.Count(1000))
	tassert(t, b.Count(200) == 1, "200 count %d", b.Count(200))
	tassert(t, b.Total() == 4200, "total %d", b.Total())
}

func TestTenderColonAndSemicolon(t *testing.T) {
	b, err := ParseTender("2000:1;1000:1", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, b.Total() == 3000, "total %d", b.Total())
}

func TestTenderCoinsKeyword(t *testing.T) {
	b, err := ParseTender("coins:150", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, b.Coins == 150, "coins %d", b.Coins)

	// the original till's Hungarian keyword still parses
	b, err = ParseTender("apro:120", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, b.Coins == 120, "coins %d", b.Coins)
}

func TestTenderMixed(t *testing.T) {
	b, err := ParseTender("2000x1, 1000x1, coins:150", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, b.Count(2000) == 1 && b.Count(1000) == 1, "notes %v", b.Notes)
	tassert(t, b.Coins == 150, "coins %d", b.Coins)
	tassert(t, b.Total() == 3150, "total %d", b.Total())
}

func TestTenderUnknownDenomGoesToCoins(t *testing.T) {
	// 100s are below the smallest tracked note
	b, err := ParseTender("100x3", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, len(b.Notes) == 0, "notes %v", b.Notes)
	tassert(t, b.Coins == 300, "coins %d", b.Coins)
}

func TestTenderCaseAndMultiplySign(t *testing.T) {
	b, err := ParseTender("2000X1, 1000×1", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, b.Total() == 3000, "total %d", b.Total())
}

func TestTenderEmpty(t *testing.T) {
	b, err := ParseTender("   ", DefaultDenoms())
	tassert(t, err == nil, "err %v", err)
	tassert(t, b.IsZero(), "breakdown %v", b)
}

func TestTenderMalformed(t *testing.T) {
	for _, text := range []string{"abc", "2000x", "x2", "2000xx1", "coins:"} {
		_, err := ParseTender(text, DefaultDenoms())
		tassert(t, errors.Is(err, ErrMalformedTender), "%q: err %v", text, err)
	}
}
