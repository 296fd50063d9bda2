package till

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Tender strings come from the operator in one of three shapes, freely
// combined with "," or ";" separators:
//
//	"2000"                  a single note (or, if the value is not a
//	                        tracked note, a coin-pool amount)
//	"2000x1, 1000x2"        note value times count; ":" and "×" also
//	                        accepted as the separator
//	"coins:150"             a coin-pool amount; "apro" is kept as an
//	                        alias for the original Hungarian till
//
// Amounts not in the note set are classified as pool money. That is a
// parser-boundary convention inherited from the original till, not an
// engine rule.
var (
	poolRe = regexp.MustCompile(`^(coins|apro|apró)\s*[:x]\s*(\d+)$`)
	noteRe = regexp.MustCompile(`^(\d+)\s*[x:]\s*(\d+)$`)
	bareRe = regexp.MustCompile(`^\d+$`)
)

// ParseTender turns a free-form tender string into a breakdown over
// ds. An empty string parses to an empty breakdown; anything
// unrecognizable fails with ErrMalformedTender.
func ParseTender(text string, ds *DenomSet) (Breakdown, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Breakdown{}, nil
	}

	if bareRe.MatchString(text) {
		val, err := strconv.Atoi(text)
		if err != nil {
			return Breakdown{}, errors.Wrapf(ErrMalformedTender, "%q", text)
		}
		if ds.Contains(val) {
			return Breakdown{Notes: map[int]int{val: 1}}, nil
		}
		return Breakdown{Coins: val}, nil
	}

	t := strings.ToLower(text)
	t = strings.ReplaceAll(t, ";", ",")
	t = strings.ReplaceAll(t, "×", "x")

	b := Breakdown{Notes: make(map[int]int)}
	for _, part := range strings.Split(t, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if m := poolRe.FindStringSubmatch(part); m != nil {
			amount, err := strconv.Atoi(m[2])
			if err != nil {
				return Breakdown{}, errors.Wrapf(ErrMalformedTender, "%q", part)
			}
			b.Coins += amount
			continue
		}

		m := noteRe.FindStringSubmatch(part)
		if m == nil {
			return Breakdown{}, errors.Wrapf(ErrMalformedTender, "%q (expected e.g. 2000x1, 1000x1, coins:150)", part)
		}
		den, err := strconv.Atoi(m[1])
		if err != nil {
			return Breakdown{}, errors.Wrapf(ErrMalformedTender, "%q", part)
		}
		cnt, err := strconv.Atoi(m[2])
		if err != nil {
			return Breakdown{}, errors.Wrapf(ErrMalformedTender, "%q", part)
		}
		if ds.Contains(den) {
			b.Notes[den] += cnt
		} else {
			b.Coins += den * cnt
		}
	}
	return b, nil
}
