package till

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// recordVersion is the ledger line schema version. Lines with any
// other version are treated as corrupt.
const recordVersion = 1

// Today returns the current calendar day key (YYYY-MM-DD).
func Today() string {
	return time.Now().Format("2006-01-02")
}

// Record is one immutable ledger entry: a completed transaction's
// amounts, both breakdowns, and its net effect on the drawer.
type Record struct {
	ID         string
	Time       time.Time
	AmountDue  int
	Tendered   Breakdown
	Returned   Breakdown
	Delta      Delta
	TotalAfter int
}

// wireBreakdown is the string-keyed JSON shape of a breakdown; JSON
// object keys must be strings.
type wireBreakdown struct {
	Notes map[string]int `json:"notes,omitempty"`
	Coins int            `json:"coins"`
}

type wireRecord struct {
	Version    int           `json:"v"`
	ID         string        `json:"id"`
	Time       time.Time     `json:"ts"`
	AmountDue  int           `json:"amount_due"`
	Tendered   wireBreakdown `json:"tendered"`
	Returned   wireBreakdown `json:"returned"`
	Delta      wireBreakdown `json:"delta"`
	TotalAfter int           `json:"total_after"`
}

func toWireCounts(notes map[int]int) map[string]int {
	if len(notes) == 0 {
		return nil
	}
	out := make(map[string]int, len(notes))
	for den, cnt := range notes {
		out[strconv.Itoa(den)] = cnt
	}
	return out
}

func fromWireCounts(notes map[string]int) (map[int]int, error) {
	out := make(map[int]int, len(notes))
	for key, cnt := range notes {
		den, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.Wrapf(err, "denomination key %q", key)
		}
		out[den] = cnt
	}
	return out, nil
}

func (r *Record) toWire() wireRecord {
	return wireRecord{
		Version:    recordVersion,
		ID:         r.ID,
		Time:       r.Time,
		AmountDue:  r.AmountDue,
		Tendered:   wireBreakdown{Notes: toWireCounts(r.Tendered.Notes), Coins: r.Tendered.Coins},
		Returned:   wireBreakdown{Notes: toWireCounts(r.Returned.Notes), Coins: r.Returned.Coins},
		Delta:      wireBreakdown{Notes: toWireCounts(r.Delta.Notes), Coins: r.Delta.Coins},
		TotalAfter: r.TotalAfter,
	}
}

func recordFromWire(w wireRecord) (*Record, error) {
	if w.Version != recordVersion {
		return nil, errors.Errorf("unknown record version %d", w.Version)
	}
	tendered, err := fromWireCounts(w.Tendered.Notes)
	if err != nil {
		return nil, err
	}
	returned, err := fromWireCounts(w.Returned.Notes)
	if err != nil {
		return nil, err
	}
	delta, err := fromWireCounts(w.Delta.Notes)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:         w.ID,
		Time:       w.Time,
		AmountDue:  w.AmountDue,
		Tendered:   Breakdown{Notes: tendered, Coins: w.Tendered.Coins},
		Returned:   Breakdown{Notes: returned, Coins: w.Returned.Coins},
		Delta:      Delta{Notes: delta, Coins: w.Delta.Coins},
		TotalAfter: w.TotalAfter,
	}, nil
}

// Ledger is the day-scoped append-only transaction log: one JSON
// record per line in <dir>/<day>_txlog.jsonl. Records are never
// rewritten; the only removal is truncating the most recent line.
type Ledger struct {
	dir string
}

// NewLedger returns a ledger rooted at dir. The directory is created
// on first append.
func NewLedger(dir string) *Ledger {
	return &Ledger{dir: dir}
}

func (l *Ledger) path(day string) string {
	return filepath.Join(l.dir, day+"_txlog.jsonl")
}

// Append writes one record to the end of day's log.
func (l *Ledger) Append(day string, rec *Record) (err error) {
	defer Return(&err)
	err = os.MkdirAll(l.dir, 0755)
	Ck(err)
	buf, err := json.Marshal(rec.toWire())
	Ck(err)
	fh, err := os.OpenFile(l.path(day), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	Ck(err)
	defer fh.Close()
	_, err = fh.Write(append(buf, '\n'))
	Ck(err)
	log.Debugf("ledger %s: appended record %s", day, rec.ID)
	return nil
}

// ReadLast returns the most recently appended valid record for day,
// or nil if the log is missing, empty, or its trailing entry is
// malformed. A corrupt trailing line is an expected crash artifact in
// an append-only log, so it reads as "no entry" rather than an error.
func (l *Ledger) ReadLast(day string) (*Record, error) {
	buf, err := os.ReadFile(l.path(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read ledger %s", day)
	}
	for _, line := range reverseLines(buf) {
		var w wireRecord
		if err := json.Unmarshal([]byte(line), &w); err != nil {
			log.Debugf("ledger %s: corrupt trailing line treated as absent: %v", day, err)
			return nil, nil
		}
		rec, err := recordFromWire(w)
		if err != nil {
			log.Debugf("ledger %s: invalid trailing record treated as absent: %v", day, err)
			return nil, nil
		}
		return rec, nil
	}
	return nil, nil
}

// DropLast removes exactly the most recent non-empty line from day's
// log, leaving earlier entries untouched. Missing or empty logs are a
// no-op. The shortened log replaces the old file atomically.
func (l *Ledger) DropLast(day string) (err error) {
	defer Return(&err)
	buf, err := os.ReadFile(l.path(day))
	if os.IsNotExist(err) {
		return nil
	}
	Ck(err)
	lines := strings.Split(strings.TrimRight(string(buf), "\n"), "\n")
	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last < 0 {
		return nil
	}
	out := strings.Join(lines[:last], "\n")
	if out != "" {
		out += "\n"
	}
	err = renameio.WriteFile(l.path(day), []byte(out), 0644)
	Ck(err)
	log.Debugf("ledger %s: dropped last record", day)
	return nil
}

// Undo reverses day's most recent transaction against target: it
// subtracts the record's net delta (tendered minus returned, per
// denomination and for the pool) from target's current quantities and
// then drops the record from the log. The subtraction is
// all-or-nothing; if any quantity would go negative it fails with
// ErrInconsistentLedger and leaves both the drawer and the log
// untouched. Returns the undone record, or nil if the day has none.
//
// This is a blind inverse-delta application, not a verified rollback:
// it restores the pre-transaction state only if nothing else touched
// the drawer since the record was written. With intervening
// transactions or manual edits the arithmetic is still well defined,
// but the result may not be the state the operator remembers.
func (l *Ledger) Undo(target *Drawer, day string) (*Record, error) {
	rec, err := l.ReadLast(day)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	delta := DeltaOf(rec.Tendered, rec.Returned)

	newNotes := make(map[int]int, len(delta.Notes))
	for den, dv := range delta.Notes {
		if !target.denoms.Contains(den) {
			return nil, errors.Wrapf(ErrInconsistentLedger, "record denomination %d not in drawer", den)
		}
		cnt := target.notes[den] - dv
		if cnt < 0 {
			return nil, errors.Wrapf(ErrInconsistentLedger, "denomination %d would go to %d", den, cnt)
		}
		newNotes[den] = cnt
	}
	newCoins := target.coins - delta.Coins
	if newCoins < 0 {
		return nil, errors.Wrapf(ErrInconsistentLedger, "pool would go to %d", newCoins)
	}

	for den, cnt := range newNotes {
		target.notes[den] = cnt
	}
	target.coins = newCoins

	if err := l.DropLast(day); err != nil {
		return nil, err
	}
	log.Debugf("ledger %s: undid record %s", day, rec.ID)
	return rec, nil
}

// reverseLines splits buf into lines, last first, skipping blanks.
func reverseLines(buf []byte) []string {
	lines := strings.Split(string(buf), "\n")
	out := make([]string, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			out = append(out, lines[i])
		}
	}
	return out
}
