package till

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// snapshotVersion is the drawer snapshot schema version. Snapshots
// with any other version, or any shape violation, load as absent.
const snapshotVersion = 1

// snapshot is the on-disk drawer shape: every denomination present as
// a string key, the pool amount, and a redundantly stored total. The
// total is recomputed on load and never trusted from storage.
type snapshot struct {
	Version int            `json:"v"`
	Notes   map[string]int `json:"notes"`
	Coins   int            `json:"coins"`
	Total   int            `json:"total"`
}

// Store persists drawer snapshots keyed by calendar day, one JSON
// file per day at <dir>/<day>_drawer.json. Writes are atomic (write
// to temp, rename over).
type Store struct {
	dir    string
	denoms *DenomSet
}

// NewStore returns a store rooted at dir for drawers over ds.
func NewStore(dir string, ds *DenomSet) *Store {
	return &Store{dir: dir, denoms: ds}
}

func (s *Store) path(day string) string {
	return filepath.Join(s.dir, day+"_drawer.json")
}

// Save writes d's state under day.
func (s *Store) Save(day string, d *Drawer) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", s.dir)
	}
	snap := snapshot{
		Version: snapshotVersion,
		Notes:   make(map[string]int, len(s.denoms.notes)),
		Coins:   d.coins,
		Total:   d.Total(),
	}
	for _, den := range s.denoms.notes {
		snap.Notes[strconv.Itoa(den)] = d.notes[den]
	}
	buf, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}
	if err := renameio.WriteFile(s.path(day), append(buf, '\n'), 0644); err != nil {
		return errors.Wrapf(err, "save snapshot %s", day)
	}
	log.Debugf("store: saved %s total %d", day, snap.Total)
	return nil
}

// Load reads day's drawer, or returns nil if the day has no snapshot.
// A snapshot that is unparsable or violates the schema (wrong
// version, unknown denomination, negative count, bad pool amount)
// also loads as nil -- absent, never a best-effort partial parse.
func (s *Store) Load(day string) (*Drawer, error) {
	buf, err := os.ReadFile(s.path(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "load snapshot %s", day)
	}
	var snap snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		log.Debugf("store: %s unparsable, treating as absent: %v", day, err)
		return nil, nil
	}
	d, err := s.drawerFrom(snap)
	if err != nil {
		log.Debugf("store: %s schema violation, treating as absent: %v", day, err)
		return nil, nil
	}
	return d, nil
}

func (s *Store) drawerFrom(snap snapshot) (*Drawer, error) {
	if snap.Version != snapshotVersion {
		return nil, errors.Errorf("unknown snapshot version %d", snap.Version)
	}
	d := NewDrawer(s.denoms)
	for key, cnt := range snap.Notes {
		den, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.Wrapf(err, "denomination key %q", key)
		}
		if !s.denoms.Contains(den) {
			return nil, errors.Errorf("unknown denomination %d", den)
		}
		if cnt < 0 {
			return nil, errors.Errorf("negative count %d for denomination %d", cnt, den)
		}
		d.notes[den] = cnt
	}
	if !s.denoms.PoolValid(snap.Coins) {
		return nil, errors.Errorf("bad pool amount %d", snap.Coins)
	}
	d.coins = snap.Coins
	return d, nil
}

// Reset saves an all-zero drawer under today and returns it.
func (s *Store) Reset() (*Drawer, error) {
	d := NewDrawer(s.denoms)
	if err := s.Save(Today(), d); err != nil {
		return nil, err
	}
	return d, nil
}
