package materialization

import (
	"io"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/therne/errorist"

	"github.com/datambit/assethealth/partition"
)

// Snapshot is a serializable dump of a store: asset definitions plus
// the records needed to rebuild their reported states. Rendering
// layers and test fixtures use it to persist provider state.
type Snapshot struct {
	Assets []AssetSnapshot `json:"assets"`
}

type AssetSnapshot struct {
	Name       string                `json:"name"`
	Dimensions []partition.Dimension `json:"dimensions"`
	Records    []Record              `json:"records"`
}

// Snapshot dumps the store's current contents. Assets and records are
// emitted in deterministic order.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.assets))
	for name := range s.assets {
		names = append(names, name)
	}
	sort.Strings(names)

	snap := Snapshot{Assets: make([]AssetSnapshot, 0, len(names))}
	for _, name := range names {
		entry := s.assets[name]
		snap.Assets = append(snap.Assets, AssetSnapshot{
			Name:       name,
			Dimensions: entry.dimensions,
			Records:    entry.records(),
		})
	}
	return snap
}

// records reconstructs one record per reported partition, ordered by
// flat index.
func (e *assetEntry) records() []Record {
	indices := make([]int, 0, len(e.states))
	for idx := range e.states {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	records := make([]Record, 0, len(indices))
	for _, idx := range indices {
		records = append(records, Record{
			Asset:  e.name,
			Keys:   e.keysAt(idx),
			Status: stateToStatus(e.states[idx]),
		})
	}
	return records
}

func (e *assetEntry) keysAt(flatIdx int) []string {
	if len(e.dimensions) == 1 {
		return []string{e.dimensions[0].Keys[flatIdx]}
	}
	width := len(e.dimensions[1].Keys)
	return []string{
		e.dimensions[0].Keys[flatIdx/width],
		e.dimensions[1].Keys[flatIdx%width],
	}
}

func stateToStatus(s partition.State) Status {
	if s == partition.StateFailure {
		return StatusFailure
	}
	return StatusSuccess
}

// WriteSnapshot encodes the store as JSON.
func (s *Store) WriteSnapshot(w io.Writer) error {
	if err := jsoniter.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return nil
}

// WriteSnapshotFile writes the store's snapshot to a file.
func (s *Store) WriteSnapshotFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create snapshot file")
	}
	defer errorist.CloseWithErrCapture(f, &err, errorist.Wrapf("close snapshot file"))
	return s.WriteSnapshot(f)
}

// ReadSnapshot rebuilds a store from a JSON snapshot.
func ReadSnapshot(r io.Reader, opt ...StoreOption) (*Store, error) {
	var snap Snapshot
	if err := jsoniter.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}

	store := NewStore(opt...)
	for _, asset := range snap.Assets {
		if err := store.DefineAsset(asset.Name, asset.Dimensions...); err != nil {
			return nil, errors.Wrapf(err, "define asset %s", asset.Name)
		}
		if err := store.PutAll(asset.Records); err != nil {
			return nil, errors.Wrapf(err, "restore records of %s", asset.Name)
		}
	}
	log.Info("Restored {} asset(s) from snapshot.", len(snap.Assets))
	return store, nil
}

// ReadSnapshotFile rebuilds a store from a snapshot file.
func ReadSnapshotFile(path string, opt ...StoreOption) (store *Store, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot file")
	}
	defer errorist.CloseWithErrCapture(f, &err, errorist.Wrapf("close snapshot file"))
	return ReadSnapshot(f, opt...)
}
