package materialization

import (
	"sync"

	"github.com/airbloc/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/datambit/assethealth/partition"
)

var log = logger.New("materialization")

var (
	// ErrAssetNotFound is returned when health data is requested for an
	// asset that was never defined.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrAssetAlreadyDefined is returned when DefineAsset is called
	// twice with the same asset name.
	ErrAssetAlreadyDefined = errors.New("asset already defined")

	// ErrKeyCountMismatch is returned when a record's key tuple does
	// not match the asset's dimension count.
	ErrKeyCountMismatch = errors.New("record key count does not match asset dimensions")

	// ErrUnknownPartitionKey is returned when a record references a key
	// outside the asset's dimensions.
	ErrUnknownPartitionKey = errors.New("unknown partition key")

	// ErrUnknownStatus is returned when a record carries a status other
	// than SUCCESS or FAILURE.
	ErrUnknownStatus = errors.New("unknown materialization status")

	// ErrDuplicatePartitionKey is returned when a dimension passed to
	// DefineAsset repeats a key, which would break canonical indexing.
	ErrDuplicatePartitionKey = errors.New("duplicate partition key in dimension")
)

// Store is a thread-safe in-memory materialization record store. It is
// the data provider behind partition.HealthData accessors: callers
// define each asset's dimension shape once, feed it records as runs
// complete, and query immutable health snapshots.
type Store struct {
	mu     sync.RWMutex
	assets map[string]*assetEntry
	opts   StoreOptions

	recordsPut    *atomic.Int64
	queriesServed *atomic.Int64
}

func NewStore(opt ...StoreOption) *Store {
	return &Store{
		assets:        make(map[string]*assetEntry),
		opts:          buildStoreOptions(opt),
		recordsPut:    atomic.NewInt64(0),
		queriesServed: atomic.NewInt64(0),
	}
}

// DefineAsset registers an asset and its partition dimensions. At most
// two dimensions are supported; the dimension order given here is the
// order record key tuples must follow.
func (s *Store) DefineAsset(name string, dims ...partition.Dimension) error {
	if len(dims) == 0 || len(dims) > 2 {
		return errors.Wrapf(partition.ErrUnsupportedDimensionality,
			"asset %s defines %d dimensions", name, len(dims))
	}

	keyIdx := make([]map[string]int, len(dims))
	for d, dim := range dims {
		idx := make(map[string]int, len(dim.Keys))
		for i, key := range dim.Keys {
			if _, exists := idx[key]; exists {
				return errors.Wrapf(ErrDuplicatePartitionKey, "%s in dimension %s", key, dim.Name)
			}
			idx[key] = i
		}
		keyIdx[d] = idx
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assets[name]; exists {
		return errors.Wrap(ErrAssetAlreadyDefined, name)
	}
	s.assets[name] = &assetEntry{
		name:       name,
		dimensions: dims,
		keyIdx:     keyIdx,
		states:     make(map[int]partition.State),
	}
	log.Info("Asset {} defined with {} dimension(s).", name, len(dims))
	return nil
}

// Put stores a single record. The latest record for a partition wins.
func (s *Store) Put(r Record) error {
	state, ok := statusToState(r.Status)
	if !ok {
		return errors.Wrap(ErrUnknownStatus, string(r.Status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.assets[r.Asset]
	if !ok {
		return errors.Wrap(ErrAssetNotFound, r.Asset)
	}
	coords, err := entry.coords(r.Keys)
	if err != nil {
		return err
	}
	entry.states[entry.flatIndex(coords)] = state
	s.recordsPut.Inc()
	return nil
}

// PutAll stores the given records. Invalid records are skipped; their
// errors are collected and reported together, while valid records are
// still applied.
func (s *Store) PutAll(records []Record) error {
	var merr *multierror.Error
	for i, r := range records {
		if err := s.Put(r); err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "record #%d", i))
		}
	}
	return merr.ErrorOrNil()
}

// HealthData returns an immutable health snapshot of the asset,
// detached from subsequent writes.
func (s *Store) HealthData(asset string) (partition.HealthData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.assets[asset]
	if !ok {
		return nil, errors.Wrap(ErrAssetNotFound, asset)
	}
	s.queriesServed.Inc()
	return newAssetHealth(entry.snapshot(), s.opts.MemoizeRanges), nil
}

// Assets returns the names of all defined assets, unordered.
func (s *Store) Assets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.assets))
	for name := range s.assets {
		names = append(names, name)
	}
	return names
}

// Stats reports store counters since creation.
type Stats struct {
	RecordsPut    int64
	QueriesServed int64
}

func (s *Store) Stats() Stats {
	return Stats{
		RecordsPut:    s.recordsPut.Load(),
		QueriesServed: s.queriesServed.Load(),
	}
}

// assetEntry holds one asset's dimension shape and reported states.
// states is keyed by flat index: the dimension-0 index for 1D assets,
// row-major (idx0 * len(dim1) + idx1) for 2D assets.
type assetEntry struct {
	name       string
	dimensions []partition.Dimension
	keyIdx     []map[string]int
	states     map[int]partition.State
}

func (e *assetEntry) coords(keys []string) ([]int, error) {
	if len(keys) != len(e.dimensions) {
		return nil, errors.Wrapf(ErrKeyCountMismatch,
			"asset %s: got %d keys for %d dimensions", e.name, len(keys), len(e.dimensions))
	}
	coords := make([]int, len(keys))
	for d, key := range keys {
		idx, ok := e.keyIdx[d][key]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownPartitionKey,
				"%s in dimension %s of asset %s", key, e.dimensions[d].Name, e.name)
		}
		coords[d] = idx
	}
	return coords, nil
}

func (e *assetEntry) flatIndex(coords []int) int {
	if len(coords) == 1 {
		return coords[0]
	}
	return coords[0]*len(e.dimensions[1].Keys) + coords[1]
}

// snapshot copies the mutable state map; dimensions and key indices
// are immutable after DefineAsset and can be shared.
func (e *assetEntry) snapshot() *assetEntry {
	states := make(map[int]partition.State, len(e.states))
	for k, v := range e.states {
		states[k] = v
	}
	return &assetEntry{
		name:       e.name,
		dimensions: e.dimensions,
		keyIdx:     e.keyIdx,
		states:     states,
	}
}

func statusToState(s Status) (partition.State, bool) {
	switch s {
	case StatusSuccess:
		return partition.StateSuccess, true
	case StatusFailure:
		return partition.StateFailure, true
	default:
		return "", false
	}
}
