package materialization

import (
	"sync"

	"github.com/segmentio/fasthash/fnv1a"

	"github.com/datambit/assethealth/partition"
)

// assetHealth is an immutable partition.HealthData snapshot of one
// asset. Range queries can be expensive on two-dimensional assets, so
// results are memoized per instance; the merge engine itself never
// caches, per its contract.
type assetHealth struct {
	entry *assetEntry

	mu   sync.Mutex
	memo map[uint64][]partition.Range
}

func newAssetHealth(entry *assetEntry, memoize bool) *assetHealth {
	h := &assetHealth{entry: entry}
	if memoize {
		h.memo = make(map[uint64][]partition.Range)
	}
	return h
}

func (h *assetHealth) Dimensions() []partition.Dimension {
	return h.entry.dimensions
}

func (h *assetHealth) StateForKey(dimensionKeys []string) partition.State {
	coords, err := h.entry.coords(dimensionKeys)
	if err != nil {
		return partition.StateMissing
	}
	state, ok := h.entry.states[h.entry.flatIndex(coords)]
	if !ok {
		return partition.StateMissing
	}
	return state
}

func (h *assetHealth) RangesForSingleDimension(
	dimensionIdx int, otherDimensionSelectedRanges []partition.Range,
) []partition.Range {
	dims := h.entry.dimensions
	if dimensionIdx < 0 || dimensionIdx >= len(dims) {
		return nil
	}

	key := memoKey(dimensionIdx, otherDimensionSelectedRanges)
	if h.memo != nil {
		h.mu.Lock()
		cached, ok := h.memo[key]
		h.mu.Unlock()
		if ok {
			return cached
		}
	}

	var states []partition.State
	if len(dims) == 1 {
		states = h.statesAlongSingleDimension()
	} else {
		states = h.statesAcrossOtherDimension(dimensionIdx, otherDimensionSelectedRanges)
	}
	ranges := rangesFromStates(dims[dimensionIdx].Keys, states)

	if h.memo != nil {
		h.mu.Lock()
		h.memo[key] = ranges
		h.mu.Unlock()
	}
	return ranges
}

func (h *assetHealth) statesAlongSingleDimension() []partition.State {
	keys := h.entry.dimensions[0].Keys
	states := make([]partition.State, len(keys))
	for i := range keys {
		states[i] = stateOrMissing(h.entry.states, i)
	}
	return states
}

// statesAcrossOtherDimension summarizes a 2D asset along dimensionIdx:
// each position's state is the combination of its cells over the
// selected rows of the other dimension. A nil selection covers the
// other dimension's full key set.
func (h *assetHealth) statesAcrossOtherDimension(
	dimensionIdx int, otherSelected []partition.Range,
) []partition.State {
	dims := h.entry.dimensions
	otherIdx := 1 - dimensionIdx

	selected := selectedIndices(len(dims[otherIdx].Keys), otherSelected)
	keys := dims[dimensionIdx].Keys
	states := make([]partition.State, len(keys))
	if len(selected) == 0 {
		for i := range states {
			states[i] = partition.StateMissing
		}
		return states
	}

	cells := make([]partition.State, len(selected))
	for i := range keys {
		for c, j := range selected {
			coords := [2]int{i, j}
			if dimensionIdx == 1 {
				coords = [2]int{j, i}
			}
			cells[c] = stateOrMissing(h.entry.states, h.entry.flatIndex(coords[:]))
		}
		states[i] = partition.MergedStates(cells)
	}
	return states
}

// rangesFromStates collapses per-index states into maximal contiguous
// ranges, leaving MISSING runs as gaps.
func rangesFromStates(keys []string, states []partition.State) []partition.Range {
	var ranges []partition.Range
	for i := 0; i < len(states); {
		state := states[i]
		j := i
		for j+1 < len(states) && states[j+1] == state {
			j++
		}
		if state != partition.StateMissing {
			ranges = append(ranges, partition.Range{
				Start: partition.Key{Idx: i, Key: keys[i]},
				End:   partition.Key{Idx: j, Key: keys[j]},
				Value: state,
			})
		}
		i = j + 1
	}
	return ranges
}

func selectedIndices(numKeys int, selected []partition.Range) []int {
	if selected == nil {
		all := make([]int, numKeys)
		for i := range all {
			all[i] = i
		}
		return all
	}
	var indices []int
	for _, r := range selected {
		for i := r.Start.Idx; i <= r.End.Idx && i < numKeys; i++ {
			if i >= 0 {
				indices = append(indices, i)
			}
		}
	}
	return indices
}

func stateOrMissing(states map[int]partition.State, idx int) partition.State {
	if state, ok := states[idx]; ok {
		return state
	}
	return partition.StateMissing
}

// memoKey identifies a range query by a 64-bit hash of its selection.
// A collision would serve another selection's cached ranges; with the
// handful of selections a renderer issues per accessor, the odds are
// negligible.
func memoKey(dimensionIdx int, selected []partition.Range) uint64 {
	h := fnv1a.Init64
	h = fnv1a.AddUint64(h, uint64(dimensionIdx))
	if selected == nil {
		// nil means "no restriction", distinct from an empty selection
		return fnv1a.AddString64(h, "*")
	}
	for _, r := range selected {
		h = fnv1a.AddUint64(h, uint64(r.Start.Idx))
		h = fnv1a.AddUint64(h, uint64(r.End.Idx))
		h = fnv1a.AddString64(h, string(r.Value))
	}
	return h
}
