package partition

import (
	"sort"

	"github.com/samber/lo"
)

// MergedStates combines the states reported by multiple assets for a
// single partition key. Precedence: FAILURE dominates; SUCCESS mixed
// with MISSING degrades to SUCCESS_MISSING; SUCCESS_MISSING is sticky.
// Otherwise all inputs are equal and the first is returned.
//
// Must not be called with an empty slice.
func MergedStates(states []State) State {
	anyMissing := lo.Contains(states, StateMissing)
	anySuccess := lo.Contains(states, StateSuccess)
	switch {
	case lo.Contains(states, StateFailure):
		return StateFailure
	case anyMissing && anySuccess:
		return StateSuccessMissing
	case lo.Contains(states, StateSuccessMissing):
		return StateSuccessMissing
	default:
		return states[0]
	}
}

// transition is one endpoint of a range during the sweep: delta +1 at
// the range's first index, -1 one past its last.
type transition struct {
	idx   int
	delta int
	state State
}

// MergedRanges combines several assets' range sets over one dimension
// into a single set representing their unified materialization state.
// allKeys is the dimension's full key list; range indices refer to it.
//
// Input range sets must satisfy the Range invariants. The result is
// sorted, non-overlapping, and contains no MISSING ranges.
func MergedRanges(allKeys []string, rangeSets [][]Range) []Range {
	// combining a single set with itself is meaningless
	if len(rangeSets) == 1 {
		return rangeSets[0]
	}

	transitions := make([]transition, 0, totalRanges(rangeSets)*2)
	for _, rs := range rangeSets {
		for _, r := range rs {
			transitions = append(transitions,
				transition{idx: r.Start.Idx, delta: 1, state: r.Value},
				transition{idx: r.End.Idx + 1, delta: -1, state: r.Value},
			)
		}
	}
	return assembleRangesFromTransitions(allKeys, transitions, len(rangeSets))
}

// assembleRangesFromTransitions sweeps the transitions in index order,
// tracking how many of the maxOverlap range sets report each state,
// and emits maximal ranges of equal combined state.
func assembleRangesFromTransitions(allKeys []string, transitions []transition, maxOverlap int) []Range {
	if len(transitions) == 0 {
		return nil
	}

	// ties on idx are broken by state label so grouping is reproducible;
	// the depth accumulation itself is commutative
	sort.SliceStable(transitions, func(i, j int) bool {
		if transitions[i].idx != transitions[j].idx {
			return transitions[i].idx < transitions[j].idx
		}
		return transitions[i].state < transitions[j].state
	})

	depth := make(map[State]int, 4)
	var merged []Range
	var current Range
	open := false

	flush := func(endIdx int) {
		if !open {
			return
		}
		current.End = Key{Idx: endIdx, Key: allKeys[endIdx]}
		merged = append(merged, current)
		open = false
	}

	for i := 0; i < len(transitions); {
		idx := transitions[i].idx

		// all transitions at the same index take effect together
		for i < len(transitions) && transitions[i].idx == idx {
			depth[transitions[i].state] += transitions[i].delta
			i++
		}

		value := combinedState(depth, maxOverlap)
		if open && current.Value == value {
			continue
		}
		flush(idx - 1)
		if idx < len(allKeys) {
			current = Range{Start: Key{Idx: idx, Key: allKeys[idx]}, Value: value}
			open = true
		}
	}
	flush(len(allKeys) - 1)

	// gaps stay implicit
	return lo.Filter(merged, func(r Range, _ int) bool {
		return r.Value != StateMissing
	})
}

// combinedState derives the unified state at one sweep position from
// the per-state overlap depths.
func combinedState(depth map[State]int, maxOverlap int) State {
	switch {
	case depth[StateFailure] > 0:
		return StateFailure
	case depth[StateSuccess] == maxOverlap:
		return StateSuccess
	case depth[StateSuccess] > 0 || depth[StateSuccessMissing] > 0:
		return StateSuccessMissing
	default:
		return StateMissing
	}
}

func totalRanges(rangeSets [][]Range) (n int) {
	for _, rs := range rangeSets {
		n += len(rs)
	}
	return
}
