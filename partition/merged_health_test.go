package partition_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datambit/assethealth/partition"
)

// stubHealth is a hand-rolled accessor for façade tests.
type stubHealth struct {
	dims   []partition.Dimension
	states map[string]partition.State
	ranges map[int][]partition.Range
}

func (s stubHealth) Dimensions() []partition.Dimension { return s.dims }

func (s stubHealth) StateForKey(keys []string) partition.State {
	if state, ok := s.states[strings.Join(keys, partition.KeyDelimiter)]; ok {
		return state
	}
	return partition.StateMissing
}

func (s stubHealth) RangesForSingleDimension(dimensionIdx int, _ []partition.Range) []partition.Range {
	return s.ranges[dimensionIdx]
}

func dim(name string, keys ...string) partition.Dimension {
	return partition.Dimension{Name: name, Keys: keys}
}

func TestMergedAssetHealthEmpty(t *testing.T) {
	health, err := partition.MergedAssetHealth(nil)
	require.NoError(t, err)

	require.Empty(t, health.Dimensions())
	require.Equal(t, partition.StateMissing, health.StateForKey([]string{"a"}))
	require.Empty(t, health.RangesForSingleDimension(0, nil))
}

func TestMergedAssetHealthDimensionMismatch(t *testing.T) {
	oneDim := stubHealth{dims: []partition.Dimension{dim("date", "a", "b")}}
	twoDim := stubHealth{dims: []partition.Dimension{dim("date", "a", "b"), dim("region", "us")}}

	_, err := partition.MergedAssetHealth([]partition.HealthData{oneDim, twoDim})
	require.ErrorIs(t, err, partition.ErrDimensionMismatch)
}

func TestMergedAssetHealthDimensionLengthMismatch(t *testing.T) {
	short := stubHealth{dims: []partition.Dimension{dim("date", "a", "b")}}
	long := stubHealth{dims: []partition.Dimension{dim("date", "a", "b", "c")}}

	_, err := partition.MergedAssetHealth([]partition.HealthData{short, long})
	require.ErrorIs(t, err, partition.ErrDimensionLengthMismatch)
}

func TestMergedAssetHealthStateForKey(t *testing.T) {
	a := stubHealth{
		dims:   []partition.Dimension{dim("date", "a", "b")},
		states: map[string]partition.State{"a": partition.StateSuccess, "b": partition.StateSuccess},
	}
	b := stubHealth{
		dims:   []partition.Dimension{dim("date", "a", "b")},
		states: map[string]partition.State{"a": partition.StateSuccess, "b": partition.StateFailure},
	}

	health, err := partition.MergedAssetHealth([]partition.HealthData{a, b})
	require.NoError(t, err)

	require.Equal(t, partition.StateSuccess, health.StateForKey([]string{"a"}))
	require.Equal(t, partition.StateFailure, health.StateForKey([]string{"b"}))

	// dimensions come from the first asset, projected to name and keys
	require.Equal(t, []partition.Dimension{dim("date", "a", "b")}, health.Dimensions())
}

func TestMergedAssetHealthRanges(t *testing.T) {
	keys := []string{"a", "b", "c"}
	a := stubHealth{
		dims:   []partition.Dimension{dim("date", keys...)},
		ranges: map[int][]partition.Range{0: {keyed(keys, 0, 2, partition.StateSuccess)}},
	}
	b := stubHealth{
		dims:   []partition.Dimension{dim("date", keys...)},
		ranges: map[int][]partition.Range{0: {keyed(keys, 0, 0, partition.StateSuccess)}},
	}

	health, err := partition.MergedAssetHealth([]partition.HealthData{a, b})
	require.NoError(t, err)

	require.Equal(t, []partition.Range{
		keyed(keys, 0, 0, partition.StateSuccess),
		keyed(keys, 1, 2, partition.StateSuccessMissing),
	}, health.RangesForSingleDimension(0, nil))
}
