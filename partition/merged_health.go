package partition

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MergedAssetHealth combines several assets' health data into a single
// accessor with the same contract as a single asset's. All assets must
// report the same number of dimensions, and for each dimension index
// the same partition key count; keys are matched by index position,
// not by name.
//
// Merging an empty list yields an accessor with no dimensions that
// reports MISSING everywhere.
func MergedAssetHealth(assetHealth []HealthData) (HealthData, error) {
	if len(assetHealth) == 0 {
		return emptyHealth{}, nil
	}

	first := assetHealth[0].Dimensions()
	for i, h := range assetHealth[1:] {
		dims := h.Dimensions()
		if len(dims) != len(first) {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"asset #%d reports %d dimensions, expected %d", i+1, len(dims), len(first))
		}
		for d := range dims {
			if len(dims[d].Keys) != len(first[d].Keys) {
				return nil, errors.Wrapf(ErrDimensionLengthMismatch,
					"asset #%d dimension %q has %d keys, expected %d",
					i+1, first[d].Name, len(dims[d].Keys), len(first[d].Keys))
			}
		}
	}

	dimensions := lo.Map(first, func(d Dimension, _ int) Dimension {
		return Dimension{Name: d.Name, Keys: d.Keys}
	})
	return &mergedHealth{assets: assetHealth, dimensions: dimensions}, nil
}

type mergedHealth struct {
	assets     []HealthData
	dimensions []Dimension
}

func (m *mergedHealth) Dimensions() []Dimension { return m.dimensions }

func (m *mergedHealth) StateForKey(dimensionKeys []string) State {
	return MergedStates(lo.Map(m.assets, func(h HealthData, _ int) State {
		return h.StateForKey(dimensionKeys)
	}))
}

func (m *mergedHealth) RangesForSingleDimension(dimensionIdx int, otherDimensionSelectedRanges []Range) []Range {
	if dimensionIdx < 0 || dimensionIdx >= len(m.dimensions) {
		return nil
	}
	rangeSets := lo.Map(m.assets, func(h HealthData, _ int) []Range {
		return h.RangesForSingleDimension(dimensionIdx, otherDimensionSelectedRanges)
	})
	return MergedRanges(m.dimensions[dimensionIdx].Keys, rangeSets)
}

// emptyHealth is the degenerate accessor returned for a merge of zero
// assets.
type emptyHealth struct{}

func (emptyHealth) Dimensions() []Dimension { return nil }

func (emptyHealth) StateForKey([]string) State { return StateMissing }

func (emptyHealth) RangesForSingleDimension(int, []Range) []Range { return nil }
