// Package assethealth aggregates per-asset partition materialization
// health into a single unified view. It composes the materialization
// store with the partition merge engine so callers can query a group
// of assets exactly as they would a single one.
package assethealth

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/therne/errorist"

	"github.com/datambit/assethealth/materialization"
	"github.com/datambit/assethealth/partition"
)

// Inspect loads each asset's health data from the store and merges
// them into a single accessor. All assets must share the same
// dimension shape.
func Inspect(store *materialization.Store, assets []string) (partition.HealthData, error) {
	healths := make([]partition.HealthData, len(assets))
	for i, asset := range assets {
		health, err := store.HealthData(asset)
		if err != nil {
			return nil, errors.Wrapf(err, "load health data of %s", asset)
		}
		healths[i] = health
	}
	return partition.MergedAssetHealth(healths)
}

// Report flattens the given selections against a health accessor into
// per-key entries for rendering. MISSING entries are dropped unless
// WithMissingEntries is given.
//
// The accessor may be caller-implemented; panics escaping it are
// captured and returned as errors.
func Report(
	health partition.HealthData, selections []partition.Selection, opt ...Option,
) (entries []partition.KeyState, err error) {
	defer func() {
		if perr := errorist.WrapPanic(recover()); perr != nil {
			err = perr
		}
	}()

	opts := buildOptions(opt)
	entries, err = partition.ExplodeWithDelimiter(selections, health.StateForKey, opts.KeyDelimiter)
	if err != nil {
		return nil, err
	}
	if opts.IncludeMissing {
		return entries, nil
	}
	return lo.Filter(entries, func(e partition.KeyState, _ int) bool {
		return e.State != partition.StateMissing
	}), nil
}

// SelectAll builds a selection covering every key of every dimension
// of the accessor.
func SelectAll(health partition.HealthData) []partition.Selection {
	dims := health.Dimensions()
	selections := make([]partition.Selection, len(dims))
	for i := range dims {
		var dim partition.Dimension
		if err := copier.Copy(&dim, &dims[i]); err != nil {
			panic(err)
		}
		selections[i] = partition.Selection{Dimension: dim, SelectedKeys: dim.Keys}
	}
	return selections
}
