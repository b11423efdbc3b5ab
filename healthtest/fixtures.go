// Package healthtest provides deterministic fixtures for partition
// health tests.
package healthtest

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/datambit/assethealth/materialization"
	"github.com/datambit/assethealth/partition"
)

// Days returns a daily dimension with n consecutive date keys starting
// at 2023-01-01.
func Days(name string, n int) partition.Dimension {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, n)
	for i := range keys {
		keys[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return partition.Dimension{Name: name, Keys: keys}
}

// Letters returns a dimension with n single-letter keys starting at "a".
func Letters(name string, n int) partition.Dimension {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = string(rune('a' + i))
	}
	return partition.Dimension{Name: name, Keys: keys}
}

var rangeStates = []partition.State{
	partition.StateSuccess,
	partition.StateFailure,
	partition.StateSuccessMissing,
}

// RandomRangeSet generates a well-formed range set over the keys:
// sorted ascending, separated by at least one uncovered index, and
// free of MISSING values.
func RandomRangeSet(rng *rand.Rand, keys []string) []partition.Range {
	var ranges []partition.Range
	i := 0
	for i < len(keys) {
		if rng.Intn(2) == 0 {
			i++
			continue
		}
		length := 1 + rng.Intn(len(keys)-i)
		ranges = append(ranges, partition.Range{
			Start: partition.Key{Idx: i, Key: keys[i]},
			End:   partition.Key{Idx: i + length - 1, Key: keys[i+length-1]},
			Value: rangeStates[rng.Intn(len(rangeStates))],
		})
		i += length + 1
	}
	log.Debug().Int("ranges", len(ranges)).Msg("generated range set")
	return ranges
}

// SeedRandomRecords reports a random terminal status for roughly two
// thirds of the asset's partitions, leaving the rest missing.
func SeedRandomRecords(rng *rand.Rand, store *materialization.Store, asset string, keys []string) error {
	var records []materialization.Record
	for _, key := range keys {
		switch rng.Intn(3) {
		case 0:
			records = append(records, materialization.Record{
				Asset: asset, Keys: []string{key}, Status: materialization.StatusSuccess,
			})
		case 1:
			records = append(records, materialization.Record{
				Asset: asset, Keys: []string{key}, Status: materialization.StatusFailure,
			})
		}
	}
	log.Debug().Str("asset", asset).Int("records", len(records)).Msg("seeding store")
	return store.PutAll(records)
}
