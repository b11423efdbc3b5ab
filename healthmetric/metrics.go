package healthmetric

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/thoas/go-funk"

	"github.com/datambit/assethealth/partition"
)

// HealthLabels are vector definitions for partition health metrics.
var HealthLabels = []string{"asset", "state"}

var PartitionsGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "assethealth_partitions",
		Help: "The number of partitions per materialization state of an asset",
	},
	HealthLabels,
)

var allStates = []partition.State{
	partition.StateMissing,
	partition.StateSuccess,
	partition.StateSuccessMissing,
	partition.StateFailure,
}

// Counts is the number of partitions per state label.
type Counts map[string]uint64

// Add merges two counts. When a key collides, it sums two key.
func (c Counts) Add(o Counts) {
	for k, v := range o {
		c[k] += v
	}
}

func (c Counts) String() string {
	keys := funk.Keys(c).([]string)
	sort.Strings(keys)

	countLogs := ""
	for _, key := range keys {
		countLogs += fmt.Sprintf(" - %s: %d\n", key, c[key])
	}
	return countLogs
}

// CountStates tallies per-state partition counts along the accessor's
// first dimension. Indices not covered by any range count as MISSING.
func CountStates(health partition.HealthData) Counts {
	counts := make(Counts)
	dims := health.Dimensions()
	if len(dims) == 0 {
		return counts
	}

	covered := 0
	for _, r := range health.RangesForSingleDimension(0, nil) {
		counts[string(r.Value)] += uint64(r.Length())
		covered += r.Length()
	}
	if missing := len(dims[0].Keys) - covered; missing > 0 {
		counts[string(partition.StateMissing)] += uint64(missing)
	}
	return counts
}

// Observe publishes the asset's per-state partition counts. States
// absent from the current tally are reset to zero so gauges never keep
// stale values.
func Observe(asset string, health partition.HealthData) {
	counts := CountStates(health)
	for _, state := range allStates {
		PartitionsGauge.
			WithLabelValues(asset, string(state)).
			Set(float64(counts[string(state)]))
	}
}
