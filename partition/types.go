package partition

// State is the materialization state of a single partition or a
// contiguous run of partitions. States participate in a partial
// combination order during merges; see MergedStates and MergedRanges.
type State string

const (
	StateMissing State = "MISSING"
	StateSuccess State = "SUCCESS"

	// StateSuccessMissing marks partial success: either a merged group
	// where some assets succeeded and some are missing, or a single
	// multi-dimensional asset whose row is only partially materialized.
	StateSuccessMissing State = "SUCCESS_MISSING"

	StateFailure State = "FAILURE"
)

// Dimension is one axis of partitioning. The position of a key within
// Keys is its canonical index; merges order by index only, never by
// key sort order.
type Dimension struct {
	Name string   `json:"name"`
	Keys []string `json:"partitionKeys"`
}

// Key locates a partition on a single dimension by both its canonical
// index and its key string.
type Key struct {
	Idx int    `json:"idx"`
	Key string `json:"key"`
}

// Range is a contiguous run of partition indices sharing one state,
// inclusive on both ends. A well-formed range set for one
// asset/dimension is sorted ascending by index, non-overlapping, and
// contains no MISSING ranges; absence of coverage implies MISSING.
// The engine does not validate these invariants.
type Range struct {
	Start Key   `json:"start"`
	End   Key   `json:"end"`
	Value State `json:"value"`
}

// Length returns the number of partitions the range spans.
func (r Range) Length() int {
	return r.End.Idx - r.Start.Idx + 1
}

// Contains reports whether the index falls inside the range.
func (r Range) Contains(idx int) bool {
	return r.Start.Idx <= idx && idx <= r.End.Idx
}

// HealthData exposes one asset's materialization status over one or
// two ordered partition dimensions. Implementations must be pure over
// their inputs; the merge engine never mutates them.
type HealthData interface {
	// Dimensions returns the asset's dimensions. Order is significant
	// and must match across assets passed to MergedAssetHealth.
	Dimensions() []Dimension

	// StateForKey returns the state of the exact coordinate tuple,
	// one key per dimension.
	StateForKey(dimensionKeys []string) State

	// RangesForSingleDimension returns ordered, non-overlapping ranges
	// for the given dimension, optionally restricted by a selection
	// already applied on the other dimension. Passing nil summarizes
	// over the other dimension's full key set.
	RangesForSingleDimension(dimensionIdx int, otherDimensionSelectedRanges []Range) []Range
}

// Selection picks a set of keys on one dimension for flattening with
// ExplodePartitionKeysInSelection.
type Selection struct {
	Dimension    Dimension
	SelectedKeys []string
}

// KeyState pairs a flattened partition key with its state.
type KeyState struct {
	PartitionKey string `json:"partitionKey"`
	State        State  `json:"state"`
}
