package materialization

// Status is the terminal status a run reports for one partition.
// A partition no run has reported on is missing.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Record is a single materialization report for one partition of an
// asset. Keys holds one partition key per dimension, in the asset's
// dimension order.
type Record struct {
	Asset  string   `json:"asset"`
	Keys   []string `json:"keys"`
	Status Status   `json:"status"`
}
