package partition

import "github.com/pkg/errors"

var (
	// ErrDimensionMismatch is returned when assets being merged do not
	// report the same number of dimensions.
	ErrDimensionMismatch = errors.New("dimension count mismatch")

	// ErrDimensionLengthMismatch is returned when a dimension's
	// partition key count differs across assets being merged.
	ErrDimensionLengthMismatch = errors.New("dimension length mismatch")

	// ErrUnsupportedDimensionality is returned when an operation is
	// requested over more than two partition dimensions.
	ErrUnsupportedDimensionality = errors.New("only 1- or 2-dimensional partitioning is supported")
)
