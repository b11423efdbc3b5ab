package materialization

import "github.com/creasty/defaults"

type StoreOptions struct {
	// MemoizeRanges caches RangesForSingleDimension results on each
	// accessor returned by HealthData. The accessors are immutable
	// snapshots, so memoized entries never go stale.
	MemoizeRanges bool `default:"true"`
}

func DefaultStoreOptions() (o StoreOptions) {
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return
}

type StoreOption func(o *StoreOptions)

// WithoutRangeMemo disables per-accessor range memoization.
func WithoutRangeMemo() StoreOption {
	return func(o *StoreOptions) {
		o.MemoizeRanges = false
	}
}

func buildStoreOptions(opts []StoreOption) StoreOptions {
	options := DefaultStoreOptions()
	for _, optFn := range opts {
		optFn(&options)
	}
	return options
}
