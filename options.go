package assethealth

import "github.com/creasty/defaults"

type Options struct {
	// IncludeMissing keeps MISSING entries in exploded reports. The
	// merge engine itself never materializes MISSING ranges; this only
	// affects the flattened per-key report.
	IncludeMissing bool `default:"false"`

	// KeyDelimiter joins per-dimension keys of two-dimensional
	// partitions in exploded reports.
	KeyDelimiter string `default:"|"`
}

func DefaultOptions() (o Options) {
	if err := defaults.Set(&o); err != nil {
		panic(err)
	}
	return
}

type Option func(o *Options)

// WithMissingEntries includes unmaterialized partitions in reports.
func WithMissingEntries() Option {
	return func(o *Options) {
		o.IncludeMissing = true
	}
}

// WithKeyDelimiter overrides the delimiter joining two-dimensional
// partition keys in reports.
func WithKeyDelimiter(delimiter string) Option {
	return func(o *Options) {
		o.KeyDelimiter = delimiter
	}
}

func buildOptions(opts []Option) Options {
	options := DefaultOptions()
	for _, optFn := range opts {
		optFn(&options)
	}
	return options
}
