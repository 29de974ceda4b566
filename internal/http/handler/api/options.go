package api

type Options struct {
	// HardDelete exposes the irreversible deletion of trashed records.
	HardDelete bool
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		HardDelete: false,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func WithHardDelete(enabled bool) OptionFunc {
	return func(opts *Options) {
		opts.HardDelete = enabled
	}
}
