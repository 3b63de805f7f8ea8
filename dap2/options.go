package dap2

// Option configures the parsers and decoder exposed by this package.
type Option func(*options)

type options struct {
	log Logger

	allowDuplicateAttributes bool
	lenientTrailingGarbage   bool
}

func defaultOptions() *options {
	return &options{log: NopLogger{}}
}

// WithLogger sets the Logger used for diagnostic messages (lenient
// fallbacks, recoverable conditions). Default is NopLogger.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithAllowDuplicateAttributes makes ParseDAS treat a repeated attribute
// name within one block as "last wins" instead of raising
// DuplicateAttribute. Default is strict.
func WithAllowDuplicateAttributes() Option {
	return func(o *options) {
		o.allowDuplicateAttributes = true
	}
}

// WithLenientTrailingGarbage makes ParseDODS tolerate unconsumed bytes
// after the decoded payload instead of raising TrailingGarbage. The
// discarded byte count is still recorded in the returned Dataset's
// TrailingBytes. Default is strict.
func WithLenientTrailingGarbage() Option {
	return func(o *options) {
		o.lenientTrailingGarbage = true
	}
}

func resolveOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}
