package pipeline

import (
	"github.com/uber-go/tally/v4"

	"github.com/siavelis/pond/log"
)

type options struct {
	logger log.Logger
	scope  tally.Scope
}

type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: log.Global(),
		scope:  tally.NoopScope,
	}
}

// WithLogger overrides the pipeline's logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsScope attaches a tally scope; the pipeline and its window state
// publish counters under it.
func WithMetricsScope(scope tally.Scope) Option {
	return func(o *options) {
		o.scope = scope
	}
}
