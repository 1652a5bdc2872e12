package pipeline

import "github.com/pkg/errors"

var (
	// ErrAggregateWithoutWindow reports Aggregate configured on a pipeline
	// with no prior WindowBy.
	ErrAggregateWithoutWindow = errors.New("aggregate without window")
	// ErrUnsupportedConversion reports a conversion with no valid target
	// representation, such as a range event into an indexed event.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	// ErrUnsupportedMerge reports an attempt to fan two sources into one
	// pipeline. Chaining is strictly linear; combine collections before
	// building a pipeline.
	ErrUnsupportedMerge = errors.New("unsupported merge of sources")
)
