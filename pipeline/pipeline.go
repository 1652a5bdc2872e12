// Package pipeline composes sources, processors and sinks into a
// single-process, in-memory dataflow over time-indexed events.
//
// A Pipeline is an immutable value: every builder method returns a new
// Pipeline derived from the receiver, so a partially built chain can be
// shared and continued without aliasing. Execution is single-threaded and
// synchronous; each event pulled from a bounded source or pushed into an
// unbounded one is driven all the way to the sink before control returns.
package pipeline

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"

	"github.com/siavelis/pond/event"
	"github.com/siavelis/pond/log"
	"github.com/siavelis/pond/timerange"
	"github.com/siavelis/pond/window"
)

// WindowSpec is the argument to WindowBy. Type must be "Fixed"; Duration is
// a compact spec like "30s", "5m", "1h" or "1d".
type WindowSpec struct {
	Type     string
	Duration string
}

type stageSpec struct {
	name  string
	build func() (processor, error)
}

// Pipeline records a source, a processor chain and pending windowing,
// grouping and emission state. The zero value is not usable; start with New.
type Pipeline struct {
	source  Source
	stages  []stageSpec
	window  *window.Spec
	groupBy window.GroupFunc
	emitOn  window.EmitPolicy
	err     error

	logger log.Logger
	scope  tally.Scope
}

// New returns an empty pipeline carrying the given options.
func New(opts ...Option) Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return Pipeline{logger: o.logger, scope: o.scope, emitOn: window.EmitEachEvent}
}

// fail records the first builder error; later methods pass it through
// untouched and To surfaces it.
func (p Pipeline) fail(err error) Pipeline {
	if p.err == nil {
		p.err = err
	}
	return p
}

func (p Pipeline) appendStage(s stageSpec) Pipeline {
	stages := make([]stageSpec, len(p.stages), len(p.stages)+1)
	copy(stages, p.stages)
	p.stages = append(stages, s)
	return p
}

// From records the source. A pipeline has exactly one source: calling From
// on a pipeline that already carries one (including a continuation of a
// terminated pipeline) fails with ErrUnsupportedMerge.
func (p Pipeline) From(source Source) Pipeline {
	if p.err != nil {
		return p
	}
	if p.source != nil {
		return p.fail(errors.WithMessage(ErrUnsupportedMerge,
			"pipeline already has a source; combine collections before building"))
	}
	switch source.(type) {
	case BoundedSource, UnboundedSource:
		p.source = source
		return p
	default:
		return p.fail(errors.Errorf("from: source %T implements neither BoundedSource nor UnboundedSource", source))
	}
}

// GroupBy sets the grouping key for subsequent aggregation. It accepts a
// field path string or a window.GroupFunc.
func (p Pipeline) GroupBy(by interface{}) Pipeline {
	if p.err != nil {
		return p
	}
	switch fn := by.(type) {
	case string:
		p.groupBy = window.GroupByField(fn)
	case window.GroupFunc:
		p.groupBy = fn
	case func(event.Event) string:
		p.groupBy = fn
	default:
		return p.fail(errors.Errorf("groupBy: want a field path or key function, got %T", by))
	}
	return p
}

// WindowBy sets the window arrangement for subsequent aggregation.
func (p Pipeline) WindowBy(spec WindowSpec) Pipeline {
	if p.err != nil {
		return p
	}
	if spec.Type != "Fixed" {
		return p.fail(errors.Errorf("windowBy: unsupported window type %q", spec.Type))
	}
	d, err := timerange.ParseDuration(spec.Duration)
	if err != nil {
		return p.fail(err)
	}
	p.window = &window.Spec{Duration: d}
	return p
}

// EmitOn sets the emission trigger, "eachEvent" or "discard".
func (p Pipeline) EmitOn(trigger string) Pipeline {
	if p.err != nil {
		return p
	}
	policy, err := window.ParseEmitPolicy(trigger)
	if err != nil {
		return p.fail(err)
	}
	p.emitOn = policy
	return p
}

// OffsetBy appends a stage adding amount to the named fields, or to the
// field "value" when none are named.
func (p Pipeline) OffsetBy(amount float64, fieldSpec ...string) Pipeline {
	if p.err != nil {
		return p
	}
	paths := fieldSpec
	if len(paths) == 0 {
		paths = []string{"value"}
	}
	copied := make([]string, len(paths))
	copy(copied, paths)
	return p.appendStage(stageSpec{name: "offsetBy", build: func() (processor, error) {
		return newOffsetStage(amount, copied), nil
	}})
}

// Aggregate appends a stage reducing each accumulated (group, window)
// collection to one indexed event, one output field per spec. The window,
// grouping and trigger state in effect at this call is the state the stage
// runs with; configuring Aggregate with no prior WindowBy fails with
// ErrAggregateWithoutWindow.
func (p Pipeline) Aggregate(fields ...FieldSpec) Pipeline {
	if p.err != nil {
		return p
	}
	if p.window == nil {
		return p.fail(errors.WithMessage(ErrAggregateWithoutWindow,
			"aggregate requires a prior windowBy"))
	}
	spec := *p.window
	groupFn := p.groupBy
	policy := p.emitOn
	logger := p.logger
	scope := p.scope
	copied := make([]FieldSpec, len(fields))
	copy(copied, fields)
	return p.appendStage(stageSpec{name: "aggregate", build: func() (processor, error) {
		return &aggregatorStage{
			acc:    window.NewAccumulator(spec, groupFn, policy, logger, scope),
			fields: copied,
		}, nil
	}})
}

// AsEvents appends a stage converting range and indexed events to point
// events at the chosen instant of their range.
func (p Pipeline) AsEvents(opts AsEventsOptions) Pipeline {
	if p.err != nil {
		return p
	}
	switch opts.Alignment {
	case "", AlignLag, AlignCenter, AlignLead:
	default:
		return p.fail(errors.Errorf("asEvents: unknown alignment %q", opts.Alignment))
	}
	return p.appendStage(stageSpec{name: "asEvents", build: func() (processor, error) {
		return newAsEventsStage(opts), nil
	}})
}

// AsTimeRangeEvents appends a stage converting point and indexed events to
// range events of the given duration, positioned by the alignment.
func (p Pipeline) AsTimeRangeEvents(opts AsTimeRangeEventsOptions) Pipeline {
	if p.err != nil {
		return p
	}
	d, err := timerange.ParseDuration(opts.Duration)
	if err != nil {
		return p.fail(err)
	}
	switch opts.Alignment {
	case AlignFront, AlignRangeCenter, AlignBehind:
	default:
		return p.fail(errors.Errorf("asTimeRangeEvents: unknown alignment %q", opts.Alignment))
	}
	return p.appendStage(stageSpec{name: "asTimeRangeEvents", build: func() (processor, error) {
		return newAsTimeRangeEventsStage(d, opts.Alignment), nil
	}})
}

// AsIndexedEvents appends a stage converting point events to indexed events
// of the given bucket duration. Range events have no index representation
// and fail with ErrUnsupportedConversion at processing time.
func (p Pipeline) AsIndexedEvents(opts AsIndexedEventsOptions) Pipeline {
	if p.err != nil {
		return p
	}
	d, err := timerange.ParseDuration(opts.Duration)
	if err != nil {
		return p.fail(err)
	}
	return p.appendStage(stageSpec{name: "asIndexedEvents", build: func() (processor, error) {
		return newAsIndexedEventsStage(d), nil
	}})
}

// Err returns the first error recorded while building, if any.
func (p Pipeline) Err() error { return p.err }

// To terminates the pipeline at a sink. For a bounded source the whole
// source is drained through the chain (and stateful stages flushed) before
// To returns; for an unbounded source the chain is subscribed and To returns
// immediately, leaving Close on the handle to flush pending windows and
// detach.
//
// To does not consume the receiver: further stages may still be chained onto
// the same Pipeline value and terminated independently, each run getting
// fresh stage state.
func (p Pipeline) To(sink Sink) (*Handle, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.source == nil {
		return nil, errors.New("to: pipeline has no source")
	}
	if sink == nil {
		return nil, errors.New("to: pipeline has no sink")
	}

	r := &runner{
		sink:      sink,
		logger:    p.logger.Named("pipeline").With("id", uuid.NewString()[:8]),
		eventsIn:  p.scope.Counter("events_in"),
		eventsOut: p.scope.Counter("events_out"),
	}
	for _, spec := range p.stages {
		stage, err := spec.build()
		if err != nil {
			return nil, errors.WithMessagef(err, "to: building stage %s", spec.name)
		}
		r.stages = append(r.stages, stage)
	}
	r.logger.Debugf("wired %d stages", len(r.stages))

	switch src := p.source.(type) {
	case BoundedSource:
		for _, e := range src.Events() {
			if err := r.drive(e); err != nil {
				return nil, err
			}
		}
		if err := r.flush(); err != nil {
			return nil, err
		}
		return &Handle{}, nil
	case UnboundedSource:
		unsubscribe := src.Subscribe(r.drive)
		return &Handle{closeFn: func() error {
			unsubscribe()
			return r.flush()
		}}, nil
	default:
		return nil, errors.Errorf("to: source %T implements neither BoundedSource nor UnboundedSource", p.source)
	}
}

// Handle is the live end of a terminated pipeline. For bounded sources it is
// already completed; for unbounded sources Close detaches from the source
// after flushing pending discard-mode windows.
type Handle struct {
	closed  bool
	closeFn func() error
}

func (h *Handle) Close() error {
	if h.closed || h.closeFn == nil {
		h.closed = true
		return nil
	}
	h.closed = true
	return h.closeFn()
}

// runner is one wired execution of a pipeline: fresh stage instances bound
// to one sink.
type runner struct {
	stages    []processor
	sink      Sink
	logger    log.Logger
	eventsIn  tally.Counter
	eventsOut tally.Counter
}

func (r *runner) drive(e event.Event) error {
	r.eventsIn.Inc(1)
	items := []emitted{{ev: e}}
	for _, stage := range r.stages {
		if len(items) == 0 {
			break
		}
		var next []emitted
		for _, in := range items {
			outs, err := stage.ProcessEvent(in)
			if err != nil {
				return err
			}
			next = append(next, outs...)
		}
		items = next
	}
	return r.deliver(items)
}

// flush drains stateful stages front to back, pushing whatever each one
// still holds through the rest of the chain.
func (r *runner) flush() error {
	for i, stage := range r.stages {
		items, err := stage.Flush()
		if err != nil {
			return err
		}
		for _, downstream := range r.stages[i+1:] {
			if len(items) == 0 {
				break
			}
			var next []emitted
			for _, in := range items {
				outs, err := downstream.ProcessEvent(in)
				if err != nil {
					return err
				}
				next = append(next, outs...)
			}
			items = next
		}
		if err := r.deliver(items); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) deliver(items []emitted) error {
	for _, item := range items {
		if err := r.sink.OnEmit(item.ev, item.group); err != nil {
			return err
		}
		r.eventsOut.Inc(1)
	}
	return nil
}
