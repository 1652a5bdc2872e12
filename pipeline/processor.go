package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/siavelis/pond/event"
	"github.com/siavelis/pond/timerange"
)

// emitted is one event travelling through the chain together with the
// grouping key attached to it by the aggregation stage.
type emitted struct {
	ev    event.Event
	group string
}

// processor is one stage of a wired chain. ProcessEvent consumes one event
// and yields zero, one or many output events; Flush drains whatever a
// stateful stage still holds.
type processor interface {
	ProcessEvent(in emitted) ([]emitted, error)
	Flush() ([]emitted, error)
}

type statelessStage struct {
	fn func(in emitted) ([]emitted, error)
}

func (s *statelessStage) ProcessEvent(in emitted) ([]emitted, error) { return s.fn(in) }

func (s *statelessStage) Flush() ([]emitted, error) { return nil, nil }

func newOffsetStage(amount float64, paths []string) processor {
	return &statelessStage{fn: func(in emitted) ([]emitted, error) {
		data := in.ev.Data()
		for _, path := range paths {
			v, err := in.ev.Get(path)
			if err != nil {
				return nil, err
			}
			n, ok := event.Float64(v)
			if !ok {
				return nil, errors.Errorf("offsetBy: field %q holds %T, not a number", path, v)
			}
			data = data.Set(path, n+amount)
		}
		return []emitted{{ev: in.ev.WithData(data), group: in.group}}, nil
	}}
}

// Alignment selects which instant of a source range becomes the output
// timestamp when converting to point events.
type Alignment string

const (
	AlignLag    Alignment = "lag"    // begin of the range
	AlignCenter Alignment = "center" // midpoint of the range
	AlignLead   Alignment = "lead"   // end of the range
)

// AsEventsOptions configures the conversion to point events. The zero
// Alignment defaults to AlignCenter.
type AsEventsOptions struct {
	Alignment Alignment
}

func newAsEventsStage(opts AsEventsOptions) processor {
	return &statelessStage{fn: func(in emitted) ([]emitted, error) {
		if _, ok := in.ev.(event.Point); ok {
			return []emitted{in}, nil
		}
		tr := in.ev.TimeRange()
		var t time.Time
		switch opts.Alignment {
		case AlignLag:
			t = tr.Begin()
		case AlignLead:
			t = tr.End()
		default:
			t = tr.Midpoint()
		}
		return []emitted{{ev: event.NewPoint(t, in.ev.Data()), group: in.group}}, nil
	}}
}

// RangeAlignment describes where the emitted range sits relative to the
// source timestamp when converting to range events.
type RangeAlignment string

const (
	AlignFront       RangeAlignment = "front"  // [t, t+duration)
	AlignRangeCenter RangeAlignment = "center" // [t-duration/2, t+duration/2)
	AlignBehind      RangeAlignment = "behind" // [t-duration, t)
)

// AsTimeRangeEventsOptions configures the conversion to range events. Both
// fields are required.
type AsTimeRangeEventsOptions struct {
	Duration  string
	Alignment RangeAlignment
}

func newAsTimeRangeEventsStage(d time.Duration, alignment RangeAlignment) processor {
	return &statelessStage{fn: func(in emitted) ([]emitted, error) {
		if _, ok := in.ev.(event.Range); ok {
			return []emitted{in}, nil
		}
		t := in.ev.Timestamp()
		var tr timerange.TimeRange
		switch alignment {
		case AlignFront:
			tr = timerange.New(t, t.Add(d))
		case AlignRangeCenter:
			tr = timerange.New(t.Add(-d/2), t.Add(d/2))
		case AlignBehind:
			tr = timerange.New(t.Add(-d), t)
		}
		return []emitted{{ev: event.NewRange(tr, in.ev.Data()), group: in.group}}, nil
	}}
}

// AsIndexedEventsOptions configures the conversion to indexed events.
// Duration is required.
type AsIndexedEventsOptions struct {
	Duration string
}

func newAsIndexedEventsStage(d time.Duration) processor {
	return &statelessStage{fn: func(in emitted) ([]emitted, error) {
		switch ev := in.ev.(type) {
		case event.Indexed:
			return []emitted{in}, nil
		case event.Range:
			// no index can represent an arbitrary range
			return nil, errors.WithMessagef(ErrUnsupportedConversion,
				"range event %s cannot become an indexed event", ev.TimeRange())
		default:
			idx := timerange.IndexOf(in.ev.Timestamp(), d)
			return []emitted{{ev: event.NewIndexed(idx, in.ev.Data()), group: in.group}}, nil
		}
	}}
}
