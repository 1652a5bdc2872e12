// Package event defines the immutable data points a pipeline operates on.
// An event is one data mapping tagged with a timestamp (Point), a time range
// (Range), or a fixed-duration bucket index (Indexed). Events are values:
// every operation that would change one returns a new event instead.
package event

import (
	"fmt"
	"strconv"
	"time"

	"github.com/siavelis/pond/timerange"
)

// Event is the capability shared by the three variants.
type Event interface {
	// Timestamp returns the variant's representative instant: the point's
	// own time, or the begin of a range/index bucket.
	Timestamp() time.Time
	// TimeRange returns the variant's extent; for a Point both ends are
	// the timestamp.
	TimeRange() timerange.TimeRange
	// Data returns the event's field mapping.
	Data() Data
	// Get resolves a dot-delimited field path or fails with ErrFieldNotFound.
	Get(path string) (interface{}, error)
	// Key is the canonical time key used by merge, sum and deduplication.
	// Two events are mergeable only when their keys are identical.
	Key() string
	// WithData returns an event of the same variant and time key carrying
	// the given mapping.
	WithData(data Data) Event
	fmt.Stringer
}

// Point is an event at a single instant.
type Point struct {
	t    time.Time
	data Data
}

func NewPoint(t time.Time, data Data) Point {
	return Point{t: t.UTC(), data: data}
}

func (p Point) Timestamp() time.Time { return p.t }

func (p Point) TimeRange() timerange.TimeRange { return timerange.New(p.t, p.t) }

func (p Point) Data() Data { return p.data }

func (p Point) Get(path string) (interface{}, error) { return p.data.Get(path) }

func (p Point) Key() string { return strconv.FormatInt(p.t.UnixMilli(), 10) }

func (p Point) WithData(data Data) Event { return Point{t: p.t, data: data} }

func (p Point) String() string { return marshalString(p) }

func (p Point) MarshalJSON() ([]byte, error) {
	return marshalParts(
		Field{Key: "time", Value: p.t.UnixMilli()},
		Field{Key: "data", Value: p.data},
	)
}

// Range is an event spanning a time range.
type Range struct {
	tr   timerange.TimeRange
	data Data
}

func NewRange(tr timerange.TimeRange, data Data) Range {
	return Range{tr: tr, data: data}
}

func (r Range) Timestamp() time.Time { return r.tr.Begin() }

func (r Range) TimeRange() timerange.TimeRange { return r.tr }

func (r Range) Data() Data { return r.data }

func (r Range) Get(path string) (interface{}, error) { return r.data.Get(path) }

func (r Range) Key() string {
	return strconv.FormatInt(r.tr.Begin().UnixMilli(), 10) + "," + strconv.FormatInt(r.tr.End().UnixMilli(), 10)
}

func (r Range) WithData(data Data) Event { return Range{tr: r.tr, data: data} }

func (r Range) String() string { return marshalString(r) }

func (r Range) MarshalJSON() ([]byte, error) {
	return marshalParts(
		Field{Key: "timerange", Value: r.tr},
		Field{Key: "data", Value: r.data},
	)
}

// Indexed is an event covering one fixed-duration bucket; its range is
// derived from the index.
type Indexed struct {
	index timerange.Index
	data  Data
}

func NewIndexed(index timerange.Index, data Data) Indexed {
	return Indexed{index: index, data: data}
}

func (i Indexed) Index() timerange.Index { return i.index }

func (i Indexed) Timestamp() time.Time { return i.index.Begin() }

func (i Indexed) TimeRange() timerange.TimeRange { return i.index.AsRange() }

func (i Indexed) Data() Data { return i.data }

func (i Indexed) Get(path string) (interface{}, error) { return i.data.Get(path) }

func (i Indexed) Key() string { return i.index.String() }

func (i Indexed) WithData(data Data) Event { return Indexed{index: i.index, data: data} }

func (i Indexed) String() string { return marshalString(i) }

func (i Indexed) MarshalJSON() ([]byte, error) {
	return marshalParts(
		Field{Key: "index", Value: i.index.String()},
		Field{Key: "data", Value: i.data},
	)
}

func marshalParts(fields ...Field) ([]byte, error) {
	return NewData(fields...).MarshalJSON()
}

func marshalString(e Event) string {
	b, err := e.(interface{ MarshalJSON() ([]byte, error) }).MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<unserializable event: %v>", err)
	}
	return string(b)
}
