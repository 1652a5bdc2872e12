package timerange

import (
	"fmt"
	"time"
)

// TimeRange is an immutable pair of instants, begin <= end. All times are
// normalized to UTC.
type TimeRange struct {
	begin time.Time
	end   time.Time
}

// New returns the range [begin, end). If the arguments arrive reversed they
// are swapped so that the invariant begin <= end always holds.
func New(begin, end time.Time) TimeRange {
	begin, end = begin.UTC(), end.UTC()
	if end.Before(begin) {
		begin, end = end, begin
	}
	return TimeRange{begin: begin, end: end}
}

// NewFromMillis builds a range from epoch milliseconds.
func NewFromMillis(begin, end int64) TimeRange {
	return New(time.UnixMilli(begin), time.UnixMilli(end))
}

func (tr TimeRange) Begin() time.Time { return tr.begin }

func (tr TimeRange) End() time.Time { return tr.end }

func (tr TimeRange) Duration() time.Duration { return tr.end.Sub(tr.begin) }

// Midpoint returns the instant halfway between begin and end.
func (tr TimeRange) Midpoint() time.Time {
	return tr.begin.Add(tr.end.Sub(tr.begin) / 2)
}

// Contains reports whether t falls within [begin, end).
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.begin) && t.Before(tr.end)
}

func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.begin.Before(other.end) && other.begin.Before(tr.end)
}

func (tr TimeRange) Equal(other TimeRange) bool {
	return tr.begin.Equal(other.begin) && tr.end.Equal(other.end)
}

// String renders the interchange form, a JSON array of epoch milliseconds.
func (tr TimeRange) String() string {
	return fmt.Sprintf("[%d,%d]", tr.begin.UnixMilli(), tr.end.UnixMilli())
}

func (tr TimeRange) MarshalJSON() ([]byte, error) {
	return []byte(tr.String()), nil
}
