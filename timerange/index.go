package timerange

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrParse reports a malformed index or duration string.
var ErrParse = errors.New("parse error")

var unitDurations = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// Index identifies one fixed-duration time bucket as a compact string of the
// form "<duration><unit>-<bucket>", e.g. "1h-396206". The bucket number is
// the floor of epoch-milliseconds divided by the duration, so every index
// string maps to exactly one TimeRange and back.
type Index struct {
	duration time.Duration
	// durationText preserves the spelling the index was parsed from so that
	// serialization is the exact inverse of parsing ("60s" never becomes "1m").
	durationText string
	bucket       int64
}

// ParseIndex parses an index string. The duration segment must match
// \d+[smhd]; the bucket segment is a signed integer, negative for buckets
// before the epoch. The duration segment never contains '-', so the first
// one is the separator even when the bucket is negative ("1h--1").
func ParseIndex(s string) (Index, error) {
	sep := strings.IndexByte(s, '-')
	if sep <= 0 || sep == len(s)-1 {
		return Index{}, errors.WithMessagef(ErrParse, "malformed index %q", s)
	}
	durationText := s[:sep]
	d, err := ParseDuration(durationText)
	if err != nil {
		return Index{}, errors.WithMessagef(ErrParse, "malformed index %q", s)
	}
	bucket, err := strconv.ParseInt(s[sep+1:], 10, 64)
	if err != nil {
		return Index{}, errors.WithMessagef(ErrParse, "malformed bucket in index %q", s)
	}
	return Index{duration: d, durationText: durationText, bucket: bucket}, nil
}

// NewIndex builds an index for the given bucket of the given duration,
// spelling the duration with the largest unit that divides it evenly.
func NewIndex(d time.Duration, bucket int64) Index {
	return Index{duration: d, durationText: FormatDuration(d), bucket: bucket}
}

// IndexOf returns the index of the bucket containing t.
func IndexOf(t time.Time, d time.Duration) Index {
	return NewIndex(d, floorDiv(t.UnixMilli(), d.Milliseconds()))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

func (i Index) Duration() time.Duration { return i.duration }

func (i Index) Bucket() int64 { return i.bucket }

// AsRange returns the [bucket*duration, (bucket+1)*duration) range in UTC.
func (i Index) AsRange() TimeRange {
	begin := i.bucket * i.duration.Milliseconds()
	return NewFromMillis(begin, begin+i.duration.Milliseconds())
}

func (i Index) Begin() time.Time { return time.UnixMilli(i.bucket * i.duration.Milliseconds()).UTC() }

func (i Index) String() string {
	return i.durationText + "-" + strconv.FormatInt(i.bucket, 10)
}

// IsZero reports whether the index is the uninitialized value.
func (i Index) IsZero() bool { return i.duration == 0 }

// ParseDuration parses a window duration spec of the form \d+[smhd].
func ParseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, errors.WithMessagef(ErrParse, "malformed duration %q", s)
	}
	unit, ok := unitDurations[s[len(s)-1]]
	if !ok {
		return 0, errors.WithMessagef(ErrParse, "unknown duration unit in %q", s)
	}
	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.WithMessagef(ErrParse, "malformed duration %q", s)
	}
	return time.Duration(n) * unit, nil
}

// FormatDuration renders d using the largest unit that divides it evenly.
func FormatDuration(d time.Duration) string {
	for _, unit := range []byte{'d', 'h', 'm', 's'} {
		size := unitDurations[unit]
		if d >= size && d%size == 0 {
			return strconv.FormatInt(int64(d/size), 10) + string(unit)
		}
	}
	return strconv.FormatInt(int64(d/time.Second), 10) + "s"
}
