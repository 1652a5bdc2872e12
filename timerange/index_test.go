package timerange

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndexRoundTrip(t *testing.T) {
	for _, s := range []string{"1h-396206", "30s-1", "5m-4754040", "1d-16514", "60s-100", "1h--1", "1d--365"} {
		index, err := ParseIndex(s)
		require.Nil(t, err, s)
		assert.Equal(t, s, index.String())
	}
}

func TestIndexRangeRoundTrip(t *testing.T) {
	index, err := ParseIndex("1h-396206")
	require.Nil(t, err)
	tr := index.AsRange()
	assert.Equal(t, int64(396206)*3600000, tr.Begin().UnixMilli())
	assert.Equal(t, int64(396207)*3600000, tr.End().UnixMilli())
	assert.Equal(t, time.Hour, tr.Duration())

	again := IndexOf(tr.Begin(), index.Duration())
	assert.Equal(t, index.String(), again.String())
	assert.True(t, tr.Equal(again.AsRange()))
}

func TestParseIndexKeepsDurationSpelling(t *testing.T) {
	// 60s and 1m name the same duration but must not be conflated
	index, err := ParseIndex("60s-26413")
	require.Nil(t, err)
	assert.Equal(t, "60s-26413", index.String())
	assert.Equal(t, time.Minute, index.Duration())
}

func TestParseIndexErrors(t *testing.T) {
	for _, s := range []string{"", "1h", "xx-1", "1h-abc", "-5", "1h-", "0h-5", "1y-5", "1h---5"} {
		_, err := ParseIndex(s)
		assert.True(t, errors.Is(err, ErrParse), "expected parse error for %q, got %v", s, err)
	}
}

func TestIndexOf(t *testing.T) {
	ts := time.Date(2015, 3, 14, 7, 32, 22, 0, time.UTC)
	index := IndexOf(ts, time.Hour)
	assert.True(t, index.AsRange().Contains(ts))
	assert.Equal(t, ts.Truncate(time.Hour), index.Begin())
}

func TestIndexOfPreEpoch(t *testing.T) {
	// timestamps before 1970 floor into negative buckets, and those buckets
	// must survive the string form
	index := IndexOf(time.UnixMilli(-1), time.Hour)
	assert.Equal(t, int64(-1), index.Bucket())
	assert.Equal(t, "1h--1", index.String())

	parsed, err := ParseIndex(index.String())
	require.Nil(t, err)
	assert.Equal(t, int64(-1), parsed.Bucket())
	assert.Equal(t, time.Hour, parsed.Duration())
	assert.True(t, index.AsRange().Equal(parsed.AsRange()))
	assert.True(t, parsed.AsRange().Contains(time.UnixMilli(-1)))

	ts := time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, parsed.Begin())
}

func TestParseDuration(t *testing.T) {
	for spec, want := range map[string]time.Duration{
		"30s": 30 * time.Second,
		"5m":  5 * time.Minute,
		"1h":  time.Hour,
		"1d":  24 * time.Hour,
	} {
		d, err := ParseDuration(spec)
		require.Nil(t, err, spec)
		assert.Equal(t, want, d)
	}
	for _, spec := range []string{"", "s", "10", "1w", "-1h", "0m"} {
		_, err := ParseDuration(spec)
		assert.True(t, errors.Is(err, ErrParse), "expected parse error for %q", spec)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h", FormatDuration(time.Hour))
	assert.Equal(t, "90m", FormatDuration(90*time.Minute))
	assert.Equal(t, "1d", FormatDuration(24*time.Hour))
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
}

func TestTimeRange(t *testing.T) {
	begin := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	end := begin.Add(time.Hour)
	tr := New(begin, end)
	assert.Equal(t, begin, tr.Begin())
	assert.Equal(t, end, tr.End())
	assert.Equal(t, begin.Add(30*time.Minute), tr.Midpoint())
	assert.True(t, tr.Contains(begin))
	assert.False(t, tr.Contains(end))

	// reversed arguments normalize
	swapped := New(end, begin)
	assert.True(t, tr.Equal(swapped))

	assert.True(t, tr.Overlaps(New(begin.Add(30*time.Minute), end.Add(time.Hour))))
	assert.False(t, tr.Overlaps(New(end, end.Add(time.Hour))))
}
