package collection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siavelis/pond/event"
)

var base = time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)

func point(offset time.Duration, in float64) event.Event {
	return event.NewPoint(base.Add(offset), event.NewData(event.Field{Key: "in", Value: in}))
}

func TestAddDoesNotMutate(t *testing.T) {
	c := New(point(0, 1))
	longer := c.Add(point(time.Minute, 2))
	assert.Equal(t, 1, c.Size())
	assert.Equal(t, 2, longer.Size())
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	// out of timestamp order on purpose: nothing may re-sort
	c := New(point(time.Minute, 2), point(0, 1), point(2*time.Minute, 3))
	values := c.FieldValues("in")
	assert.Equal(t, []interface{}{2.0, 1.0, 3.0}, values)
}

func TestFieldValuesSkipsMissing(t *testing.T) {
	c := New(
		point(0, 1),
		event.NewPoint(base.Add(time.Minute), event.NewData(event.Field{Key: "out", Value: 9.0})),
		point(2*time.Minute, 3),
	)
	assert.Equal(t, []interface{}{1.0, 3.0}, c.FieldValues("in"))
}

func TestCombineDeduplicatesByTimeKey(t *testing.T) {
	left := New(point(0, 1), point(time.Minute, 2))
	right := New(point(time.Minute, 20), point(2*time.Minute, 3))

	combined := left.Combine(right)
	require.Equal(t, 3, combined.Size())
	// the later event wins but keeps the earlier position
	assert.Equal(t, []interface{}{1.0, 20.0, 3.0}, combined.FieldValues("in"))
}

func TestFilterAndSlice(t *testing.T) {
	c := New(point(0, 1), point(time.Minute, 2), point(2*time.Minute, 3))

	big := c.Filter(func(e event.Event) bool {
		v, err := e.Get("in")
		return err == nil && v.(float64) > 1
	})
	assert.Equal(t, 2, big.Size())

	middle := c.Slice(1, 2)
	require.Equal(t, 1, middle.Size())
	assert.Equal(t, []interface{}{2.0}, middle.FieldValues("in"))
}

func TestFold(t *testing.T) {
	c := New(point(0, 1), point(time.Minute, 2), point(2*time.Minute, 3))
	total := c.Fold(0.0, func(acc interface{}, e event.Event) interface{} {
		v, _ := e.Get("in")
		return acc.(float64) + v.(float64)
	})
	assert.Equal(t, 6.0, total)
}

func TestRangeExtent(t *testing.T) {
	c := New(point(time.Minute, 2), point(0, 1), point(2*time.Minute, 3))
	tr := c.Range()
	assert.Equal(t, base, tr.Begin())
	assert.Equal(t, base.Add(2*time.Minute), tr.End())
}

func TestEventsReturnsCopy(t *testing.T) {
	c := New(point(0, 1), point(time.Minute, 2))
	events := c.Events()
	events[0] = point(time.Hour, 99)
	v, err := c.At(0).Get("in")
	require.Nil(t, err)
	assert.Equal(t, 1.0, v)
}
