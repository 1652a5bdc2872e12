package event

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siavelis/pond/timerange"
)

var anInstant = time.Date(2015, 4, 22, 3, 30, 0, 0, time.UTC)

func TestGetNestedPath(t *testing.T) {
	e := NewPoint(anInstant, NewData(
		Field{Key: "NorthRoute", Value: NewData(Field{Key: "in", Value: 123}, Field{Key: "out", Value: 456})},
		Field{Key: "SouthRoute", Value: map[string]interface{}{"in": 654}},
	))

	v, err := e.Get("NorthRoute.in")
	require.Nil(t, err)
	assert.Equal(t, 123, v)

	v, err = e.Get("SouthRoute.in")
	require.Nil(t, err)
	assert.Equal(t, 654, v)

	_, err = e.Get("NorthRoute.bogus")
	assert.True(t, errors.Is(err, ErrFieldNotFound))
	assert.Contains(t, err.Error(), "NorthRoute.bogus")

	_, err = e.Get("WestRoute.in")
	assert.True(t, errors.Is(err, ErrFieldNotFound))
}

func TestDataSetDoesNotMutate(t *testing.T) {
	original := NewData(Field{Key: "in", Value: 1.0})
	modified := original.Set("in", 2.0)

	v, err := original.Get("in")
	require.Nil(t, err)
	assert.Equal(t, 1.0, v)
	v, err = modified.Get("in")
	require.Nil(t, err)
	assert.Equal(t, 2.0, v)
}

func TestDataSetNestedDoesNotMutate(t *testing.T) {
	original := NewData(Field{Key: "route", Value: NewData(Field{Key: "in", Value: 1.0})})
	modified := original.Set("route.in", 9.0)

	v, err := original.Get("route.in")
	require.Nil(t, err)
	assert.Equal(t, 1.0, v)
	v, err = modified.Get("route.in")
	require.Nil(t, err)
	assert.Equal(t, 9.0, v)
}

func TestMergeIdentity(t *testing.T) {
	e1 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 2}))
	e2 := NewPoint(anInstant, NewData(Field{Key: "out", Value: 5}))

	merged, err := Merge([]Event{e1, e2})
	require.Nil(t, err)

	v, err := merged.Get("in")
	require.Nil(t, err)
	assert.Equal(t, 2, v)
	v, err = merged.Get("out")
	require.Nil(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, []string{"in", "out"}, merged.Data().Keys())
}

func TestMergeRightmostWins(t *testing.T) {
	e1 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 2}))
	e2 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 7}))

	merged, err := Merge([]Event{e1, e2})
	require.Nil(t, err)
	v, err := merged.Get("in")
	require.Nil(t, err)
	assert.Equal(t, 7, v)
}

func TestMergeMismatchedKeysFails(t *testing.T) {
	e1 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 2}))
	e2 := NewPoint(anInstant.Add(time.Second), NewData(Field{Key: "out", Value: 5}))

	_, err := Merge([]Event{e1, e2})
	assert.True(t, errors.Is(err, ErrIncompatibleMerge))
	assert.Contains(t, err.Error(), e1.Key())
	assert.Contains(t, err.Error(), e2.Key())
}

func TestSumCommutativity(t *testing.T) {
	e1 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 2.0}))
	e2 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 4.0}))
	e3 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 6.5}))

	permutations := [][]Event{
		{e1, e2, e3},
		{e3, e1, e2},
		{e2, e3, e1},
		{e3, e2, e1},
	}
	for _, events := range permutations {
		summed, err := Sum(events)
		require.Nil(t, err)
		v, err := summed.Get("in")
		require.Nil(t, err)
		assert.Equal(t, 12.5, v)
	}
}

func TestSumNonNumericFails(t *testing.T) {
	e1 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 2.0}))
	e2 := NewPoint(anInstant, NewData(Field{Key: "in", Value: "four"}))

	_, err := Sum([]Event{e1, e2})
	assert.True(t, errors.Is(err, ErrNonNumericSum))
	assert.Contains(t, err.Error(), "in")
}

func TestSumMismatchedKeysFails(t *testing.T) {
	e1 := NewPoint(anInstant, NewData(Field{Key: "in", Value: 2.0}))
	e2 := NewPoint(anInstant.Add(time.Minute), NewData(Field{Key: "in", Value: 4.0}))

	_, err := Sum([]Event{e1, e2})
	assert.True(t, errors.Is(err, ErrIncompatibleSum))
}

func TestIndexedMergeRequiresSameIndex(t *testing.T) {
	i1, err := timerange.ParseIndex("1h-396206")
	require.Nil(t, err)
	i2, err := timerange.ParseIndex("1h-396207")
	require.Nil(t, err)

	_, err = Merge([]Event{
		NewIndexed(i1, NewData(Field{Key: "in", Value: 1})),
		NewIndexed(i2, NewData(Field{Key: "out", Value: 2})),
	})
	assert.True(t, errors.Is(err, ErrIncompatibleMerge))
}

func TestSerializedForms(t *testing.T) {
	data := NewData(Field{Key: "in", Value: 3}, Field{Key: "out", Value: 7})

	point := NewPoint(time.UnixMilli(1429673400000), data)
	assert.Equal(t, `{"time":1429673400000,"data":{"in":3,"out":7}}`, point.String())

	tr := timerange.NewFromMillis(1429673400000, 1429677000000)
	rangeEvent := NewRange(tr, data)
	assert.Equal(t, `{"timerange":[1429673400000,1429677000000],"data":{"in":3,"out":7}}`, rangeEvent.String())

	index, err := timerange.ParseIndex("1h-396206")
	require.Nil(t, err)
	indexed := NewIndexed(index, data)
	assert.Equal(t, `{"index":"1h-396206","data":{"in":3,"out":7}}`, indexed.String())
}

func TestDataFieldOrderIsInsertionOrder(t *testing.T) {
	data := NewData(
		Field{Key: "z", Value: 1},
		Field{Key: "a", Value: 2},
		Field{Key: "m", Value: 3},
	)
	b, err := data.MarshalJSON()
	require.Nil(t, err)
	assert.Equal(t, `{"z":1,"a":2,"m":3}`, string(b))
}

func TestIndexedEventDerivesRange(t *testing.T) {
	index, err := timerange.ParseIndex("1h-396206")
	require.Nil(t, err)
	e := NewIndexed(index, NewData())
	assert.True(t, e.TimeRange().Equal(index.AsRange()))
	assert.Equal(t, index.Begin(), e.Timestamp())
}
