package aggregate

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(vs ...interface{}) []interface{} { return vs }

func TestNumericReducers(t *testing.T) {
	in := values(2, 4.0, 6)

	for name, want := range map[string]float64{
		"avg":    4.0,
		"sum":    12.0,
		"min":    2.0,
		"max":    6.0,
		"median": 4.0,
		"count":  3.0,
	} {
		fn, err := ByName(name)
		require.Nil(t, err, name)
		got, err := fn(in)
		require.Nil(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestKeepReturnsLastValue(t *testing.T) {
	got, err := Keep(values("a", "b", "c"))
	require.Nil(t, err)
	assert.Equal(t, "c", got)

	got, err = First(values("a", "b", "c"))
	require.Nil(t, err)
	assert.Equal(t, "a", got)
}

func TestPercentile(t *testing.T) {
	fn := Percentile(50)
	got, err := fn(values(1.0, 2.0, 3.0, 4.0, 5.0))
	require.Nil(t, err)
	assert.Equal(t, 3.0, got)
}

func TestNumericReducerRejectsNonNumeric(t *testing.T) {
	_, err := Avg(values(1.0, "two"))
	assert.True(t, errors.Is(err, ErrNonNumeric))
}

func TestCountAcceptsNonNumeric(t *testing.T) {
	got, err := Count(values("a", 1, nil))
	require.Nil(t, err)
	assert.Equal(t, 3.0, got)
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("mode")
	assert.NotNil(t, err)
}
