// Package aggregate is the reducer library used by windowed aggregation.
// A reducer folds the values of one field across an accumulated collection
// into a single value.
package aggregate

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/siavelis/pond/event"
)

// ErrNonNumeric reports a numeric reducer applied to a non-numeric value.
var ErrNonNumeric = errors.New("non-numeric aggregation")

// Func reduces the ordered values of one field to a single value.
type Func func(values []interface{}) (interface{}, error)

// Count returns the number of values, numeric or not.
func Count(values []interface{}) (interface{}, error) {
	return float64(len(values)), nil
}

// First returns the field's value from the earliest event.
func First(values []interface{}) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

// Last returns the field's value from the latest event.
func Last(values []interface{}) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return values[len(values)-1], nil
}

// Keep is the identity reducer: the field's value from the latest event.
func Keep(values []interface{}) (interface{}, error) {
	return Last(values)
}

// Avg returns the arithmetic mean.
var Avg = numeric(stats.Mean)

// Sum returns the arithmetic sum.
var Sum = numeric(stats.Sum)

// Min returns the smallest value.
var Min = numeric(stats.Min)

// Max returns the largest value.
var Max = numeric(stats.Max)

// Median returns the middle value.
var Median = numeric(stats.Median)

// StdDev returns the population standard deviation.
var StdDev = numeric(stats.StdDevP)

// Percentile returns a reducer for the p-th percentile, 0 < p <= 100.
func Percentile(p float64) Func {
	return numeric(func(input stats.Float64Data) (float64, error) {
		return stats.Percentile(input, p)
	})
}

func numeric(fn func(stats.Float64Data) (float64, error)) Func {
	return func(values []interface{}) (interface{}, error) {
		input := make(stats.Float64Data, 0, len(values))
		for _, v := range values {
			n, ok := event.Float64(v)
			if !ok {
				return nil, errors.WithMessagef(ErrNonNumeric, "value %v is %T", v, v)
			}
			input = append(input, n)
		}
		result, err := fn(input)
		if err != nil {
			return nil, errors.Wrap(err, "reduce failed")
		}
		return result, nil
	}
}
