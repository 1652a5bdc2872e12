package event

import (
	"github.com/pkg/errors"
)

// Merge combines events sharing one time key into a single event whose
// mapping is the union of all inputs' top-level fields. Field order follows
// first appearance; on a key collision the right-most event wins.
func Merge(events []Event) (Event, error) {
	if len(events) == 0 {
		return nil, errors.WithMessage(ErrIncompatibleMerge, "no events to merge")
	}
	first := events[0]
	data := first.Data()
	for _, e := range events[1:] {
		if e.Key() != first.Key() {
			return nil, errors.WithMessagef(ErrIncompatibleMerge,
				"time keys differ: %q vs %q", first.Key(), e.Key())
		}
		for _, key := range e.Data().Keys() {
			v, err := e.Get(key)
			if err != nil {
				return nil, err
			}
			data = data.Set(key, v)
		}
	}
	return first.WithData(data), nil
}

// Sum combines events sharing one time key into a single event holding the
// field-wise arithmetic sum of every field present in any input. All summed
// values must be numeric.
func Sum(events []Event) (Event, error) {
	if len(events) == 0 {
		return nil, errors.WithMessage(ErrIncompatibleSum, "no events to sum")
	}
	first := events[0]
	data := NewData()
	for _, e := range events {
		if e.Key() != first.Key() {
			return nil, errors.WithMessagef(ErrIncompatibleSum,
				"time keys differ: %q vs %q", first.Key(), e.Key())
		}
		for _, key := range e.Data().Keys() {
			v, err := e.Get(key)
			if err != nil {
				return nil, err
			}
			n, ok := Float64(v)
			if !ok {
				return nil, errors.WithMessagef(ErrNonNumericSum,
					"field %q holds %T", key, v)
			}
			total := n
			if prev, err := data.Get(key); err == nil {
				total += prev.(float64)
			}
			data = data.Set(key, total)
		}
	}
	return first.WithData(data), nil
}

// Float64 converts any Go numeric value to a float64. It deliberately does
// not parse numeric strings.
func Float64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
