package event

import "github.com/pkg/errors"

var (
	// ErrFieldNotFound reports a dot-path lookup that resolved to nothing.
	ErrFieldNotFound = errors.New("field not found")
	// ErrIncompatibleMerge reports a merge over events with mismatched time keys.
	ErrIncompatibleMerge = errors.New("incompatible merge")
	// ErrIncompatibleSum reports a sum over events with mismatched time keys.
	ErrIncompatibleSum = errors.New("incompatible sum")
	// ErrNonNumericSum reports a sum over a field holding a non-numeric value.
	ErrNonNumericSum = errors.New("non-numeric sum")
)
