package aggregate

import "github.com/pkg/errors"

var byName = map[string]Func{
	"avg":    Avg,
	"sum":    Sum,
	"count":  Count,
	"min":    Min,
	"max":    Max,
	"median": Median,
	"stdev":  StdDev,
	"first":  First,
	"last":   Last,
	"keep":   Keep,
}

// ByName resolves a reducer by its configuration name.
func ByName(name string) (Func, error) {
	fn, ok := byName[name]
	if !ok {
		return nil, errors.Errorf("unknown reducer %q", name)
	}
	return fn, nil
}
