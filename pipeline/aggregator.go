package pipeline

import (
	"github.com/siavelis/pond/aggregate"
	"github.com/siavelis/pond/event"
	"github.com/siavelis/pond/window"
)

// FieldSpec binds one field path to the reducer that folds its accumulated
// values. Output field order follows the order specs are given in.
type FieldSpec struct {
	Field   string
	Reducer aggregate.Func
}

// aggregatorStage feeds events into a window accumulator and turns each
// emission into one indexed event carrying the reduced fields.
type aggregatorStage struct {
	acc    *window.Accumulator
	fields []FieldSpec
}

func (a *aggregatorStage) ProcessEvent(in emitted) ([]emitted, error) {
	return a.reduce(a.acc.Add(in.ev))
}

func (a *aggregatorStage) Flush() ([]emitted, error) {
	return a.reduce(a.acc.Flush())
}

func (a *aggregatorStage) reduce(emissions []window.Emission) ([]emitted, error) {
	var out []emitted
	for _, em := range emissions {
		data := event.NewData()
		for _, fs := range a.fields {
			v, err := fs.Reducer(em.Collection.FieldValues(fs.Field))
			if err != nil {
				return nil, err
			}
			data = data.Set(fs.Field, v)
		}
		out = append(out, emitted{ev: event.NewIndexed(em.Window, data), group: em.Group})
	}
	return out, nil
}
