package pipeline

import (
	"github.com/siavelis/pond/collection"
	"github.com/siavelis/pond/event"
)

// Sink is the terminal consumer of emitted events. Group is the grouping key
// of windowed results and the empty string otherwise.
//
// A sink must not re-enter AddEvent on the source that is driving it.
type Sink interface {
	OnEmit(e event.Event, group string) error
}

// CollectionSink gathers every emitted event into a batch result.
type CollectionSink struct {
	events []event.Event
}

func NewCollectionSink() *CollectionSink {
	return &CollectionSink{}
}

func (s *CollectionSink) OnEmit(e event.Event, _ string) error {
	s.events = append(s.events, e)
	return nil
}

// Result returns the events collected so far, in emission order.
func (s *CollectionSink) Result() *collection.Collection {
	return collection.New(s.events...)
}

// CallbackSink invokes fn once per emitted event.
type CallbackSink struct {
	fn func(e event.Event, group string)
}

func NewCallbackSink(fn func(e event.Event, group string)) *CallbackSink {
	return &CallbackSink{fn: fn}
}

func (s *CallbackSink) OnEmit(e event.Event, group string) error {
	s.fn(e, group)
	return nil
}
