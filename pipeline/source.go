package pipeline

import (
	"github.com/pkg/errors"

	"github.com/siavelis/pond/event"
)

// Source is the value handed to From. It must implement either
// BoundedSource or UnboundedSource.
type Source interface{}

// BoundedSource is a finite, restartable iteration over events in timestamp
// order. *collection.Collection satisfies it directly.
type BoundedSource interface {
	Events() []event.Event
}

// UnboundedSource is a push-based event emitter. Subscribers are driven
// synchronously on every pushed event; the returned function unsubscribes.
type UnboundedSource interface {
	Subscribe(fn func(event.Event) error) (unsubscribe func())
}

type subscriber struct {
	id int
	fn func(event.Event) error
}

// Stream is the in-memory unbounded source: events pushed with AddEvent are
// delivered synchronously, in subscription order, to every subscriber.
//
// Stream is not safe for concurrent use, and a subscriber must not call
// AddEvent on the stream that is driving it.
type Stream struct {
	subs   []subscriber
	nextID int
	closed bool
}

func NewStream() *Stream {
	return &Stream{}
}

func (s *Stream) Subscribe(fn func(event.Event) error) func() {
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// AddEvent drives e through every subscribed chain before returning. A
// failure in one subscriber aborts delivery of this event and is returned to
// the caller; it does not corrupt state accumulated for other events.
func (s *Stream) AddEvent(e event.Event) error {
	if s.closed {
		return errors.New("stream is closed")
	}
	for _, sub := range s.subs {
		if err := sub.fn(e); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the stream from accepting events. It does not flush
// subscribers; close their pipeline handles for that.
func (s *Stream) Close() {
	s.closed = true
}
