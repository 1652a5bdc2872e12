// Package collection provides an ordered, immutable sequence of events.
// Insertion order is the only order; nothing here re-sorts.
package collection

import (
	"github.com/siavelis/pond/event"
	"github.com/siavelis/pond/timerange"
)

// Collection wraps an event slice that is never mutated after construction.
// Every operation returns a new Collection sharing nothing mutable with the
// receiver.
type Collection struct {
	events []event.Event
}

// New builds a collection from events in order, copying the input slice.
func New(events ...event.Event) *Collection {
	copied := make([]event.Event, len(events))
	copy(copied, events)
	return &Collection{events: copied}
}

func (c *Collection) Size() int { return len(c.events) }

// At returns the i-th event; the caller owns bounds checking.
func (c *Collection) At(i int) event.Event { return c.events[i] }

// Events returns a defensive copy of the underlying slice.
func (c *Collection) Events() []event.Event {
	copied := make([]event.Event, len(c.events))
	copy(copied, c.events)
	return copied
}

func (c *Collection) First() event.Event {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[0]
}

func (c *Collection) Last() event.Event {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[len(c.events)-1]
}

// Add returns a new collection with e appended.
func (c *Collection) Add(e event.Event) *Collection {
	events := make([]event.Event, len(c.events)+1)
	copy(events, c.events)
	events[len(c.events)] = e
	return &Collection{events: events}
}

// Slice returns the events in [i, j) as a new collection.
func (c *Collection) Slice(i, j int) *Collection {
	return New(c.events[i:j]...)
}

// Filter returns the events for which pred holds, in order.
func (c *Collection) Filter(pred func(event.Event) bool) *Collection {
	var events []event.Event
	for _, e := range c.events {
		if pred(e) {
			events = append(events, e)
		}
	}
	return &Collection{events: events}
}

// Map applies fn to every event, in order.
func (c *Collection) Map(fn func(event.Event) event.Event) *Collection {
	events := make([]event.Event, len(c.events))
	for i, e := range c.events {
		events[i] = fn(e)
	}
	return &Collection{events: events}
}

// Fold reduces the collection left to right.
func (c *Collection) Fold(init interface{}, fn func(acc interface{}, e event.Event) interface{}) interface{} {
	acc := init
	for _, e := range c.events {
		acc = fn(acc, e)
	}
	return acc
}

// FieldValues collects the value at path from each event, in order, skipping
// events that do not carry the field.
func (c *Collection) FieldValues(path string) []interface{} {
	var values []interface{}
	for _, e := range c.events {
		if v, err := e.Get(path); err == nil {
			values = append(values, v)
		}
	}
	return values
}

// Combine concatenates two collections, deduplicating by identical time key:
// when both sides carry an event with the same key the later one wins while
// keeping the earlier one's position.
func (c *Collection) Combine(other *Collection) *Collection {
	positions := make(map[string]int, len(c.events))
	events := make([]event.Event, 0, len(c.events)+other.Size())
	for _, e := range c.events {
		if at, seen := positions[e.Key()]; seen {
			events[at] = e
			continue
		}
		positions[e.Key()] = len(events)
		events = append(events, e)
	}
	for _, e := range other.events {
		if at, seen := positions[e.Key()]; seen {
			events[at] = e
			continue
		}
		positions[e.Key()] = len(events)
		events = append(events, e)
	}
	return &Collection{events: events}
}

// Range returns the extent covered by the collection's events, or the zero
// range for an empty collection.
func (c *Collection) Range() timerange.TimeRange {
	if len(c.events) == 0 {
		return timerange.TimeRange{}
	}
	begin, end := c.events[0].TimeRange().Begin(), c.events[0].TimeRange().End()
	for _, e := range c.events[1:] {
		tr := e.TimeRange()
		if tr.Begin().Before(begin) {
			begin = tr.Begin()
		}
		if tr.End().After(end) {
			end = tr.End()
		}
	}
	return timerange.New(begin, end)
}
