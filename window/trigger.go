package window

import "github.com/pkg/errors"

// TriggerResult is a bitmask describing what happens to an accumulated
// (group, window) entry after an event lands in it.
type TriggerResult int

const (
	Continue     TriggerResult = 0
	Fire         TriggerResult = 1
	Purge        TriggerResult = 2
	FireAndPurge TriggerResult = 3
)

func (t TriggerResult) IsFire() bool {
	return t&Fire == Fire
}

func (t TriggerResult) IsPurge() bool {
	return t&Purge == Purge
}

// EmitPolicy decides when an accumulated entry's aggregate is emitted.
type EmitPolicy int

const (
	// EmitEachEvent fires the arriving event's entry on every input event,
	// without purging it: subsequent events under the same key re-emit an
	// updated aggregate.
	EmitEachEvent EmitPolicy = iota
	// EmitDiscard fires-and-purges an entry once a later window opens; each
	// entry emits exactly once.
	EmitDiscard
)

// OnElement is the trigger decision for the entry the arriving event lands
// in: eachEvent fires the updated aggregate immediately and keeps the entry
// accumulating, discard waits for the window to be superseded.
func (p EmitPolicy) OnElement() TriggerResult {
	if p == EmitEachEvent {
		return Fire
	}
	return Continue
}

// OnRollover is the trigger decision for an accumulated entry once a later
// window opens: discard fires its single emission on the way out, eachEvent
// has already emitted the latest aggregate and only purges.
func (p EmitPolicy) OnRollover() TriggerResult {
	if p == EmitDiscard {
		return FireAndPurge
	}
	return Purge
}

// ParseEmitPolicy maps the public trigger names onto policies.
func ParseEmitPolicy(name string) (EmitPolicy, error) {
	switch name {
	case "eachEvent":
		return EmitEachEvent, nil
	case "discard":
		return EmitDiscard, nil
	default:
		return 0, errors.Errorf("unknown emit trigger %q (want \"eachEvent\" or \"discard\")", name)
	}
}

func (p EmitPolicy) String() string {
	switch p {
	case EmitEachEvent:
		return "eachEvent"
	case EmitDiscard:
		return "discard"
	default:
		return "unknown"
	}
}
