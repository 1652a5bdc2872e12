// Package window maintains per-(group, window) accumulation state for a
// stream of events and decides when each accumulated collection is emitted.
package window

import (
	"fmt"
	"sort"
	"time"

	"github.com/uber-go/tally/v4"

	"github.com/siavelis/pond/collection"
	"github.com/siavelis/pond/event"
	"github.com/siavelis/pond/log"
	"github.com/siavelis/pond/timerange"
)

// GroupFunc derives the grouping key for an event.
type GroupFunc func(event.Event) string

// SingleGroup is the implicit grouping when none is configured: every event
// lands in one group keyed by the empty string.
func SingleGroup(event.Event) string { return "" }

// GroupByField groups by the stringified value at a field path. Events
// missing the field land in the empty-string group.
func GroupByField(path string) GroupFunc {
	return func(e event.Event) string {
		v, err := e.Get(path)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
}

// Spec describes the window arrangement. Only fixed-duration bucketing is
// supported.
type Spec struct {
	Duration time.Duration
}

// Emission is one aggregatable result produced by the accumulator: the
// snapshot of a (group, window) entry's collection at firing time.
type Emission struct {
	Group      string
	Window     timerange.Index
	Collection *collection.Collection
}

type entry struct {
	group  string
	window timerange.Index
	events *collection.Collection
}

// Accumulator owns the (group x window) accumulation mapping for exactly one
// pipeline. Entries are created lazily on the first matching event, extended
// on every subsequent one, and removed once a later window supersedes them.
//
// An out-of-order event arriving after its window's entry was already emitted
// and removed starts a fresh entry; it is never re-merged with the discarded
// result. This is a known accuracy limitation with out-of-order streams, so
// the recreation is logged rather than silent.
type Accumulator struct {
	duration time.Duration
	groupFn  GroupFunc
	policy   EmitPolicy

	entries  map[string]*entry
	maxBegin int64
	seeded   bool

	logger           log.Logger
	windowsOpened    tally.Counter
	windowsEmitted   tally.Counter
	windowsDiscarded tally.Counter
	lateRecreations  tally.Counter
}

func NewAccumulator(spec Spec, groupFn GroupFunc, policy EmitPolicy, logger log.Logger, scope tally.Scope) *Accumulator {
	if groupFn == nil {
		groupFn = SingleGroup
	}
	return &Accumulator{
		duration:         spec.Duration,
		groupFn:          groupFn,
		policy:           policy,
		entries:          map[string]*entry{},
		logger:           logger.Named("window"),
		windowsOpened:    scope.Counter("windows_opened"),
		windowsEmitted:   scope.Counter("windows_emitted"),
		windowsDiscarded: scope.Counter("windows_discarded"),
		lateRecreations:  scope.Counter("late_recreations"),
	}
}

// Add routes one event into its (group, window) entry and returns the
// emissions the configured policy produces, ordered by window begin time and
// then group key.
func (a *Accumulator) Add(e event.Event) []Emission {
	group := a.groupFn(e)
	win := timerange.IndexOf(e.Timestamp(), a.duration)
	begin := win.Begin().UnixMilli()

	// A window with a later begin time supersedes every older entry, across
	// all groups. The policy's rollover trigger decides their fate: discard
	// mode fires them on the way out, eachEvent mode has already emitted
	// their latest aggregate and only purges.
	var emissions []Emission
	if a.seeded && begin > a.maxBegin {
		result := a.policy.OnRollover()
		for key, en := range a.entries {
			if en.window.Begin().UnixMilli() >= begin {
				continue
			}
			if result.IsFire() {
				emissions = append(emissions, Emission{Group: en.group, Window: en.window, Collection: en.events})
				a.windowsEmitted.Inc(1)
			}
			if result.IsPurge() {
				a.windowsDiscarded.Inc(1)
				delete(a.entries, key)
			}
		}
	}

	key := group + "/" + win.String()
	en, ok := a.entries[key]
	if !ok {
		if a.seeded && begin < a.maxBegin {
			a.lateRecreations.Inc(1)
			a.logger.Warnf("out-of-order event for already closed window %s (group %q): starting a fresh accumulation, earlier results are not revised", win.String(), group)
		}
		en = &entry{group: group, window: win, events: collection.New()}
		a.entries[key] = en
		a.windowsOpened.Inc(1)
	}
	en.events = en.events.Add(e)

	result := a.policy.OnElement()
	if result.IsFire() {
		emissions = append(emissions, Emission{Group: group, Window: win, Collection: en.events})
		a.windowsEmitted.Inc(1)
	}
	if result.IsPurge() {
		a.windowsDiscarded.Inc(1)
		delete(a.entries, key)
	}

	if !a.seeded || begin > a.maxBegin {
		a.maxBegin = begin
		a.seeded = true
	}
	sortEmissions(emissions)
	return emissions
}

// Flush emits every pending discard-mode entry and clears all state. In
// eachEvent mode pending entries have already produced their latest
// aggregate, so Flush only clears them.
func (a *Accumulator) Flush() []Emission {
	var emissions []Emission
	result := a.policy.OnRollover()
	for _, en := range a.entries {
		if result.IsFire() {
			emissions = append(emissions, Emission{Group: en.group, Window: en.window, Collection: en.events})
			a.windowsEmitted.Inc(1)
		}
		a.windowsDiscarded.Inc(1)
	}
	a.entries = map[string]*entry{}
	sortEmissions(emissions)
	return emissions
}

// Size returns the number of live (group, window) entries.
func (a *Accumulator) Size() int { return len(a.entries) }

func sortEmissions(emissions []Emission) {
	sort.Slice(emissions, func(i, j int) bool {
		bi, bj := emissions[i].Window.Begin(), emissions[j].Window.Begin()
		if !bi.Equal(bj) {
			return bi.Before(bj)
		}
		return emissions[i].Group < emissions[j].Group
	})
}
