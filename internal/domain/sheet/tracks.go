package sheet

import (
	"slices"
	"strings"
)

// Track names a bounded counter the user can step or click.
type Track string

const (
	TrackPhysical Track = "physical"
	TrackMental   Track = "mental"
	TrackTokens   Track = "tokens"
)

// Tracks lists the adjustable tracks in display order.
var Tracks = []Track{TrackPhysical, TrackMental, TrackTokens}

// ParseTrack accepts a track name in any case.
func ParseTrack(s string) (Track, bool) {
	t := Track(strings.ToLower(strings.TrimSpace(s)))
	return t, slices.Contains(Tracks, t)
}

// Label is the display name of a track.
func (t Track) Label() string {
	switch t {
	case TrackPhysical:
		return "Physical Hits"
	case TrackMental:
		return "Mental Hits"
	case TrackTokens:
		return "Story Tokens"
	}
	return string(t)
}

// CounterState is a counter's current value, its bounds, and the dotted
// document path it is stored at.
type CounterState struct {
	Value int
	Min   int
	Max   int
	Path  string
}

// Adjust returns the value after applying delta within bounds.
func (c CounterState) Adjust(delta int) int {
	return AdjustCounter(c.Value, delta, c.Min, c.Max)
}

// Click returns the value after clicking the marker at index, within bounds.
func (c CounterState) Click(index int) int {
	return clamp(ResolveMarkerValue(c.Value, index), c.Min, c.Max)
}

// Counter returns the state of a track in the document.
func (d *Document) Counter(t Track) (CounterState, bool) {
	switch t {
	case TrackPhysical:
		hits := d.Resources.Hits.Physical
		return CounterState{Value: hits.Value, Max: hits.Max, Path: "resources.hits.physical.value"}, true
	case TrackMental:
		hits := d.Resources.Hits.Mental
		return CounterState{Value: hits.Value, Max: hits.Max, Path: "resources.hits.mental.value"}, true
	case TrackTokens:
		return CounterState{Value: d.Resources.StoryTokens.Value, Max: Unbounded, Path: "resources.storyTokens.value"}, true
	}
	return CounterState{}, false
}

// Quantity returns the state of an equipment slot's quantity.
func (d *Document) Quantity(slot string) (CounterState, bool) {
	item, ok := d.Equipment[slot]
	if !ok {
		return CounterState{}, false
	}
	return CounterState{Value: item.Quantity, Max: Unbounded, Path: "equipment." + slot + ".quantity"}, true
}
