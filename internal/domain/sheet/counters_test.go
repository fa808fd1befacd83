package sheet_test

import (
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/stretchr/testify/assert"
)

func TestAdjustCounter(t *testing.T) {
	tests := []struct {
		name           string
		current, delta int
		lo, hi         int
		want           int
	}{
		{name: "increment at max is a no-op", current: 3, delta: 1, lo: 0, hi: 3, want: 3},
		{name: "decrement at min is a no-op", current: 0, delta: -1, lo: 0, hi: 3, want: 0},
		{name: "increment below max", current: 1, delta: 1, lo: 0, hi: 3, want: 2},
		{name: "decrement above min", current: 2, delta: -1, lo: 0, hi: 3, want: 1},
		{name: "large delta clamps high", current: 1, delta: 50, lo: 0, hi: 3, want: 3},
		{name: "large negative delta clamps low", current: 1, delta: -50, lo: 0, hi: 3, want: 0},
		{name: "out of range value is pulled in", current: 7, delta: -1, lo: 0, hi: 3, want: 3},
		{name: "unbounded increment", current: 41, delta: 1, lo: 0, hi: sheet.Unbounded, want: 42},
		{name: "unbounded at ceiling", current: sheet.Unbounded, delta: 1, lo: 0, hi: sheet.Unbounded, want: sheet.Unbounded},
		{name: "zero-width range", current: 0, delta: 1, lo: 0, hi: 0, want: 0},
		{name: "inverted bounds collapse to lo", current: 2, delta: 1, lo: 1, hi: 0, want: 1},
		{name: "zero delta", current: 2, delta: 0, lo: 0, hi: 3, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sheet.AdjustCounter(tt.current, tt.delta, tt.lo, tt.hi))
		})
	}
}

func TestAdjustCounter_AlwaysWithinBounds(t *testing.T) {
	for current := -5; current <= 8; current++ {
		for delta := -6; delta <= 6; delta++ {
			got := sheet.AdjustCounter(current, delta, 0, 3)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 3)
		}
	}
}

func TestResolveMarkerValue(t *testing.T) {
	tests := []struct {
		name    string
		current int
		index   int
		want    int
	}{
		{name: "clicking the top filled marker clears it", current: 2, index: 1, want: 1},
		{name: "clicking an empty marker fills up to it", current: 0, index: 1, want: 2},
		{name: "clicking below the top lowers to it", current: 3, index: 0, want: 1},
		{name: "first marker toggles off", current: 1, index: 0, want: 0},
		{name: "first marker toggles on", current: 0, index: 0, want: 1},
		{name: "negative index is ignored", current: 2, index: -1, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sheet.ResolveMarkerValue(tt.current, tt.index))
		})
	}
}

func TestDocumentCounters(t *testing.T) {
	doc := sheet.Default()
	doc.Resources.Hits.Physical = sheet.Counter{Value: 2, Max: 3}
	doc.Resources.StoryTokens.Value = 5
	doc.Equipment["item2"] = sheet.Item{Name: "Rope", Quantity: 1}

	physical, ok := doc.Counter(sheet.TrackPhysical)
	assert.True(t, ok)
	assert.Equal(t, "resources.hits.physical.value", physical.Path)
	assert.Equal(t, 3, physical.Adjust(5))
	assert.Equal(t, 1, physical.Click(1))
	assert.Equal(t, 3, physical.Click(7), "clicks past the max clamp")

	mental, ok := doc.Counter(sheet.TrackMental)
	assert.True(t, ok)
	assert.Equal(t, 0, mental.Adjust(1), "zero max mental track cannot grow")

	tokens, ok := doc.Counter(sheet.TrackTokens)
	assert.True(t, ok)
	assert.Equal(t, "resources.storyTokens.value", tokens.Path)
	assert.Equal(t, 6, tokens.Adjust(1))

	qty, ok := doc.Quantity("item2")
	assert.True(t, ok)
	assert.Equal(t, "equipment.item2.quantity", qty.Path)
	assert.Equal(t, 0, qty.Adjust(-3))

	_, ok = doc.Quantity("item7")
	assert.False(t, ok)
	_, ok = doc.Counter("luck")
	assert.False(t, ok)
}

func TestParseTrack(t *testing.T) {
	track, ok := sheet.ParseTrack(" Mental ")
	assert.True(t, ok)
	assert.Equal(t, sheet.TrackMental, track)

	_, ok = sheet.ParseTrack("hp")
	assert.False(t, ok)
}
