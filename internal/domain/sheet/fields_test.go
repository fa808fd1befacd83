package sheet_test

import (
	"strings"
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupField(t *testing.T) {
	_, ok := sheet.LookupField("stats.sorcery.value")
	assert.True(t, ok)

	f, ok := sheet.LookupField("stats.SORCERY.value")
	require.True(t, ok)
	assert.Equal(t, "stats.sorcery.value", f.Path)

	for _, path := range []string{"stats.sorcery.label", "stats.body.uses", "aspects.aspect4.name", "resources", ""} {
		_, ok := sheet.LookupField(path)
		assert.False(t, ok, path)
	}
}

func TestFieldUpdates(t *testing.T) {
	doc := sheet.Default()
	doc.Resources.Hits.Physical = sheet.Counter{Value: 3, Max: 4}

	tests := []struct {
		name  string
		path  string
		input string
		want  map[string]any
	}{
		{
			name: "die", path: "stats.body.value", input: "D8",
			want: map[string]any{"stats.body.value": "d8"},
		},
		{
			name: "die without prefix", path: "resources.storyDie.value", input: "12",
			want: map[string]any{"resources.storyDie.value": "d12"},
		},
		{
			name: "optional die cleared", path: "bonusDice.item1.die", input: "none",
			want: map[string]any{"bonusDice.item1.die": ""},
		},
		{
			name: "optional die set", path: "bonusDice.item1.die", input: "1d6",
			want: map[string]any{"bonusDice.item1.die": "d6"},
		},
		{
			name: "hit value clamped to max", path: "resources.hits.physical.value", input: "9",
			want: map[string]any{"resources.hits.physical.value": 4},
		},
		{
			name: "lowering max clamps value", path: "resources.hits.physical.max", input: "2",
			want: map[string]any{
				"resources.hits.physical.max":   2,
				"resources.hits.physical.value": 2,
			},
		},
		{
			name: "raising max leaves value", path: "resources.hits.physical.max", input: "6",
			want: map[string]any{"resources.hits.physical.max": 6},
		},
		{
			name: "quantity floor", path: "equipment.item2.quantity", input: "-1",
			want: map[string]any{"equipment.item2.quantity": 0},
		},
		{
			name: "flag", path: "aspects.aspect1.firstUse", input: "no",
			want: map[string]any{"aspects.aspect1.firstUse": false},
		},
		{
			name: "text trimmed", path: "profile.archetype", input: "  Witch-Knight ",
			want: map[string]any{"profile.archetype": "Witch-Knight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := sheet.LookupField(tt.path)
			require.True(t, ok)

			got, err := f.Updates(doc, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldUpdates_HugeCountStaysNormalized(t *testing.T) {
	for _, path := range []string{"resources.storyTokens.value", "equipment.item1.quantity", "resources.hits.mental.max"} {
		t.Run(path, func(t *testing.T) {
			f, ok := sheet.LookupField(path)
			require.True(t, ok)

			got, err := f.Updates(sheet.Default(), "9223372036854775807")
			require.NoError(t, err)
			assert.Equal(t, sheet.Unbounded, got[path])
		})
	}

	doc := sheet.Default()
	doc.Resources.StoryTokens.Value = sheet.Unbounded
	doc.Equipment["item1"] = sheet.Item{Quantity: sheet.Unbounded}
	doc.Resources.Hits.Mental = sheet.Counter{Value: sheet.Unbounded, Max: sheet.Unbounded}

	assert.False(t, sheet.NeedsRepair(doc.Raw()))
	assert.Equal(t, doc, sheet.Normalize(doc.Raw()))

	tokens, ok := doc.Counter(sheet.TrackTokens)
	require.True(t, ok)
	assert.Equal(t, sheet.Unbounded, tokens.Adjust(1))
}

func TestFieldUpdates_Rejects(t *testing.T) {
	doc := sheet.Default()

	tests := []struct {
		path  string
		input string
	}{
		{path: "stats.mind.value", input: "d7"},
		{path: "stats.mind.value", input: ""},
		{path: "bonusDice.item3.die", input: "banana"},
		{path: "resources.storyTokens.value", input: "lots"},
		{path: "aspects.aspect2.firstUse", input: "maybe"},
		{path: "notes.patternOfThree", input: strings.Repeat("x", sheet.MaxTextLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f, ok := sheet.LookupField(tt.path)
			require.True(t, ok)

			_, err := f.Updates(doc, tt.input)
			assert.True(t, sheeterr.IsValidation(err), "got %v", err)
		})
	}
}

func TestEditablePaths(t *testing.T) {
	paths := sheet.EditablePaths()

	assert.Contains(t, paths, "profile.personalName")
	assert.Contains(t, paths, "equipment.item3.quantity")
	assert.IsNonDecreasing(t, paths)
	for _, p := range paths {
		assert.NotContains(t, p, ".label")
		assert.NotContains(t, p, ".uses")
	}
}
