package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"github.com/KirkDiggler/pgte-bot/internal/render"
	"github.com/KirkDiggler/pgte-bot/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSample(t *testing.T) {
	c := render.BuiltinSample()
	assert.Equal(t, "Maren Holt", c.Name)
	assert.Equal(t, sheet.KindCharacter, c.Kind)

	view := sheet.NewView(c)
	assert.Equal(t, sheet.D10, view.Sheet.Stat(sheet.StatMind).Value)
	assert.Equal(t, sheet.Counter{Value: 1, Max: 4}, view.Sheet.Resources.Hits.Physical)
	assert.Equal(t, 5, view.Sheet.Equipment["item2"].Quantity)
	assert.Equal(t, "Bone Dice", view.Sheet.BonusDice["item1"].Name)
}

func TestParseSample_LegacyHits(t *testing.T) {
	c, err := render.ParseSample([]byte(`
name: Old Sheet
kind: NPC
system:
  resources:
    hits: { value: 2, max: 3 }
`))
	require.NoError(t, err)
	assert.Equal(t, sheet.KindNPC, c.Kind)

	view := sheet.NewView(c)
	assert.Equal(t, sheet.Counter{Value: 2, Max: 3}, view.Sheet.Resources.Hits.Physical)
	assert.Equal(t, sheet.Counter{Value: 0, Max: 0}, view.Sheet.Resources.Hits.Mental)
}

func TestParseSample_Errors(t *testing.T) {
	_, err := render.ParseSample(nil)
	assert.True(t, sheeterr.IsInvalidArgument(err))

	_, err = render.ParseSample([]byte("name: [unclosed"))
	assert.Error(t, err)

	_, err = render.ParseSample([]byte("name: X\nkind: dragon\n"))
	assert.True(t, sheeterr.IsInvalidArgument(err))
}

func TestLoadSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: File Sheet\n"), 0o600))

	c, err := render.LoadSample(path)
	require.NoError(t, err)
	assert.Equal(t, "File Sheet", c.Name)

	_, err = render.LoadSample(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSheet_ShowsEverySection(t *testing.T) {
	view := sheet.NewView(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"))
	out := render.Sheet(view, 80)

	for _, want := range []string{
		"Ilse", "Ilse Varn", "The Liar",
		"VIOLENCE", "d8", "combat, hitting, physical threats",
		"Physical Hits", "1/3", "Mental Hits", "0/2", "Story Tokens",
		"Silver Tongue", "Gift", "Talk past a locked door.",
		"Lucky Coin", "Rope × 2",
		"Three crows, three bells, three lies.",
	} {
		assert.Contains(t, out, want)
	}
}

func TestMarkers(t *testing.T) {
	assert.Contains(t, render.Markers(sheet.Counter{Value: 0, Max: 0}), "—")
	out := render.Markers(sheet.Counter{Value: 9, Max: 2})
	assert.Contains(t, out, "●●")
	assert.NotContains(t, out, "○")
}
