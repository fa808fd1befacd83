package tui_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	mockdice "github.com/KirkDiggler/pgte-bot/internal/dice/mock"
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/KirkDiggler/pgte-bot/internal/repositories/characters"
	"github.com/KirkDiggler/pgte-bot/internal/services/character"
	"github.com/KirkDiggler/pgte-bot/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playFixture struct {
	model  tui.Model
	roller *mockdice.ManualMockRoller
	sink   *chat.RecordingSink
}

func newPlayFixture(t *testing.T, userID string) *playFixture {
	t.Helper()
	ctx := context.Background()
	roller := mockdice.NewManualMockRoller()
	sink := chat.NewRecordingSink()
	svc := character.NewService(&character.ServiceConfig{
		Repository: characters.NewInMemoryRepository(),
		DiceRoller: roller,
		Sink:       sink,
	})

	created, err := svc.Create(ctx, &character.CreateInput{UserID: "owner", RealmID: "g1", Name: "Ilse"})
	require.NoError(t, err)

	f := &playFixture{model: tui.New(ctx, svc, userID, created.ID), roller: roller, sink: sink}
	f.run(t, f.model.Init())
	require.NotNil(t, f.model.Sheet())
	return f
}

// run executes cmd and feeds its message back into the model.
func (f *playFixture) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			return
		}
		next, nextCmd := f.model.Update(msg)
		f.model = next.(tui.Model)
		cmd = nextCmd
	}
}

func (f *playFixture) press(t *testing.T, msg tea.KeyMsg) {
	t.Helper()
	next, cmd := f.model.Update(msg)
	f.model = next.(tui.Model)
	f.run(t, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlay_AdjustAndClickMarkers(t *testing.T) {
	f := newPlayFixture(t, "owner")
	assert.Equal(t, sheet.TrackPhysical, f.model.Track())

	f.press(t, runes("+"))
	f.press(t, runes("+"))
	assert.Equal(t, 2, f.model.Sheet().Sheet.Resources.Hits.Physical.Value)

	// Clicking the second marker while two are filled clears it.
	f.press(t, runes("2"))
	assert.Equal(t, 1, f.model.Sheet().Sheet.Resources.Hits.Physical.Value)

	f.press(t, runes("-"))
	f.press(t, runes("-"))
	assert.Equal(t, 0, f.model.Sheet().Sheet.Resources.Hits.Physical.Value)
}

func TestPlay_TokensTrack(t *testing.T) {
	f := newPlayFixture(t, "owner")

	f.press(t, tea.KeyMsg{Type: tea.KeyDown})
	f.press(t, tea.KeyMsg{Type: tea.KeyDown})
	f.press(t, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, sheet.TrackTokens, f.model.Track())

	f.press(t, runes("+"))
	assert.Equal(t, 1, f.model.Sheet().Sheet.Resources.StoryTokens.Value)

	// Digits do nothing on the token pool.
	f.press(t, runes("3"))
	assert.Equal(t, 1, f.model.Sheet().Sheet.Resources.StoryTokens.Value)

	f.press(t, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, sheet.TrackMental, f.model.Track())
}

func TestPlay_RollStoryDie(t *testing.T) {
	f := newPlayFixture(t, "owner")
	f.roller.SetNextRoll(3)

	f.press(t, runes("r"))
	require.NotNil(t, f.sink.Last())
	assert.Equal(t, 3, f.sink.Last().Total)
	assert.Contains(t, f.model.View(), "Rolling Story Die: d4 → 3")
}

func TestPlay_NotOwnerShowsError(t *testing.T) {
	f := newPlayFixture(t, "stranger")

	f.press(t, runes("+"))
	assert.Equal(t, 0, f.model.Sheet().Sheet.Resources.Hits.Physical.Value)
	assert.Contains(t, f.model.View(), "Physical Hits")
	assert.NotContains(t, f.model.View(), "Rolling")
}

func TestPlay_Quit(t *testing.T) {
	f := newPlayFixture(t, "owner")
	_, cmd := f.model.Update(runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
