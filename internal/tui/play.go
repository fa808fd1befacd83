// Package tui is an interactive terminal view over one stored character.
//
// It follows the bubbletea model: key presses become service calls run as
// commands, and their results come back as messages that replace the view.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/KirkDiggler/pgte-bot/internal/render"
	"github.com/KirkDiggler/pgte-bot/internal/services/character"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChannelID is the chat channel rolls from the terminal are posted to.
const ChannelID = "terminal"

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC66"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

type viewMsg struct {
	view *sheet.View
	err  error
}

type rollMsg struct {
	out *character.RollOutput
	err error
}

// Model is the play screen state.
type Model struct {
	ctx         context.Context
	service     character.Service
	userID      string
	characterID string

	view   *sheet.View
	cursor int
	status string
	err    error
}

// New creates the play screen for one character. Writes are made as userID.
func New(ctx context.Context, service character.Service, userID, characterID string) Model {
	return Model{
		ctx:         ctx,
		service:     service,
		userID:      userID,
		characterID: characterID,
	}
}

// Track is the track under the cursor.
func (m Model) Track() sheet.Track {
	return sheet.Tracks[m.cursor]
}

// Sheet returns the loaded sheet, nil before the first load completes.
func (m Model) Sheet() *sheet.View {
	return m.view
}

// Init loads the character.
func (m Model) Init() tea.Cmd {
	return m.load
}

func (m Model) load() tea.Msg {
	view, err := m.service.Get(m.ctx, m.characterID)
	return viewMsg{view: view, err: err}
}

// Update handles key presses and service results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.err = msg.err
		if msg.err == nil {
			m.view = msg.view
		}
		return m, nil

	case rollMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("%s → %d %v", msg.out.Plan.Flavor, msg.out.Result.Total, msg.out.Result.Rolls)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(sheet.Tracks)-1 {
			m.cursor++
		}
		return m, nil
	}

	if m.view == nil {
		return m, nil
	}
	m.status = ""

	switch key {
	case "+", "=", "right", "l":
		return m, m.adjust(1)
	case "-", "left", "h":
		return m, m.adjust(-1)
	case "r":
		return m, m.roll()
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' && m.Track() != sheet.TrackTokens {
		return m, m.click(int(key[0] - '1'))
	}
	return m, nil
}

func (m Model) adjust(delta int) tea.Cmd {
	input := &character.AdjustTrackInput{
		UserID:      m.userID,
		CharacterID: m.characterID,
		Track:       m.Track(),
		Delta:       delta,
	}
	return func() tea.Msg {
		view, err := m.service.AdjustTrack(m.ctx, input)
		return viewMsg{view: view, err: err}
	}
}

func (m Model) click(index int) tea.Cmd {
	input := &character.ClickMarkerInput{
		UserID:      m.userID,
		CharacterID: m.characterID,
		Track:       m.Track(),
		Index:       index,
	}
	return func() tea.Msg {
		view, err := m.service.ClickMarker(m.ctx, input)
		return viewMsg{view: view, err: err}
	}
}

func (m Model) roll() tea.Cmd {
	input := &character.RollInput{
		UserID:      m.userID,
		UserName:    m.userID,
		CharacterID: m.characterID,
		ChannelID:   ChannelID,
		Request:     sheet.RollRequest{Kind: sheet.RollStoryDie},
	}
	return func() tea.Msg {
		out, err := m.service.Roll(m.ctx, input)
		return rollMsg{out: out, err: err}
	}
}

// View renders the sheet with the track picker underneath.
func (m Model) View() string {
	if m.view == nil {
		if m.err != nil {
			return errorStyle.Render("Error: "+m.err.Error()) + "\n" + helpStyle.Render("q quit") + "\n"
		}
		return "Loading " + m.characterID + "…\n"
	}

	var b strings.Builder
	b.WriteString(render.Sheet(m.view, 72))
	b.WriteString("\n\n")

	res := m.view.Sheet.Resources
	for i, track := range sheet.Tracks {
		prefix := "  "
		label := fmt.Sprintf("%-15s", track.Label())
		if i == m.cursor {
			prefix = cursorStyle.Render("▸ ")
			label = cursorStyle.Render(label)
		}
		var value string
		switch track {
		case sheet.TrackPhysical:
			value = render.Markers(res.Hits.Physical)
		case sheet.TrackMental:
			value = render.Markers(res.Hits.Mental)
		default:
			value = fmt.Sprintf("%d", res.StoryTokens.Value)
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, label, value)
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ track · +/- adjust · 1-9 marker · r story die · q quit"))
	b.WriteString("\n")
	return b.String()
}
