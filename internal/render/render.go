// Package render draws a normalized character sheet for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7289DA"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginTop(1)

	dieStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Markers draws a hit track as filled and empty pips.
func Markers(c sheet.Counter) string {
	if c.Max <= 0 {
		return emptyStyle.Render("—")
	}
	filled := min(max(c.Value, 0), c.Max)
	return filledStyle.Render(strings.Repeat("●", filled)) +
		emptyStyle.Render(strings.Repeat("○", c.Max-filled))
}

// Sheet renders every section of a character sheet in a bordered box. Width
// bounds the box; zero leaves it unbounded.
func Sheet(view *sheet.View, width int) string {
	doc := view.Sheet
	var sections []string

	header := titleStyle.Render(view.DisplayName())
	var intro []string
	if doc.Profile.PersonalName != "" && doc.Profile.PersonalName != view.DisplayName() {
		intro = append(intro, doc.Profile.PersonalName)
	}
	if doc.Profile.Archetype != "" {
		intro = append(intro, doc.Profile.Archetype)
	}
	kind := "Character"
	if view.Kind == sheet.KindNPC {
		kind = "NPC"
	}
	intro = append(intro, kind)
	sections = append(sections, header, subtleStyle.Render(strings.Join(intro, " · ")))

	sections = append(sections, headingStyle.Render("Stats"))
	for _, key := range sheet.StatKeys {
		stat := doc.Stat(key)
		sections = append(sections, fmt.Sprintf("%-9s %s  %s",
			stat.Label, dieStyle.Render(fmt.Sprintf("%-3s", stat.Value)), subtleStyle.Render(stat.Uses)))
	}

	res := doc.Resources
	sections = append(sections,
		headingStyle.Render("Resources"),
		fmt.Sprintf("%-13s %s %d/%d", sheet.TrackPhysical.Label(), Markers(res.Hits.Physical), res.Hits.Physical.Value, res.Hits.Physical.Max),
		fmt.Sprintf("%-13s %s %d/%d", sheet.TrackMental.Label(), Markers(res.Hits.Mental), res.Hits.Mental.Value, res.Hits.Mental.Max),
		fmt.Sprintf("%-13s %d", sheet.TrackTokens.Label(), res.StoryTokens.Value),
		fmt.Sprintf("%-13s %s", "Story Die", dieStyle.Render(string(res.StoryDie.Value))),
	)

	sections = append(sections, headingStyle.Render("Aspects"))
	for _, slot := range sheet.AspectSlots {
		aspect := doc.Aspects[slot]
		if aspect.Name == "" && aspect.Nature == "" && aspect.Passive == "" && aspect.Active == "" {
			continue
		}
		name := aspect.Name
		if name == "" {
			name = "Aspect " + strings.TrimPrefix(slot, "aspect")
		}
		line := lipgloss.NewStyle().Bold(true).Render(name)
		if aspect.Nature != "" {
			line += subtleStyle.Render(" (" + aspect.Nature + ")")
		}
		if aspect.FirstUse {
			line += " ✓"
		}
		sections = append(sections, line)
		if aspect.Passive != "" {
			sections = append(sections, "  Passive: "+aspect.Passive)
		}
		if aspect.Active != "" {
			sections = append(sections, "  Active:  "+aspect.Active)
		}
	}

	var extras []string
	for _, slot := range sheet.ItemSlots {
		bonus := doc.BonusDice[slot]
		if bonus.Die == "" && bonus.Name == "" {
			continue
		}
		name := bonus.Name
		if name == "" {
			name = "Extra " + strings.TrimPrefix(slot, "item")
		}
		die := string(bonus.Die)
		if die == "" {
			die = "no die"
		}
		extras = append(extras, fmt.Sprintf("%s %s", name, dieStyle.Render(die)))
	}
	if len(extras) > 0 {
		sections = append(sections, headingStyle.Render("Bonus Dice"))
		sections = append(sections, extras...)
	}

	var items []string
	for _, slot := range sheet.ItemSlots {
		item := doc.Equipment[slot]
		if item.Name == "" && item.Quantity == 0 {
			continue
		}
		items = append(items, fmt.Sprintf("%s × %d", item.Name, item.Quantity))
	}
	if len(items) > 0 {
		sections = append(sections, headingStyle.Render("Equipment"))
		sections = append(sections, items...)
	}

	if notes := doc.Notes.PatternOfThree; notes != "" {
		sections = append(sections, headingStyle.Render("Pattern of Three"), notes)
	}

	box := boxStyle
	if width > 0 {
		box = box.Width(width)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
