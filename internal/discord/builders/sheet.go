package builders

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Page is one of the views of a sheet message.
type Page string

const (
	PageMain      Page = "main"
	PageResources Page = "resources"
	PageAspects   Page = "aspects"
	PageEquipment Page = "equipment"
)

// Pages lists the sheet views in navigation order.
var Pages = []Page{PageMain, PageResources, PageAspects, PageEquipment}

// MaxMarkers is how many hit markers a track shows as buttons.
const MaxMarkers = 5

var titleCase = cases.Title(language.English)

// ParsePage accepts a page name; unknown names fall back to the main view.
func ParsePage(s string) Page {
	p := Page(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Pages {
		if p == known {
			return p
		}
	}
	return PageMain
}

// Label is the navigation button text for the page.
func (p Page) Label() string {
	return titleCase.String(string(p))
}

// KindLabel is the display name of a sheet kind.
func KindLabel(kind sheet.Kind) string {
	if kind == sheet.KindNPC {
		return "NPC"
	}
	if kind == "" {
		kind = sheet.KindCharacter
	}
	return titleCase.String(string(kind))
}

// MarkerTrack draws a hit track as filled and empty pips.
func MarkerTrack(c sheet.Counter) string {
	if c.Max <= 0 {
		return "—"
	}
	filled := min(max(c.Value, 0), c.Max)
	return strings.Repeat("●", filled) + strings.Repeat("○", c.Max-filled)
}

// AspectTitle is the aspect's name, or "Aspect N" for an unnamed slot.
func AspectTitle(slot string, a sheet.Aspect) string {
	if a.Name != "" {
		return a.Name
	}
	return "Aspect " + strings.TrimPrefix(slot, "aspect")
}

// BonusDieTitle is the bonus die's name, or "Extra N" for an unnamed slot.
func BonusDieTitle(slot string, b sheet.BonusDie) string {
	if b.Name != "" {
		return b.Name
	}
	return "Extra " + strings.TrimPrefix(slot, "item")
}

// SheetEmbed renders one page of a character sheet.
func SheetEmbed(view *sheet.View, page Page) *discordgo.MessageEmbed {
	doc := view.Sheet
	color := ColorPrimary
	if view.Kind == sheet.KindNPC {
		color = ColorNPC
	}

	embed := NewEmbed().
		Title(view.DisplayName()).
		Color(color).
		Footer(fmt.Sprintf("%s • %s • %s", sheet.SheetLabel, KindLabel(view.Kind), page.Label()))

	var intro []string
	if doc.Profile.PersonalName != "" && doc.Profile.PersonalName != view.DisplayName() {
		intro = append(intro, "*"+doc.Profile.PersonalName+"*")
	}
	if doc.Profile.Archetype != "" {
		intro = append(intro, doc.Profile.Archetype)
	}
	if len(intro) > 0 {
		embed.Description(strings.Join(intro, " — "))
	}

	switch page {
	case PageResources:
		addResourceFields(embed, doc)
	case PageAspects:
		addAspectFields(embed, doc)
	case PageEquipment:
		addEquipmentFields(embed, doc)
	default:
		addMainFields(embed, doc)
	}

	return embed.Build()
}

func addMainFields(embed *EmbedBuilder, doc *sheet.Document) {
	for _, key := range sheet.StatKeys {
		stat := doc.Stat(key)
		embed.Field(stat.Label, fmt.Sprintf("**%s**\n%s", stat.Value, stat.Uses), true)
	}
	embed.Field("Story Die", fmt.Sprintf("**%s**", doc.Resources.StoryDie.Value), true)
	embed.Field("Story Tokens", fmt.Sprintf("%d", doc.Resources.StoryTokens.Value), true)
	embed.Field("Hits", fmt.Sprintf("Physical %s\nMental %s",
		MarkerTrack(doc.Resources.Hits.Physical),
		MarkerTrack(doc.Resources.Hits.Mental)), true)
}

func addResourceFields(embed *EmbedBuilder, doc *sheet.Document) {
	hits := doc.Resources.Hits
	embed.Field(sheet.TrackPhysical.Label(), fmt.Sprintf("%s  %d/%d", MarkerTrack(hits.Physical), hits.Physical.Value, hits.Physical.Max), false)
	embed.Field(sheet.TrackMental.Label(), fmt.Sprintf("%s  %d/%d", MarkerTrack(hits.Mental), hits.Mental.Value, hits.Mental.Max), false)
	embed.Field(sheet.TrackTokens.Label(), fmt.Sprintf("%d", doc.Resources.StoryTokens.Value), true)
	embed.Field("Story Die", fmt.Sprintf("**%s**", doc.Resources.StoryDie.Value), true)
}

func addAspectFields(embed *EmbedBuilder, doc *sheet.Document) {
	for _, slot := range sheet.AspectSlots {
		aspect := doc.Aspects[slot]
		var lines []string
		if aspect.Nature != "" {
			lines = append(lines, "**Nature:** "+aspect.Nature)
		}
		if aspect.Passive != "" {
			lines = append(lines, "**Passive:** "+aspect.Passive)
		}
		if aspect.Active != "" {
			lines = append(lines, "**Active:** "+aspect.Active)
		}
		if aspect.FirstUse {
			lines = append(lines, "✓ First use spent")
		}
		if len(lines) == 0 {
			lines = append(lines, "*empty*")
		}
		embed.Field(AspectTitle(slot, aspect), strings.Join(lines, "\n"), false)
	}

	var extras []string
	for _, slot := range sheet.ItemSlots {
		bonus := doc.BonusDice[slot]
		die := string(bonus.Die)
		if die == "" {
			die = "no die"
		}
		extras = append(extras, fmt.Sprintf("%s: **%s**", BonusDieTitle(slot, bonus), die))
	}
	embed.Field("Bonus Dice", strings.Join(extras, "\n"), false)
}

func addEquipmentFields(embed *EmbedBuilder, doc *sheet.Document) {
	for _, slot := range sheet.ItemSlots {
		item := doc.Equipment[slot]
		name := item.Name
		if name == "" {
			name = "Item " + strings.TrimPrefix(slot, "item")
		}
		embed.Field(name, fmt.Sprintf("× %d", item.Quantity), true)
	}
	if notes := doc.Notes.PatternOfThree; notes != "" {
		embed.Field("Pattern of Three", notes, false)
	}
}

// SheetListEmbed lists characters with their kind and hit state.
func SheetListEmbed(views []*sheet.View) *discordgo.MessageEmbed {
	embed := NewEmbed().Title("Your character sheets").Color(ColorPrimary)
	if len(views) == 0 {
		return embed.
			Description("You have no sheets yet. Create one with `/pgte sheet create`.").
			Build()
	}

	for _, v := range views {
		hits := v.Sheet.Resources.Hits
		embed.Field(v.DisplayName(), fmt.Sprintf("%s • Physical %d/%d • Mental %d/%d\n`%s`",
			KindLabel(v.Kind), hits.Physical.Value, hits.Physical.Max, hits.Mental.Value, hits.Mental.Max, v.ID), false)
	}
	return embed.Footer(fmt.Sprintf("%d sheet(s)", len(views))).Build()
}
