package routers

import (
	"fmt"
	"strconv"

	"github.com/KirkDiggler/pgte-bot/internal/discord/builders"
	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/bwmarrin/discordgo"
)

// Component actions under the pgte domain.
const (
	actionView      = "view"
	actionAdjust    = "adj"
	actionMark      = "mark"
	actionQuantity  = "qty"
	actionRoll      = "roll"
	actionEdit      = "edit"
	actionFirstUse  = "first"
	actionOpen      = "open"
	actionDeleteYes = "delyes"
	actionDeleteNo  = "delno"
	actionNoop      = "noop"

	modalAspect = "aspect"
)

// sheetComponents builds the buttons for one page of a sheet message.
func sheetComponents(ids *core.CustomIDBuilder, view *sheet.View, page builders.Page) []discordgo.MessageComponent {
	b := builders.NewComponentBuilder(ids)

	switch page {
	case builders.PageResources:
		resourceButtons(b, view)
	case builders.PageAspects:
		aspectButtons(b, view)
	case builders.PageEquipment:
		equipmentButtons(b, view)
	default:
		mainButtons(b, view)
	}

	b.NewRow()
	for _, p := range builders.Pages {
		if p == page {
			b.DisabledButton(p.Label(), discordgo.PrimaryButton, actionView, view.ID, string(p))
			continue
		}
		b.SecondaryButton(p.Label(), actionView, view.ID, string(p))
	}

	return b.Build()
}

func mainButtons(b *builders.ComponentBuilder, view *sheet.View) {
	doc := view.Sheet
	for _, key := range sheet.StatKeys {
		stat := doc.Stat(key)
		label := fmt.Sprintf("%s %s", stat.Label, stat.Value)
		if stat.Value.IsRollable() {
			b.PrimaryButton(label, actionRoll, view.ID, string(sheet.RollStat), string(key))
		} else {
			b.DisabledButton(label, discordgo.SecondaryButton, actionRoll, view.ID, string(sheet.RollStat), string(key))
		}
	}
	b.NewRow()
	b.EmojiButton("Story Die", "🎲", discordgo.SuccessButton, actionRoll, view.ID, string(sheet.RollStoryDie))
	b.SecondaryButton("Pattern of Three", actionRoll, view.ID, string(sheet.RollPatternOfThree))
}

func resourceButtons(b *builders.ComponentBuilder, view *sheet.View) {
	hits := view.Sheet.Resources.Hits
	for _, track := range []sheet.Track{sheet.TrackPhysical, sheet.TrackMental} {
		counter := hits.Physical
		if track == sheet.TrackMental {
			counter = hits.Mental
		}
		markerRow(b, view.ID, track, counter)
	}

	b.NewRow()
	b.SecondaryButton("− Physical", actionAdjust, view.ID, string(sheet.TrackPhysical), "-1")
	b.SecondaryButton("+ Physical", actionAdjust, view.ID, string(sheet.TrackPhysical), "+1")
	b.SecondaryButton("− Mental", actionAdjust, view.ID, string(sheet.TrackMental), "-1")
	b.SecondaryButton("+ Mental", actionAdjust, view.ID, string(sheet.TrackMental), "+1")

	b.NewRow()
	b.SecondaryButton("− Token", actionAdjust, view.ID, string(sheet.TrackTokens), "-1")
	b.DisabledButton(fmt.Sprintf("Tokens: %d", view.Sheet.Resources.StoryTokens.Value),
		discordgo.SecondaryButton, actionNoop, view.ID, string(sheet.TrackTokens))
	b.SecondaryButton("+ Token", actionAdjust, view.ID, string(sheet.TrackTokens), "+1")
}

// markerRow draws one button per hit marker. Tracks longer than MaxMarkers
// are left to the +/- buttons.
func markerRow(b *builders.ComponentBuilder, id string, track sheet.Track, c sheet.Counter) {
	if c.Max <= 0 || c.Max > builders.MaxMarkers {
		return
	}
	b.NewRow()
	for i := 0; i < c.Max; i++ {
		style, label := discordgo.SecondaryButton, "○"
		if i < c.Value {
			style, label = discordgo.DangerButton, "●"
		}
		b.Button(label, style, actionMark, id, string(track), strconv.Itoa(i))
	}
}

func aspectButtons(b *builders.ComponentBuilder, view *sheet.View) {
	doc := view.Sheet
	for _, slot := range sheet.AspectSlots {
		aspect := doc.Aspects[slot]
		title := builders.AspectTitle(slot, aspect)

		b.NewRow()
		b.PrimaryButton(truncateLabel(title+" · Passive"), actionRoll, view.ID, string(sheet.RollAspect), slot, sheet.AspectPassive)
		b.PrimaryButton("Active", actionRoll, view.ID, string(sheet.RollAspect), slot, sheet.AspectActive)
		b.SecondaryButton("Edit", actionEdit, view.ID, slot)
		if aspect.FirstUse {
			b.SuccessButton("First use ✓", actionFirstUse, view.ID, slot)
		} else {
			b.SecondaryButton("First use", actionFirstUse, view.ID, slot)
		}
	}

	b.NewRow()
	for _, slot := range sheet.ItemSlots {
		bonus := doc.BonusDice[slot]
		title := builders.BonusDieTitle(slot, bonus)
		if bonus.Die.IsRollable() {
			b.SuccessButton(truncateLabel(fmt.Sprintf("%s %s", title, bonus.Die)), actionRoll, view.ID, string(sheet.RollExtra), slot)
		} else {
			b.DisabledButton(truncateLabel(title), discordgo.SecondaryButton, actionRoll, view.ID, string(sheet.RollExtra), slot)
		}
	}
}

func equipmentButtons(b *builders.ComponentBuilder, view *sheet.View) {
	for _, slot := range sheet.ItemSlots {
		item := view.Sheet.Equipment[slot]
		name := item.Name
		if name == "" {
			name = "Item " + slot[len("item"):]
		}

		b.NewRow()
		b.SecondaryButton("−", actionQuantity, view.ID, slot, "-1")
		b.DisabledButton(truncateLabel(fmt.Sprintf("%s × %d", name, item.Quantity)),
			discordgo.SecondaryButton, actionNoop, view.ID, slot)
		b.SecondaryButton("+", actionQuantity, view.ID, slot, "+1")
	}
}

// aspectModal prefills the aspect editor with the slot's current text.
func aspectModal(ids *core.CustomIDBuilder, view *sheet.View, slot string) *core.Response {
	aspect := view.Sheet.Aspects[slot]
	input := func(id, label string, style discordgo.TextInputStyle, value string) discordgo.MessageComponent {
		return discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  id,
					Label:     label,
					Style:     style,
					Value:     value,
					MaxLength: sheet.MaxTextLength,
				},
			},
		}
	}

	return core.NewModalResponse(
		ids.Build(modalAspect).WithTarget(view.ID).WithArgs(slot).MustEncode(),
		truncateLabel("Edit "+builders.AspectTitle(slot, aspect)),
		input("name", "Name", discordgo.TextInputShort, aspect.Name),
		input("nature", "Nature", discordgo.TextInputShort, aspect.Nature),
		input("passive", "Passive", discordgo.TextInputParagraph, aspect.Passive),
		input("active", "Active", discordgo.TextInputParagraph, aspect.Active),
	)
}

// listComponents offers a select menu to open one of the user's sheets.
func listComponents(ids *core.CustomIDBuilder, userID string, views []*sheet.View) []discordgo.MessageComponent {
	if len(views) == 0 {
		return nil
	}

	options := make([]builders.SelectOption, 0, len(views))
	for i, v := range views {
		if i == 25 {
			break
		}
		options = append(options, builders.SelectOption{
			Label:       truncateLabel(v.DisplayName()),
			Value:       v.ID,
			Description: builders.KindLabel(v.Kind),
		})
	}

	return builders.NewComponentBuilder(ids).
		SelectMenuWithTarget("Open a sheet…", actionOpen, userID, options).
		Build()
}

// truncateLabel keeps button and modal labels within Discord's limit.
func truncateLabel(s string) string {
	const maxLabel = 45
	r := []rune(s)
	if len(r) <= maxLabel {
		return s
	}
	return string(r[:maxLabel-1]) + "…"
}
