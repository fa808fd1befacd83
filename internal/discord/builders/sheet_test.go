package builders_test

import (
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/discord/builders"
	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	"github.com/KirkDiggler/pgte-bot/internal/testutils"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldValues(embed *discordgo.MessageEmbed) map[string]string {
	out := make(map[string]string, len(embed.Fields))
	for _, f := range embed.Fields {
		out[f.Name] = f.Value
	}
	return out
}

func TestSheetEmbed_Pages(t *testing.T) {
	view := sheet.NewView(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"))

	t.Run("main shows canonical stats", func(t *testing.T) {
		embed := builders.SheetEmbed(view, builders.PageMain)
		assert.Equal(t, "Ilse", embed.Title)
		fields := fieldValues(embed)
		assert.Contains(t, fields["VIOLENCE"], "**d8**")
		assert.Contains(t, fields["VIOLENCE"], "combat, hitting, physical threats")
		assert.Contains(t, fields["HEART"], "**d10**")
		assert.Equal(t, "**d6**", fields["Story Die"])
		assert.Contains(t, embed.Footer.Text, "Main")
	})

	t.Run("resources shows marker tracks", func(t *testing.T) {
		fields := fieldValues(builders.SheetEmbed(view, builders.PageResources))
		assert.Equal(t, "●○○  1/3", fields["Physical Hits"])
		assert.Equal(t, "○○  0/2", fields["Mental Hits"])
		assert.Equal(t, "2", fields["Story Tokens"])
	})

	t.Run("aspects shows names and bonus dice", func(t *testing.T) {
		fields := fieldValues(builders.SheetEmbed(view, builders.PageAspects))
		assert.Contains(t, fields, "Silver Tongue")
		assert.Equal(t, "*empty*", fields["Aspect 2"])
		assert.Contains(t, fields["Bonus Dice"], "Lucky Coin: **d6**")
		assert.Contains(t, fields["Bonus Dice"], "Extra 2: **no die**")
	})

	t.Run("equipment shows quantities", func(t *testing.T) {
		fields := fieldValues(builders.SheetEmbed(view, builders.PageEquipment))
		assert.Equal(t, "× 2", fields["Rope"])
		assert.Equal(t, "× 0", fields["Item 2"])
	})
}

func TestSheetEmbed_NPCColor(t *testing.T) {
	c := testutils.CreateTestCharacter("c1", "u1", "g1", "Guard")
	c.Kind = sheet.KindNPC
	embed := builders.SheetEmbed(sheet.NewView(c), builders.PageMain)
	assert.Equal(t, builders.ColorNPC, embed.Color)
	assert.Contains(t, embed.Footer.Text, "NPC")
}

func TestMarkerTrack(t *testing.T) {
	assert.Equal(t, "●●○", builders.MarkerTrack(sheet.Counter{Value: 2, Max: 3}))
	assert.Equal(t, "—", builders.MarkerTrack(sheet.Counter{Value: 0, Max: 0}))
	assert.Equal(t, "●●", builders.MarkerTrack(sheet.Counter{Value: 5, Max: 2}))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, builders.PageAspects, builders.ParsePage("Aspects"))
	assert.Equal(t, builders.PageMain, builders.ParsePage("combat"))
	assert.Equal(t, "Equipment", builders.PageEquipment.Label())
}

func TestSheetListEmbed(t *testing.T) {
	empty := builders.SheetListEmbed(nil)
	assert.Contains(t, empty.Description, "/pgte sheet create")

	views := []*sheet.View{
		sheet.NewView(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse")),
		sheet.NewView(testutils.CreateLegacyCharacter("c2", "u1", "g1", "Old")),
	}
	embed := builders.SheetListEmbed(views)
	require.Len(t, embed.Fields, 2)
	assert.Contains(t, embed.Fields[1].Value, "Physical 2/3")
	assert.Contains(t, embed.Fields[1].Value, "`c2`")
}

func TestComponentBuilder_Rows(t *testing.T) {
	b := builders.NewComponentBuilder(core.NewCustomIDBuilder("pgte"))
	for i := 0; i < 6; i++ {
		b.SecondaryButton("x", "roll", "c1", "stat", string(sheet.StatKeys[i]))
	}
	b.NewRow().DisabledButton("Main", discordgo.PrimaryButton, "view", "c1", "main")

	rows := b.Build()
	require.Len(t, rows, 3)
	first := rows[0].(discordgo.ActionsRow)
	assert.Len(t, first.Components, builders.MaxRowComponents)
	assert.Equal(t, "pgte:roll:c1:stat:sorcery", first.Components[0].(discordgo.Button).CustomID)

	nav := rows[2].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.True(t, nav.Disabled)
	assert.Equal(t, "pgte:view:c1:main", nav.CustomID)
}
