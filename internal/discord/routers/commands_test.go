package routers_test

import (
	"errors"
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/discord/routers"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrar struct {
	created []*discordgo.ApplicationCommand
	guild   string
	err     error
}

func (f *fakeRegistrar) ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.guild = guildID
	f.created = append(f.created, cmd)
	return cmd, nil
}

func TestCommands_SheetGroup(t *testing.T) {
	cmds := routers.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "pgte", cmds[0].Name)

	group := cmds[0].Options[0]
	assert.Equal(t, discordgo.ApplicationCommandOptionSubCommandGroup, group.Type)

	var subs []string
	for _, opt := range group.Options {
		subs = append(subs, opt.Name)
	}
	assert.Equal(t, []string{"create", "show", "list", "set", "fields", "delete"}, subs)

	kind := group.Options[0].Options[1]
	require.Len(t, kind.Choices, 2)
	assert.Equal(t, "NPC", kind.Choices[1].Name)
	assert.Equal(t, "npc", kind.Choices[1].Value)
}

func TestRegisterCommands(t *testing.T) {
	reg := &fakeRegistrar{}
	require.NoError(t, routers.RegisterCommands(reg, "app", "guild-1"))
	assert.Equal(t, "guild-1", reg.guild)
	assert.Len(t, reg.created, 1)

	failing := &fakeRegistrar{err: errors.New("missing access")}
	err := routers.RegisterCommands(failing, "app", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pgte")
}
