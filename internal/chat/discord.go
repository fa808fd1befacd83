package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/pgte-bot/internal/discord/builders"
	"github.com/bwmarrin/discordgo"
)

// MessageSender is the part of *discordgo.Session the sink uses.
type MessageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSink posts roll results as embeds.
type DiscordSink struct {
	sender MessageSender
}

// NewDiscordSink creates a sink that posts through sender
func NewDiscordSink(sender MessageSender) *DiscordSink {
	if sender == nil {
		panic("message sender is required")
	}
	return &DiscordSink{sender: sender}
}

// Post implements Sink
func (s *DiscordSink) Post(ctx context.Context, channelID string, msg *Message) error {
	if channelID == "" {
		return fmt.Errorf("channel ID is required")
	}

	_, err := s.sender.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{RollEmbed(msg)},
		// Flavor text is user supplied; never let it ping anyone.
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post roll: %w", err)
	}
	return nil
}

// RollEmbed renders a roll result.
func RollEmbed(msg *Message) *discordgo.MessageEmbed {
	rolls := make([]string, len(msg.Rolls))
	for i, r := range msg.Rolls {
		rolls[i] = strconv.Itoa(r)
	}

	embed := builders.NewEmbed().
		Author(msg.Speaker, "", "").
		Description(msg.Flavor).
		Color(builders.ColorPrimary).
		Field("Formula", msg.Formula, true).
		Field("Rolls", strings.Join(rolls, ", "), true).
		Field("Total", fmt.Sprintf("**%d**", msg.Total), true)

	if msg.RolledBy != "" {
		embed.Footer(fmt.Sprintf("Rolled by %s", msg.RolledBy))
	}
	return embed.Build()
}
