package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	channelID string
	sent      *discordgo.MessageSend
	err       error
}

func (f *fakeSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID = channelID
	f.sent = data
	return &discordgo.Message{ID: "m1"}, f.err
}

func sampleMessage() *chat.Message {
	return &chat.Message{
		Speaker:  "Ilse",
		RolledBy: "kirk",
		Flavor:   "Rolling VIOLENCE: d8",
		Formula:  "1d8",
		Rolls:    []int{6},
		Total:    6,
	}
}

func TestDiscordSink_Post(t *testing.T) {
	sender := &fakeSender{}
	sink := chat.NewDiscordSink(sender)

	require.NoError(t, sink.Post(context.Background(), "chan-1", sampleMessage()))

	assert.Equal(t, "chan-1", sender.channelID)
	require.Len(t, sender.sent.Embeds, 1)
	embed := sender.sent.Embeds[0]
	assert.Equal(t, "Ilse", embed.Author.Name)
	assert.Equal(t, "Rolling VIOLENCE: d8", embed.Description)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "1d8", embed.Fields[0].Value)
	assert.Equal(t, "6", embed.Fields[1].Value)
	assert.Equal(t, "**6**", embed.Fields[2].Value)
	assert.Equal(t, "Rolled by kirk", embed.Footer.Text)
	assert.NotNil(t, sender.sent.AllowedMentions)
}

func TestDiscordSink_Errors(t *testing.T) {
	sender := &fakeSender{err: errors.New("discord down")}
	sink := chat.NewDiscordSink(sender)

	assert.Error(t, sink.Post(context.Background(), "chan-1", sampleMessage()))
	assert.Error(t, sink.Post(context.Background(), "", sampleMessage()))
	assert.Panics(t, func() { chat.NewDiscordSink(nil) })
}

func TestMessage_Text(t *testing.T) {
	msg := sampleMessage()
	msg.Rolls = []int{2, 5}
	msg.Total = 7
	assert.Equal(t, "Ilse: Rolling VIOLENCE: d8 (1d8) = 7 [2, 5]", msg.Text())
}

func TestRecordingSink(t *testing.T) {
	sink := chat.NewRecordingSink()
	assert.Nil(t, sink.Last())

	require.NoError(t, sink.Post(context.Background(), "c", sampleMessage()))
	require.NoError(t, chat.LogSink{}.Post(context.Background(), "c", sampleMessage()))

	assert.Len(t, sink.Messages(), 1)
	assert.Equal(t, "Ilse", sink.Last().Speaker)
}
