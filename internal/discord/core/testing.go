package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// TestInteractionContext creates an InteractionContext for testing
type TestInteractionContext struct {
	*InteractionContext
	TestParams map[string]interface{}
}

// NewTestInteractionContext creates a test interaction context
func NewTestInteractionContext() *TestInteractionContext {
	ctx := &InteractionContext{
		Context:   context.Background(),
		UserID:    "test-user-123",
		UserName:  "Tester",
		GuildID:   "test-guild-123",
		ChannelID: "test-channel-123",
		params:    make(map[string]interface{}),
	}

	return &TestInteractionContext{
		InteractionContext: ctx,
		TestParams:         make(map[string]interface{}),
	}
}

// WithParam adds a parameter for testing
func (t *TestInteractionContext) WithParam(key string, value interface{}) *TestInteractionContext {
	t.params[key] = value
	return t
}

// WithUserID sets the user ID
func (t *TestInteractionContext) WithUserID(userID string) *TestInteractionContext {
	t.UserID = userID
	return t
}

// WithGuildID sets the guild ID
func (t *TestInteractionContext) WithGuildID(guildID string) *TestInteractionContext {
	t.GuildID = guildID
	return t
}

// WithRoles sets the roles for the member
func (t *TestInteractionContext) WithRoles(roles []string) *TestInteractionContext {
	if t.Interaction == nil {
		t.Interaction = &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{},
		}
	}
	if t.Interaction.Member == nil {
		t.Interaction.Member = &discordgo.Member{
			User: &discordgo.User{
				ID: t.UserID,
			},
		}
	}
	t.Interaction.Member.Roles = roles

	// Update the InteractionContext's Member field as well
	t.Member = t.Interaction.Member
	return t
}

// WithValue adds a value to the context
func (t *TestInteractionContext) WithValue(key string, value interface{}) *TestInteractionContext {
	t.params[key] = value
	return t
}

// AsCommand simulates a command interaction
func (t *TestInteractionContext) AsCommand(name string, subcommand ...string) *TestInteractionContext {
	t.Interaction = &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: name,
			},
		},
	}

	if len(subcommand) > 0 {
		t.params["subcommand"] = subcommand[0]
	}

	return t
}

// AsGroupCommand simulates a subcommand inside a subcommand group
func (t *TestInteractionContext) AsGroupCommand(name, group, subcommand string) *TestInteractionContext {
	t.AsCommand(name, subcommand)
	t.params["subcommand_group"] = group
	return t
}

// AsModal simulates a modal submission with the given text input values
func (t *TestInteractionContext) AsModal(customID string, values map[string]string) *TestInteractionContext {
	rows := make([]discordgo.MessageComponent, 0, len(values))
	for id, value := range values {
		rows = append(rows, &discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: id, Value: value},
			},
		})
		t.params[id] = value
	}

	t.Interaction = &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionModalSubmit,
			Data: discordgo.ModalSubmitInteractionData{
				CustomID:   customID,
				Components: rows,
			},
		},
	}
	t.params["modal_id"] = customID
	return t
}

// AsComponent simulates a component interaction
func (t *TestInteractionContext) AsComponent(customID string) *TestInteractionContext {
	t.Interaction = &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{
				CustomID: customID,
			},
		},
	}
	return t
}

// MockResponder is a test implementation of InteractionResponder
type MockResponder struct {
	DeferCalls   []bool // Track ephemeral flags
	UpdateDefers int
	Responses    []*Response
	Edits        []*Response
	FollowUps    []*Response
	DeferError   error
	RespondError error
	EditError    error
	Deferred     bool
	Responded    bool
}

// NewMockResponder creates a new mock responder
func NewMockResponder() *MockResponder {
	return &MockResponder{
		DeferCalls: make([]bool, 0),
		Responses:  make([]*Response, 0),
		Edits:      make([]*Response, 0),
		FollowUps:  make([]*Response, 0),
	}
}

func (m *MockResponder) Defer(ephemeral bool) error {
	m.DeferCalls = append(m.DeferCalls, ephemeral)
	m.Deferred = true
	return m.DeferError
}

func (m *MockResponder) DeferUpdate() error {
	m.UpdateDefers++
	m.Deferred = true
	return m.DeferError
}

func (m *MockResponder) Respond(response *Response) error {
	m.Responses = append(m.Responses, response)
	m.Responded = true
	return m.RespondError
}

func (m *MockResponder) Edit(response *Response) error {
	m.Edits = append(m.Edits, response)
	return m.EditError
}

func (m *MockResponder) FollowUp(response *Response) (*discordgo.Message, error) {
	m.FollowUps = append(m.FollowUps, response)
	return &discordgo.Message{ID: "test-message-123"}, nil
}

func (m *MockResponder) DeleteFollowUp(messageID string) error {
	return nil
}

func (m *MockResponder) DeleteOriginal() error {
	return nil
}

func (m *MockResponder) HasResponded() bool {
	return m.Responded
}

func (m *MockResponder) IsDeferred() bool {
	return m.Deferred
}

var _ InteractionResponder = (*MockResponder)(nil)

// AttachResponder stores a responder where GetResponder finds it
func (t *TestInteractionContext) AttachResponder(r InteractionResponder) *TestInteractionContext {
	t.InteractionContext.WithValue(responderKey, r)
	return t
}
