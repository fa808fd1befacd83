package core

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// responderKey is the context key the pipeline stores the responder under
const responderKey = "responder"

// InteractionResponder provides an abstraction over Discord's interaction response API
type InteractionResponder interface {
	// Defer sends a deferred response, optionally ephemeral
	Defer(ephemeral bool) error

	// DeferUpdate acknowledges a component interaction; the next Edit
	// changes the message the component belongs to
	DeferUpdate() error

	// Respond sends an immediate response
	Respond(response *Response) error

	// Edit updates a previous response (after defer or respond)
	Edit(response *Response) error

	// FollowUp sends an additional message after the initial response
	FollowUp(response *Response) (*discordgo.Message, error)

	// DeleteFollowUp deletes a follow-up message
	DeleteFollowUp(messageID string) error

	// DeleteOriginal deletes the original response
	DeleteOriginal() error

	// HasResponded returns whether an initial response was sent
	HasResponded() bool

	// IsDeferred returns whether the initial response was a defer
	IsDeferred() bool
}

// GetResponder returns the responder the pipeline attached to ctx, if any
func GetResponder(ctx *InteractionContext) (InteractionResponder, bool) {
	responder, ok := ctx.Value(responderKey).(InteractionResponder)
	return responder, ok
}

// DiscordResponder implements InteractionResponder using Discord's API
type DiscordResponder struct {
	ctx         context.Context
	session     Session
	interaction *discordgo.InteractionCreate
	responded   bool
	deferred    bool

	// deferredUpdate is set when the defer acknowledged a component
	deferredUpdate bool
}

// NewDiscordResponder creates a new Discord responder
func NewDiscordResponder(ctx context.Context, s Session, i *discordgo.InteractionCreate) *DiscordResponder {
	return &DiscordResponder{
		ctx:         ctx,
		session:     s,
		interaction: i,
	}
}

// Defer sends a deferred response
func (r *DiscordResponder) Defer(ephemeral bool) error {
	if r.responded || r.deferred {
		return fmt.Errorf("interaction already responded to")
	}

	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	err := r.session.InteractionRespond(r.interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: flags,
		},
	}, discordgo.WithContext(r.ctx))

	if err == nil {
		r.deferred = true
		r.responded = true
	}

	return err
}

// DeferUpdate acknowledges a component interaction without a new message
func (r *DiscordResponder) DeferUpdate() error {
	if r.responded || r.deferred {
		return fmt.Errorf("interaction already responded to")
	}

	err := r.session.InteractionRespond(r.interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(r.ctx))

	if err == nil {
		r.deferred = true
		r.deferredUpdate = true
		r.responded = true
	}

	return err
}

// Respond sends an immediate response
func (r *DiscordResponder) Respond(response *Response) error {
	if r.responded {
		// If we've already responded, edit instead
		return r.Edit(response)
	}

	err := r.session.InteractionRespond(r.interaction.Interaction, r.buildResponse(response), discordgo.WithContext(r.ctx))
	if err == nil {
		r.responded = true
	}

	return err
}

// Edit updates a previous response. After a component was acknowledged with
// DeferUpdate, an ephemeral response is sent as a follow-up instead so the
// sheet message is not replaced by a warning.
func (r *DiscordResponder) Edit(response *Response) error {
	if !r.responded {
		return fmt.Errorf("cannot edit before responding")
	}

	if response.Acknowledge {
		return nil
	}

	if r.deferredUpdate && response.Ephemeral && !response.Update {
		_, err := r.FollowUp(response)
		return err
	}

	webhook := &discordgo.WebhookEdit{
		Content:         &response.Content,
		Embeds:          &response.Embeds,
		Components:      &response.Components,
		AllowedMentions: response.AllowedMentions,
	}

	_, err := r.session.InteractionResponseEdit(r.interaction.Interaction, webhook, discordgo.WithContext(r.ctx))
	return err
}

// FollowUp sends an additional message after the initial response
func (r *DiscordResponder) FollowUp(response *Response) (*discordgo.Message, error) {
	if !r.responded {
		return nil, fmt.Errorf("cannot follow up before responding")
	}

	data := r.buildFollowUpData(response)
	return r.session.FollowupMessageCreate(r.interaction.Interaction, true, data, discordgo.WithContext(r.ctx))
}

// DeleteFollowUp deletes a follow-up message
func (r *DiscordResponder) DeleteFollowUp(messageID string) error {
	return r.session.FollowupMessageDelete(r.interaction.Interaction, messageID, discordgo.WithContext(r.ctx))
}

// DeleteOriginal deletes the original response
func (r *DiscordResponder) DeleteOriginal() error {
	return r.session.InteractionResponseDelete(r.interaction.Interaction, discordgo.WithContext(r.ctx))
}

// buildResponse picks the interaction response type for a Response
func (r *DiscordResponder) buildResponse(response *Response) *discordgo.InteractionResponse {
	switch {
	case response.Modal != nil:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: &discordgo.InteractionResponseData{
				CustomID:   response.Modal.CustomID,
				Title:      response.Modal.Title,
				Components: response.Modal.Components,
			},
		}
	case response.Acknowledge:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}
	case response.Update:
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: r.buildResponseData(response),
		}
	}

	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: r.buildResponseData(response),
	}
}

// buildResponseData converts our Response to Discord's InteractionResponseData
func (r *DiscordResponder) buildResponseData(response *Response) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:         response.Content,
		Embeds:          response.Embeds,
		Components:      response.Components,
		AllowedMentions: response.AllowedMentions,
		TTS:             response.TTS,
	}

	if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return data
}

// buildFollowUpData converts our Response to Discord's WebhookParams
func (r *DiscordResponder) buildFollowUpData(response *Response) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{
		Content:         response.Content,
		Embeds:          response.Embeds,
		Components:      response.Components,
		AllowedMentions: response.AllowedMentions,
		TTS:             response.TTS,
	}

	if response.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}

	return params
}

// HasResponded returns whether this responder has already sent a response
func (r *DiscordResponder) HasResponded() bool {
	return r.responded
}

// IsDeferred returns whether this responder has sent a deferred response
func (r *DiscordResponder) IsDeferred() bool {
	return r.deferred
}
