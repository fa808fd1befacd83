package character

import (
	"context"
	"log"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"go.opentelemetry.io/otel/attribute"
)

// Roll rolls a sheet die and posts the result. Anyone may roll from a sheet;
// the message records who pressed the button.
func (s *service) Roll(ctx context.Context, input *RollInput) (output *RollOutput, err error) {
	if input == nil {
		return nil, sheeterr.InvalidArgument("input is required")
	}
	ctx, span := s.startSpan(ctx, "Roll",
		attribute.String("character.id", input.CharacterID),
		attribute.String("roll.kind", string(input.Request.Kind)),
		attribute.String("roll.key", input.Request.Key))
	defer func() { endSpan(span, err) }()

	char, err := s.repository.Get(ctx, input.CharacterID)
	if err != nil {
		return nil, sheeterr.Wrapf(err, "failed to get character '%s'", input.CharacterID).
			WithMeta("character_id", input.CharacterID)
	}
	view := sheet.NewView(char)

	plan, err := view.Sheet.PlanRoll(input.Request)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("roll.die", string(plan.Die)))

	result, err := s.roller.Roll(1, plan.Sides, 0)
	if err != nil {
		return nil, sheeterr.Wrapf(err, "failed to roll %s", plan.Formula())
	}

	rolledBy := input.UserName
	if rolledBy == "" {
		rolledBy = input.UserID
	}
	msg := &chat.Message{
		Speaker:  view.DisplayName(),
		RolledBy: rolledBy,
		Flavor:   plan.Flavor,
		Formula:  plan.Formula(),
		Rolls:    result.Rolls,
		Total:    result.Total,
	}
	if err := s.sink.Post(ctx, input.ChannelID, msg); err != nil {
		return nil, sheeterr.Wrap(err, "failed to post roll").
			WithMeta("channel_id", input.ChannelID)
	}

	log.Printf("[Sheet] %s rolled %s for %s: %d", input.UserID, plan.Formula(), view.DisplayName(), result.Total)
	return &RollOutput{
		View:    view,
		Plan:    plan,
		Result:  result,
		Message: msg,
	}, nil
}
