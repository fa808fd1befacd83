package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharacter -source=service.go

import (
	"context"
	"log"
	"strings"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	"github.com/KirkDiggler/pgte-bot/internal/dice"
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"github.com/KirkDiggler/pgte-bot/internal/repositories/characters"
	"github.com/KirkDiggler/pgte-bot/internal/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Repository is an alias for the character repository interface
type Repository = characters.Repository

const tracerName = "github.com/KirkDiggler/pgte-bot/internal/services/character"

// MaxNameLength bounds character names.
const MaxNameLength = 100

// Service defines the character sheet service interface
type Service interface {
	// Create registers a new character with a default sheet
	Create(ctx context.Context, input *CreateInput) (*sheet.View, error)

	// Get loads a character and normalizes its sheet
	Get(ctx context.Context, characterID string) (*sheet.View, error)

	// ListByOwner lists a user's characters, optionally limited to one realm
	ListByOwner(ctx context.Context, ownerID, realmID string) ([]*sheet.View, error)

	// Delete removes a character the user owns
	Delete(ctx context.Context, userID, characterID string) error

	// AdjustTrack steps a hit track or the token pool by delta
	AdjustTrack(ctx context.Context, input *AdjustTrackInput) (*sheet.View, error)

	// ClickMarker applies a marker click to a hit track
	ClickMarker(ctx context.Context, input *ClickMarkerInput) (*sheet.View, error)

	// AdjustQuantity steps an equipment slot's quantity by delta
	AdjustQuantity(ctx context.Context, input *AdjustQuantityInput) (*sheet.View, error)

	// SetField parses and stores one editable field
	SetField(ctx context.Context, input *SetFieldInput) (*sheet.View, error)

	// Roll rolls a sheet die and posts the result
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)

	// Migrate rewrites every stored sheet that is not in normalized form
	Migrate(ctx context.Context, input *MigrateInput) (*MigrateOutput, error)
}

// CreateInput contains the data needed to register a character
type CreateInput struct {
	UserID  string
	RealmID string
	Name    string
	Kind    sheet.Kind
}

// AdjustTrackInput steps a track
type AdjustTrackInput struct {
	UserID      string
	CharacterID string
	Track       sheet.Track
	Delta       int
}

// ClickMarkerInput clicks the marker at Index (0-based) on a track
type ClickMarkerInput struct {
	UserID      string
	CharacterID string
	Track       sheet.Track
	Index       int
}

// AdjustQuantityInput steps an equipment slot
type AdjustQuantityInput struct {
	UserID      string
	CharacterID string
	Slot        string
	Delta       int
}

// SetFieldInput sets a dotted-path field from user text
type SetFieldInput struct {
	UserID      string
	CharacterID string
	Path        string
	Value       string
}

// RollInput selects a roll on a character's sheet
type RollInput struct {
	UserID      string
	UserName    string // shown on the chat message; UserID when empty
	CharacterID string
	ChannelID   string
	Request     sheet.RollRequest
}

// RollOutput is the outcome of a roll
type RollOutput struct {
	View    *sheet.View
	Plan    sheet.RollPlan
	Result  *dice.RollResult
	Message *chat.Message
}

// MigrateInput configures a migration pass
type MigrateInput struct {
	// DryRun reports what would change without writing
	DryRun bool
}

// MigrateOutput summarizes a migration pass
type MigrateOutput struct {
	Checked  int
	Repaired []string
	Failed   map[string]error
}

// service implements the Service interface
type service struct {
	repository Repository
	roller     dice.Roller
	sink       chat.Sink
	ids        uuid.Generator
	tracer     trace.Tracer
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository  Repository     // Required
	DiceRoller  dice.Roller    // Optional, defaults to a random roller
	Sink        chat.Sink      // Optional, defaults to the process log
	IDGenerator uuid.Generator // Optional, defaults to random UUIDs

	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// NewService creates a new character sheet service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository: cfg.Repository,
		roller:     cfg.DiceRoller,
		sink:       cfg.Sink,
		ids:        cfg.IDGenerator,
	}
	if cfg.TracerProvider != nil {
		svc.tracer = cfg.TracerProvider.Tracer(tracerName)
	} else {
		svc.tracer = otel.Tracer(tracerName)
	}
	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.sink == nil {
		svc.sink = chat.LogSink{}
	}
	if svc.ids == nil {
		svc.ids = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

// startSpan opens a span named after the operation.
func (s *service) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "character."+op, trace.WithAttributes(attrs...))
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.code", string(sheeterr.GetCode(err))))
	}
	span.End()
}

// Create registers a new character with a default sheet
func (s *service) Create(ctx context.Context, input *CreateInput) (view *sheet.View, err error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer func() { endSpan(span, err) }()

	if input == nil {
		return nil, sheeterr.InvalidArgument("input is required")
	}
	if input.UserID == "" {
		return nil, sheeterr.InvalidArgument("user ID is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, sheeterr.Validation("character name is required")
	}
	if len(name) > MaxNameLength {
		return nil, sheeterr.Validationf("character name is limited to %d characters", MaxNameLength)
	}

	kind, ok := sheet.ParseKind(string(input.Kind))
	if !ok {
		return nil, sheeterr.Validationf("unknown sheet kind %q", input.Kind)
	}

	char := &sheet.Character{
		ID:      s.ids.New(),
		OwnerID: input.UserID,
		RealmID: input.RealmID,
		Name:    name,
		Kind:    kind,
		System:  sheet.Default().Raw(),
	}
	span.SetAttributes(attribute.String("character.id", char.ID))

	if err := s.repository.Create(ctx, char); err != nil {
		return nil, sheeterr.Wrap(err, "failed to create character")
	}

	log.Printf("[Sheet] Created %s %s (%s) for %s", kind, char.Name, char.ID, char.OwnerID)
	return sheet.NewView(char), nil
}

// Get loads a character and normalizes its sheet
func (s *service) Get(ctx context.Context, characterID string) (view *sheet.View, err error) {
	ctx, span := s.startSpan(ctx, "Get", attribute.String("character.id", characterID))
	defer func() { endSpan(span, err) }()

	char, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, sheeterr.Wrapf(err, "failed to get character '%s'", characterID).
			WithMeta("character_id", characterID)
	}
	return sheet.NewView(char), nil
}

// ListByOwner lists a user's characters, optionally limited to one realm
func (s *service) ListByOwner(ctx context.Context, ownerID, realmID string) (views []*sheet.View, err error) {
	ctx, span := s.startSpan(ctx, "ListByOwner",
		attribute.String("owner.id", ownerID),
		attribute.String("realm.id", realmID))
	defer func() { endSpan(span, err) }()

	var chars []*sheet.Character
	if realmID == "" {
		chars, err = s.repository.GetByOwner(ctx, ownerID)
	} else {
		chars, err = s.repository.GetByOwnerAndRealm(ctx, ownerID, realmID)
	}
	if err != nil {
		return nil, sheeterr.Wrap(err, "failed to list characters")
	}

	views = make([]*sheet.View, 0, len(chars))
	for _, char := range chars {
		views = append(views, sheet.NewView(char))
	}
	return views, nil
}

// Delete removes a character the user owns
func (s *service) Delete(ctx context.Context, userID, characterID string) (err error) {
	ctx, span := s.startSpan(ctx, "Delete", attribute.String("character.id", characterID))
	defer func() { endSpan(span, err) }()

	if _, err := s.loadOwned(ctx, userID, characterID); err != nil {
		return err
	}
	if err := s.repository.Delete(ctx, characterID); err != nil {
		return sheeterr.Wrapf(err, "failed to delete character '%s'", characterID)
	}

	log.Printf("[Sheet] Deleted character %s for %s", characterID, userID)
	return nil
}

// loadOwned fetches a character and checks that userID may modify it.
func (s *service) loadOwned(ctx context.Context, userID, characterID string) (*sheet.Character, error) {
	if characterID == "" {
		return nil, sheeterr.InvalidArgument("character ID is required")
	}

	char, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, sheeterr.Wrapf(err, "failed to get character '%s'", characterID).
			WithMeta("character_id", characterID)
	}
	if !char.IsOwnedBy(userID) {
		return nil, sheeterr.PermissionDeniedf("only the owner can change %s", sheet.NewView(char).DisplayName()).
			WithMeta("character_id", characterID).
			WithMeta("user_id", userID)
	}
	return char, nil
}
