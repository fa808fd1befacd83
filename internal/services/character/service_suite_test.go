package character_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	mockchat "github.com/KirkDiggler/pgte-bot/internal/chat/mock"
	"github.com/KirkDiggler/pgte-bot/internal/dice"
	mockdice "github.com/KirkDiggler/pgte-bot/internal/dice/mock"
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	mockrepo "github.com/KirkDiggler/pgte-bot/internal/repositories/characters/mock"
	"github.com/KirkDiggler/pgte-bot/internal/services/character"
	"github.com/KirkDiggler/pgte-bot/internal/testutils"
	"github.com/KirkDiggler/pgte-bot/internal/uuid"
	mockuuid "github.com/KirkDiggler/pgte-bot/internal/uuid/mock"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

// CharacterServiceTestSuite defines the test suite for the character service
type CharacterServiceTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockRepository *mockrepo.MockRepository
	roller         *mockdice.ManualMockRoller
	sink           *chat.RecordingSink
	spans          *tracetest.SpanRecorder
	service        character.Service
	ctx            context.Context
}

// SetupTest runs before each test
func (s *CharacterServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepository = mockrepo.NewMockRepository(s.ctrl)
	s.roller = mockdice.NewManualMockRoller()
	s.sink = chat.NewRecordingSink()
	s.spans = tracetest.NewSpanRecorder()
	s.ctx = context.Background()

	s.service = character.NewService(&character.ServiceConfig{
		Repository:     s.mockRepository,
		DiceRoller:     s.roller,
		Sink:           s.sink,
		IDGenerator:    uuid.NewSequenceGenerator("char"),
		TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.spans)),
	})
}

// TearDownTest runs after each test
func (s *CharacterServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// Test suite runner
func TestCharacterServiceSuite(t *testing.T) {
	suite.Run(t, new(CharacterServiceTestSuite))
}

func (s *CharacterServiceTestSuite) lastSpan() sdktrace.ReadOnlySpan {
	ended := s.spans.Ended()
	s.Require().NotEmpty(ended)
	return ended[len(ended)-1]
}

func (s *CharacterServiceTestSuite) TestNewService_RequiresRepository() {
	s.Panics(func() { character.NewService(&character.ServiceConfig{}) })
	s.Panics(func() { character.NewService(nil) })
}

// Create

func (s *CharacterServiceTestSuite) TestCreate_Success() {
	s.mockRepository.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, char *sheet.Character) error {
			s.Equal("char-1", char.ID)
			s.Equal("u1", char.OwnerID)
			s.Equal("g1", char.RealmID)
			s.Equal("Ilse", char.Name)
			s.Equal(sheet.KindNPC, char.Kind)
			s.False(sheet.NeedsRepair(char.System))
			return nil
		})

	view, err := s.service.Create(s.ctx, &character.CreateInput{
		UserID:  "u1",
		RealmID: "g1",
		Name:    "  Ilse  ",
		Kind:    "NPC",
	})
	s.Require().NoError(err)
	s.Equal("Ilse", view.DisplayName())
	s.Equal(sheet.Default(), view.Sheet)
	s.Equal("character.Create", s.lastSpan().Name())
}

func (s *CharacterServiceTestSuite) TestCreate_Validation() {
	_, err := s.service.Create(s.ctx, &character.CreateInput{UserID: "u1", Name: " "})
	s.True(sheeterr.IsValidation(err))

	_, err = s.service.Create(s.ctx, &character.CreateInput{UserID: "u1", Name: "Ilse", Kind: "vehicle"})
	s.True(sheeterr.IsValidation(err))

	_, err = s.service.Create(s.ctx, &character.CreateInput{Name: "Ilse"})
	s.True(sheeterr.IsInvalidArgument(err))

	_, err = s.service.Create(s.ctx, nil)
	s.True(sheeterr.IsInvalidArgument(err))
}

func (s *CharacterServiceTestSuite) TestCreate_RepositoryError() {
	s.mockRepository.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(sheeterr.AlreadyExists("character already exists"))

	_, err := s.service.Create(s.ctx, &character.CreateInput{UserID: "u1", Name: "Ilse"})
	s.True(sheeterr.IsAlreadyExists(err))

	span := s.lastSpan()
	s.Equal(codes.Error, span.Status().Code)
}

func (s *CharacterServiceTestSuite) TestCreate_UsesIDGenerator() {
	ids := mockuuid.NewMockGenerator(s.ctrl)
	svc := character.NewService(&character.ServiceConfig{
		Repository:  s.mockRepository,
		IDGenerator: ids,
	})

	ids.EXPECT().New().Return("fixed-id")
	s.mockRepository.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	view, err := svc.Create(s.ctx, &character.CreateInput{UserID: "u1", Name: "Ilse"})
	s.Require().NoError(err)
	s.Equal("fixed-id", view.ID)
}

// Get and list

func (s *CharacterServiceTestSuite) TestGet_NormalizesLegacyDocument() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateLegacyCharacter("c1", "u1", "g1", "Ilse"), nil)

	view, err := s.service.Get(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(sheet.Counter{Value: 2, Max: 3}, view.Sheet.Resources.Hits.Physical)
	s.Equal(sheet.DefaultMentalHits, view.Sheet.Resources.Hits.Mental)
}

func (s *CharacterServiceTestSuite) TestGet_NotFound() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(nil, sheeterr.NotFound("character not found"))

	_, err := s.service.Get(s.ctx, "c1")
	s.True(sheeterr.IsNotFound(err))
	s.Equal("c1", sheeterr.GetMeta(err)["character_id"])
}

func (s *CharacterServiceTestSuite) TestListByOwner() {
	s.mockRepository.EXPECT().
		GetByOwner(gomock.Any(), "u1").
		Return([]*sheet.Character{
			testutils.CreateTestCharacter("c1", "u1", "g1", "Ada"),
			testutils.CreateTestCharacter("c2", "u1", "g2", "Bram"),
		}, nil)
	s.mockRepository.EXPECT().
		GetByOwnerAndRealm(gomock.Any(), "u1", "g1").
		Return([]*sheet.Character{testutils.CreateTestCharacter("c1", "u1", "g1", "Ada")}, nil)

	all, err := s.service.ListByOwner(s.ctx, "u1", "")
	s.Require().NoError(err)
	s.Len(all, 2)

	inRealm, err := s.service.ListByOwner(s.ctx, "u1", "g1")
	s.Require().NoError(err)
	s.Require().Len(inRealm, 1)
	s.Equal("Ada", inRealm[0].DisplayName())
}

// Delete

func (s *CharacterServiceTestSuite) TestDelete() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)
	s.mockRepository.EXPECT().Delete(gomock.Any(), "c1").Return(nil)

	s.NoError(s.service.Delete(s.ctx, "u1", "c1"))
}

func (s *CharacterServiceTestSuite) TestDelete_NotOwner() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	err := s.service.Delete(s.ctx, "u2", "c1")
	s.True(sheeterr.IsPermissionDenied(err))
}

// Mutations

func (s *CharacterServiceTestSuite) TestAdjustTrack_WritesClampedValue() {
	stored := testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse")
	updated := testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse")
	updated.System = testutils.CreateTestDocument().Raw()
	updated.System["resources"].(map[string]any)["hits"].(map[string]any)["physical"] = map[string]any{"value": 3, "max": 3}

	gomock.InOrder(
		s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(stored, nil),
		s.mockRepository.EXPECT().
			Write(gomock.Any(), "c1", map[string]any{"resources.hits.physical.value": 3}).
			Return(nil),
		s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(updated, nil),
	)

	view, err := s.service.AdjustTrack(s.ctx, &character.AdjustTrackInput{
		UserID:      "u1",
		CharacterID: "c1",
		Track:       sheet.TrackPhysical,
		Delta:       5,
	})
	s.Require().NoError(err)
	s.Equal(3, view.Sheet.Resources.Hits.Physical.Value)
}

func (s *CharacterServiceTestSuite) TestAdjustTrack_AtBoundSkipsWrite() {
	// Mental hits are 0 of 2; decrementing is a no-op.
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	view, err := s.service.AdjustTrack(s.ctx, &character.AdjustTrackInput{
		UserID:      "u1",
		CharacterID: "c1",
		Track:       sheet.TrackMental,
		Delta:       -1,
	})
	s.Require().NoError(err)
	s.Equal(0, view.Sheet.Resources.Hits.Mental.Value)
}

func (s *CharacterServiceTestSuite) TestAdjustTrack_NotOwner() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	_, err := s.service.AdjustTrack(s.ctx, &character.AdjustTrackInput{
		UserID:      "intruder",
		CharacterID: "c1",
		Track:       sheet.TrackTokens,
		Delta:       1,
	})
	s.True(sheeterr.IsPermissionDenied(err))
	s.Equal("intruder", sheeterr.GetMeta(err)["user_id"])
}

func (s *CharacterServiceTestSuite) TestAdjustTrack_UnknownTrack() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	_, err := s.service.AdjustTrack(s.ctx, &character.AdjustTrackInput{
		UserID:      "u1",
		CharacterID: "c1",
		Track:       "stress",
		Delta:       1,
	})
	s.True(sheeterr.IsInvalidArgument(err))
}

func (s *CharacterServiceTestSuite) TestAdjustTrack_RepairsLegacyBeforeWrite() {
	legacy := testutils.CreateLegacyCharacter("c1", "u1", "g1", "Ilse")
	repaired := sheet.Normalize(legacy.System)
	after := testutils.CreateLegacyCharacter("c1", "u1", "g1", "Ilse")
	after.System = repaired.Raw()

	gomock.InOrder(
		s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(legacy, nil),
		s.mockRepository.EXPECT().
			Replace(gomock.Any(), "c1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, system map[string]any) error {
				s.False(sheet.IsLegacyHits(system))
				s.Equal(repaired, sheet.Normalize(system))
				return nil
			}),
		s.mockRepository.EXPECT().
			Write(gomock.Any(), "c1", map[string]any{"resources.hits.physical.value": 1}).
			Return(nil),
		s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(after, nil),
	)

	_, err := s.service.AdjustTrack(s.ctx, &character.AdjustTrackInput{
		UserID:      "u1",
		CharacterID: "c1",
		Track:       sheet.TrackPhysical,
		Delta:       -1,
	})
	s.NoError(err)
}

func (s *CharacterServiceTestSuite) TestAdjustTrack_WriteConflict() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)
	s.mockRepository.EXPECT().
		Write(gomock.Any(), "c1", gomock.Any()).
		Return(sheeterr.Conflictf("character %s changed during write", "c1"))

	_, err := s.service.AdjustTrack(s.ctx, &character.AdjustTrackInput{
		UserID:      "u1",
		CharacterID: "c1",
		Track:       sheet.TrackTokens,
		Delta:       1,
	})
	s.True(sheeterr.IsConflict(err))
	s.Equal(codes.Error, s.lastSpan().Status().Code)
}

func (s *CharacterServiceTestSuite) TestClickMarker() {
	// Physical hits are 1 of 3: clicking the first marker clears it.
	stored := testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse")
	s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(stored, nil).Times(2)
	s.mockRepository.EXPECT().
		Write(gomock.Any(), "c1", map[string]any{"resources.hits.physical.value": 0}).
		Return(nil)

	_, err := s.service.ClickMarker(s.ctx, &character.ClickMarkerInput{
		UserID:      "u1",
		CharacterID: "c1",
		Track:       sheet.TrackPhysical,
		Index:       0,
	})
	s.NoError(err)
}

func (s *CharacterServiceTestSuite) TestClickMarker_OutOfRange() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil).
		Times(2)

	_, err := s.service.ClickMarker(s.ctx, &character.ClickMarkerInput{
		UserID: "u1", CharacterID: "c1", Track: sheet.TrackMental, Index: 2,
	})
	s.True(sheeterr.IsInvalidArgument(err))

	_, err = s.service.ClickMarker(s.ctx, &character.ClickMarkerInput{
		UserID: "u1", CharacterID: "c1", Track: sheet.TrackTokens, Index: 0,
	})
	s.True(sheeterr.IsInvalidArgument(err))

	_, err = s.service.ClickMarker(s.ctx, &character.ClickMarkerInput{
		UserID: "u1", CharacterID: "c1", Track: sheet.TrackPhysical, Index: -1,
	})
	s.True(sheeterr.IsInvalidArgument(err))
}

func (s *CharacterServiceTestSuite) TestAdjustQuantity_FloorsAtZero() {
	stored := testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse")
	s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(stored, nil).Times(2)
	s.mockRepository.EXPECT().
		Write(gomock.Any(), "c1", map[string]any{"equipment.item1.quantity": 0}).
		Return(nil)

	_, err := s.service.AdjustQuantity(s.ctx, &character.AdjustQuantityInput{
		UserID:      "u1",
		CharacterID: "c1",
		Slot:        "item1",
		Delta:       -5,
	})
	s.NoError(err)
}

func (s *CharacterServiceTestSuite) TestSetField() {
	stored := testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse")
	s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(stored, nil).Times(2)
	s.mockRepository.EXPECT().
		Write(gomock.Any(), "c1", map[string]any{
			"resources.hits.physical.max":   0,
			"resources.hits.physical.value": 0,
		}).
		Return(nil)

	_, err := s.service.SetField(s.ctx, &character.SetFieldInput{
		UserID:      "u1",
		CharacterID: "c1",
		Path:        "resources.hits.physical.max",
		Value:       "0",
	})
	s.NoError(err)
}

func (s *CharacterServiceTestSuite) TestSetField_UnchangedSkipsWrite() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	_, err := s.service.SetField(s.ctx, &character.SetFieldInput{
		UserID:      "u1",
		CharacterID: "c1",
		Path:        "stats.Violence.value",
		Value:       "D8",
	})
	s.NoError(err)
}

func (s *CharacterServiceTestSuite) TestSetField_Rejected() {
	_, err := s.service.SetField(s.ctx, &character.SetFieldInput{
		UserID: "u1", CharacterID: "c1", Path: "stats.violence.label", Value: "x",
	})
	s.True(sheeterr.IsInvalidArgument(err))

	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	_, err = s.service.SetField(s.ctx, &character.SetFieldInput{
		UserID: "u1", CharacterID: "c1", Path: "stats.body.value", Value: "d7",
	})
	s.True(sheeterr.IsValidation(err))
}

// Roll

func (s *CharacterServiceTestSuite) TestRoll_PostsMessage() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)
	s.roller.SetNextRoll(7)

	out, err := s.service.Roll(s.ctx, &character.RollInput{
		UserID:      "someone-else",
		CharacterID: "c1",
		ChannelID:   "chan",
		Request:     sheet.RollRequest{Kind: sheet.RollStat, Key: "violence"},
	})
	s.Require().NoError(err)
	s.Equal(sheet.D8, out.Plan.Die)
	s.Equal(7, out.Result.Total)

	msg := s.sink.Last()
	s.Require().NotNil(msg)
	s.Equal("Ilse", msg.Speaker)
	s.Equal("someone-else", msg.RolledBy)
	s.Equal("1d8", msg.Formula)
	s.Equal([]int{7}, msg.Rolls)
	s.Equal(out.Plan.Flavor, msg.Flavor)
}

func (s *CharacterServiceTestSuite) TestRoll_NoDieRollsNothing() {
	// Bonus die slot 2 has no die size.
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	_, err := s.service.Roll(s.ctx, &character.RollInput{
		UserID:      "u1",
		CharacterID: "c1",
		Request:     sheet.RollRequest{Kind: sheet.RollExtra, Key: "item2"},
	})
	s.True(sheeterr.IsValidation(err))
	s.Empty(s.sink.Messages())
}

func (s *CharacterServiceTestSuite) TestRoll_SinkError() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)
	s.roller.SetNextRoll(3)

	sink := mockchat.NewMockSink(s.ctrl)
	sink.EXPECT().
		Post(gomock.Any(), "chan", gomock.Any()).
		Return(errors.New("channel gone"))

	svc := character.NewService(&character.ServiceConfig{
		Repository: s.mockRepository,
		DiceRoller: s.roller,
		Sink:       sink,
	})

	_, err := svc.Roll(s.ctx, &character.RollInput{
		UserID:      "u1",
		CharacterID: "c1",
		ChannelID:   "chan",
		Request:     sheet.RollRequest{Kind: sheet.RollStoryDie},
	})
	s.Error(err)
}

func (s *CharacterServiceTestSuite) TestRoll_RollsOneDieOfTheSlotSize() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	roller := mockdice.NewMockRoller(s.ctrl)
	roller.EXPECT().
		Roll(1, 8, 0).
		Return(&dice.RollResult{Total: 5, Rolls: []int{5}, Count: 1, Sides: 8, RawTotal: 5}, nil)

	svc := character.NewService(&character.ServiceConfig{
		Repository: s.mockRepository,
		DiceRoller: roller,
		Sink:       s.sink,
	})

	out, err := svc.Roll(s.ctx, &character.RollInput{
		UserID:      "u1",
		CharacterID: "c1",
		Request:     sheet.RollRequest{Kind: sheet.RollStat, Key: "violence"},
	})
	s.Require().NoError(err)
	s.Equal(5, out.Message.Total)
}

func (s *CharacterServiceTestSuite) TestRoll_RollerError() {
	s.mockRepository.EXPECT().
		Get(gomock.Any(), "c1").
		Return(testutils.CreateTestCharacter("c1", "u1", "g1", "Ilse"), nil)

	roller := mockdice.NewMockRoller(s.ctrl)
	roller.EXPECT().Roll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no entropy"))

	svc := character.NewService(&character.ServiceConfig{
		Repository: s.mockRepository,
		DiceRoller: roller,
		Sink:       s.sink,
	})

	_, err := svc.Roll(s.ctx, &character.RollInput{
		UserID:      "u1",
		CharacterID: "c1",
		Request:     sheet.RollRequest{Kind: sheet.RollStoryDie},
	})
	s.Error(err)
	s.Empty(s.sink.Messages())
}

// Migrate

func (s *CharacterServiceTestSuite) TestMigrate() {
	s.mockRepository.EXPECT().ListIDs(gomock.Any()).Return([]string{"c1", "c2", "c3", "c4"}, nil)
	s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(testutils.CreateTestCharacter("c1", "u1", "", "A"), nil)
	s.mockRepository.EXPECT().Get(gomock.Any(), "c2").Return(testutils.CreateLegacyCharacter("c2", "u1", "", "B"), nil)
	s.mockRepository.EXPECT().Get(gomock.Any(), "c3").Return(nil, sheeterr.NotFound("gone"))
	s.mockRepository.EXPECT().Get(gomock.Any(), "c4").Return(testutils.CreateLegacyCharacter("c4", "u1", "", "D"), nil)
	s.mockRepository.EXPECT().Replace(gomock.Any(), "c2", gomock.Any()).Return(nil)
	s.mockRepository.EXPECT().Replace(gomock.Any(), "c4", gomock.Any()).Return(errors.New("disk full"))

	out, err := s.service.Migrate(s.ctx, &character.MigrateInput{})
	s.Require().NoError(err)
	s.Equal(4, out.Checked)
	s.Equal([]string{"c2"}, out.Repaired)
	s.Len(out.Failed, 1)
	s.Contains(out.Failed, "c4")
}

func (s *CharacterServiceTestSuite) TestMigrate_DryRun() {
	s.mockRepository.EXPECT().ListIDs(gomock.Any()).Return([]string{"c1"}, nil)
	s.mockRepository.EXPECT().Get(gomock.Any(), "c1").Return(testutils.CreateLegacyCharacter("c1", "u1", "", "A"), nil)

	out, err := s.service.Migrate(s.ctx, &character.MigrateInput{DryRun: true})
	s.Require().NoError(err)
	s.Equal([]string{"c1"}, out.Repaired)
}
