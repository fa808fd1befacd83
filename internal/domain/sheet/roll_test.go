package sheet_test

import (
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rollDoc() *sheet.Document {
	doc := sheet.Default()
	doc.Stats[sheet.StatViolence] = sheet.Stat{Value: sheet.D10, Label: "VIOLENCE"}
	doc.Stats[sheet.StatLies] = sheet.Stat{Value: "lots", Label: "LIES"}
	doc.Resources.StoryDie.Value = sheet.D6
	doc.Aspects["aspect1"] = sheet.Aspect{Name: "Oathbound", FirstUse: true}
	doc.BonusDice["item1"] = sheet.BonusDie{Name: "Lucky Coin", Die: sheet.D8}
	doc.BonusDice["item2"] = sheet.BonusDie{Die: sheet.D12}
	return doc
}

func TestPlanRoll(t *testing.T) {
	tests := []struct {
		name   string
		req    sheet.RollRequest
		die    sheet.DieSize
		sides  int
		flavor string
	}{
		{
			name: "stat", req: sheet.RollRequest{Kind: sheet.RollStat, Key: "Violence"},
			die: sheet.D10, sides: 10, flavor: "Rolling VIOLENCE: d10",
		},
		{
			name: "aspect uses story die", req: sheet.RollRequest{Kind: sheet.RollAspect, Key: "aspect1", Type: "passive"},
			die: sheet.D6, sides: 6, flavor: "**Oathbound** (passive)",
		},
		{
			name: "aspect with explicit die", req: sheet.RollRequest{Kind: sheet.RollAspect, Key: "aspect1", Type: "ACTIVE", Die: sheet.D20},
			die: sheet.D20, sides: 20, flavor: "**Oathbound** (active)",
		},
		{
			name: "unnamed aspect", req: sheet.RollRequest{Kind: sheet.RollAspect, Key: "aspect3", Type: "active"},
			die: sheet.D6, sides: 6, flavor: "**Aspect** (active)",
		},
		{
			name: "story die", req: sheet.RollRequest{Kind: sheet.RollStoryDie},
			die: sheet.D6, sides: 6, flavor: "Rolling Story Die: d6",
		},
		{
			name: "named extra", req: sheet.RollRequest{Kind: sheet.RollExtra, Key: "item1"},
			die: sheet.D8, sides: 8, flavor: "Lucky Coin: Extra d8 Roll",
		},
		{
			name: "unnamed extra", req: sheet.RollRequest{Kind: sheet.RollExtra, Key: "item2"},
			die: sheet.D12, sides: 12, flavor: "Extra d12 Roll",
		},
		{
			name: "pattern of three", req: sheet.RollRequest{Kind: sheet.RollPatternOfThree},
			die: sheet.D6, sides: 6, flavor: "Pattern of Three: Story Die",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := rollDoc().PlanRoll(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.die, plan.Die)
			assert.Equal(t, tt.sides, plan.Sides)
			assert.Equal(t, tt.flavor, plan.Flavor)
			assert.Equal(t, "1"+string(tt.die), plan.Formula())
		})
	}
}

func TestPlanRoll_StoryDieFallsBackToD4(t *testing.T) {
	doc := sheet.Default()
	doc.Resources.StoryDie.Value = ""

	plan, err := doc.PlanRoll(sheet.RollRequest{Kind: sheet.RollStoryDie})
	require.NoError(t, err)
	assert.Equal(t, sheet.D4, plan.Die)
}

func TestPlanRoll_NoDieIsValidationError(t *testing.T) {
	doc := rollDoc()

	_, err := doc.PlanRoll(sheet.RollRequest{Kind: sheet.RollExtra, Key: "item3"})
	assert.True(t, sheeterr.IsValidation(err))
	assert.Contains(t, err.Error(), "No die size set")

	_, err = doc.PlanRoll(sheet.RollRequest{Kind: sheet.RollStat, Key: "lies"})
	assert.True(t, sheeterr.IsValidation(err))
	assert.Equal(t, "lots", sheeterr.GetMeta(err)["die"])
}

func TestPlanRoll_UnknownTargets(t *testing.T) {
	doc := rollDoc()

	for _, req := range []sheet.RollRequest{
		{Kind: sheet.RollStat, Key: "luck"},
		{Kind: sheet.RollAspect, Key: "aspect9", Type: "active"},
		{Kind: sheet.RollAspect, Key: "aspect1", Type: "sideways"},
		{Kind: sheet.RollExtra, Key: "item4"},
		{Kind: "initiative"},
	} {
		_, err := doc.PlanRoll(req)
		assert.True(t, sheeterr.IsInvalidArgument(err), "%+v", req)
	}
}
