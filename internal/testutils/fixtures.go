package testutils

import (
	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
)

// CreateTestCharacter creates a character record with a fully populated,
// already normalized document.
func CreateTestCharacter(id, ownerID, realmID, name string) *sheet.Character {
	return &sheet.Character{
		ID:      id,
		OwnerID: ownerID,
		RealmID: realmID,
		Name:    name,
		Kind:    sheet.KindCharacter,
		System:  CreateTestDocument().Raw(),
	}
}

// CreateLegacyCharacter creates a character whose document still uses the
// single flat hits counter.
func CreateLegacyCharacter(id, ownerID, realmID, name string) *sheet.Character {
	return &sheet.Character{
		ID:      id,
		OwnerID: ownerID,
		RealmID: realmID,
		Name:    name,
		Kind:    sheet.KindCharacter,
		System:  CreateLegacyDocument(2, 3),
	}
}

// CreateLegacyDocument returns a raw document in the pre-split hits shape.
func CreateLegacyDocument(value, maximum int) map[string]any {
	return map[string]any{
		"stats": map[string]any{
			"violence": map[string]any{"value": "d8"},
		},
		"resources": map[string]any{
			"storyDie": map[string]any{"value": "d6"},
			"hits":     map[string]any{"value": value, "max": maximum},
		},
	}
}

// CreateTestDocument returns a sheet with every section filled in.
func CreateTestDocument() *sheet.Document {
	doc := sheet.Default()

	doc.Stats[sheet.StatViolence] = sheet.Stat{
		Value: sheet.D8,
		Label: sheet.CanonicalLabel(sheet.StatViolence),
		Uses:  sheet.CanonicalUses(sheet.StatViolence),
	}
	doc.Stats[sheet.StatHeart] = sheet.Stat{
		Value: sheet.D10,
		Label: sheet.CanonicalLabel(sheet.StatHeart),
		Uses:  sheet.CanonicalUses(sheet.StatHeart),
	}

	doc.Resources.StoryDie.Value = sheet.D6
	doc.Resources.Hits.Physical = sheet.Counter{Value: 1, Max: 3}
	doc.Resources.Hits.Mental = sheet.Counter{Value: 0, Max: 2}
	doc.Resources.StoryTokens.Value = 2

	doc.Aspects["aspect1"] = sheet.Aspect{
		Name:     "Silver Tongue",
		Nature:   "Gift",
		Passive:  "Strangers assume good faith.",
		Active:   "Talk past a locked door.",
		FirstUse: true,
	}
	doc.BonusDice["item1"] = sheet.BonusDie{Name: "Lucky Coin", Die: sheet.D6}
	doc.Equipment["item1"] = sheet.Item{Name: "Rope", Quantity: 2}

	doc.Notes.PatternOfThree = "Three crows, three bells, three lies."
	doc.Profile = sheet.Profile{PersonalName: "Ilse Varn", Archetype: "The Liar"}

	return doc
}
