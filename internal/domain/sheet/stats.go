package sheet

import "strings"

// StatKey identifies one of the six fixed stats.
type StatKey string

const (
	StatSorcery  StatKey = "sorcery"
	StatLies     StatKey = "lies"
	StatViolence StatKey = "violence"
	StatBody     StatKey = "body"
	StatMind     StatKey = "mind"
	StatHeart    StatKey = "heart"
)

// StatKeys is the canonical display order.
var StatKeys = []StatKey{StatSorcery, StatLies, StatViolence, StatBody, StatMind, StatHeart}

type statText struct {
	label string
	uses  string
}

var canonicalStats = map[StatKey]statText{
	StatSorcery:  {label: "SORCERY", uses: "magical ability, arcane knowledge"},
	StatLies:     {label: "LIES", uses: "stealth, flattery, charisma, deception"},
	StatViolence: {label: "VIOLENCE", uses: "combat, hitting, physical threats"},
	StatBody:     {label: "BODY", uses: "endurance, agility, strength"},
	StatMind:     {label: "MIND", uses: "knowledge, quick-thinking, investigation"},
	StatHeart:    {label: "HEART", uses: "insight, foresight, people skills"},
}

// CanonicalLabel returns the fixed label for a stat key.
func CanonicalLabel(key StatKey) string {
	return canonicalStats[key].label
}

// CanonicalUses returns the fixed uses text for a stat key.
func CanonicalUses(key StatKey) string {
	return canonicalStats[key].uses
}

// ParseStatKey accepts a stat key in any case.
func ParseStatKey(s string) (StatKey, bool) {
	key := StatKey(strings.ToLower(strings.TrimSpace(s)))
	_, ok := canonicalStats[key]
	return key, ok
}

// Slot keys for the three-slot sections.
var (
	AspectSlots = []string{"aspect1", "aspect2", "aspect3"}
	ItemSlots   = []string{"item1", "item2", "item3"}
)

// ParseDieSize normalizes user input such as "D6", " d6 ", "6" or "1d6".
func ParseDieSize(s string) (DieSize, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "1d")
	if !strings.HasPrefix(s, "d") {
		s = "d" + s
	}
	die := DieSize(s)
	return die, die.IsRollable()
}
