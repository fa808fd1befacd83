// Package sheet holds the PGTE character document and the pure functions that
// turn a stored (possibly partial or legacy) document into the view-model the
// bot renders, plus the bounded counter logic used by every +/- and marker click.
//
// Nothing in this package performs I/O. Callers read a raw document from a
// store, call Normalize, and hand any computed values back to the store.
package sheet

import (
	"encoding/json"
)

// DieSize is a die-face code such as "d6". Stored documents may hold free text;
// only the values in DieSizes are rollable.
type DieSize string

const (
	D4  DieSize = "d4"
	D6  DieSize = "d6"
	D8  DieSize = "d8"
	D10 DieSize = "d10"
	D12 DieSize = "d12"
	D20 DieSize = "d20"
)

// DefaultDie is used for synthesized stats and the story die.
const DefaultDie = D4

// DieSizes lists the rollable die sizes in ascending order.
var DieSizes = []DieSize{D4, D6, D8, D10, D12, D20}

var dieSides = map[DieSize]int{
	D4:  4,
	D6:  6,
	D8:  8,
	D10: 10,
	D12: 12,
	D20: 20,
}

// Sides returns the face count for a rollable die size.
func (d DieSize) Sides() (int, bool) {
	sides, ok := dieSides[d]
	return sides, ok
}

// IsRollable reports whether the die size is one the roller understands.
func (d DieSize) IsRollable() bool {
	_, ok := dieSides[d]
	return ok
}

func (d DieSize) String() string {
	return string(d)
}

// Stat is one of the six fixed attributes. Label and Uses are derived from
// the canonical table on every normalization pass.
type Stat struct {
	Value DieSize `json:"value"`
	Label string  `json:"label"`
	Uses  string  `json:"uses"`
}

// Counter is a bounded value such as a hit track.
type Counter struct {
	Value int `json:"value"`
	Max   int `json:"max"`
}

// Hits holds the two hit tracks.
type Hits struct {
	Physical Counter `json:"physical"`
	Mental   Counter `json:"mental"`
}

// DieValue wraps a single die size, matching the stored shape {value: "d6"}.
type DieValue struct {
	Value DieSize `json:"value"`
}

// Tokens is the story token pool.
type Tokens struct {
	Value int `json:"value"`
}

// Resources groups the narrative currencies and hit tracks.
type Resources struct {
	StoryDie    DieValue `json:"storyDie"`
	Hits        Hits     `json:"hits"`
	StoryTokens Tokens   `json:"storyTokens"`
}

// Aspect is a named trait slot.
type Aspect struct {
	Name     string `json:"name"`
	Nature   string `json:"nature"`
	Passive  string `json:"passive"`
	Active   string `json:"active"`
	FirstUse bool   `json:"firstUse"`
}

// BonusDie is an extra die granted by an item or circumstance.
type BonusDie struct {
	Name string  `json:"name"`
	Die  DieSize `json:"die"`
}

// Item is an equipment slot.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Notes is free text attached to the sheet.
type Notes struct {
	PatternOfThree string `json:"patternOfThree"`
}

// Profile carries the character's personal name and archetype line.
type Profile struct {
	PersonalName string `json:"personalName"`
	Archetype    string `json:"archetype"`
}

// Document is the fully normalized character document.
type Document struct {
	Stats     map[StatKey]Stat    `json:"stats"`
	Resources Resources           `json:"resources"`
	Aspects   map[string]Aspect   `json:"aspects"`
	BonusDice map[string]BonusDie `json:"bonusDice"`
	Equipment map[string]Item     `json:"equipment"`
	Notes     Notes               `json:"notes"`
	Profile   Profile             `json:"profile"`
}

// Raw converts the document back to the JSON-like map shape stores persist.
func (d *Document) Raw() map[string]any {
	data, err := json.Marshal(d)
	if err != nil {
		// Document only contains strings, ints and bools.
		panic(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		panic(err)
	}
	return raw
}

// Stat returns the stat for key; the zero Stat is returned for unknown keys.
func (d *Document) Stat(key StatKey) Stat {
	return d.Stats[key]
}
