package sheet

import (
	"strings"
	"time"
)

// Kind is the actor type a sheet is registered for.
type Kind string

const (
	KindCharacter Kind = "character"
	KindNPC       Kind = "npc"
)

// Kinds lists the kinds the sheet applies to.
var Kinds = []Kind{KindCharacter, KindNPC}

// SheetLabel is the display name of the sheet.
const SheetLabel = "PGTE Character Sheet"

// ParseKind accepts a kind in any case; empty input means a character.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindCharacter:
		return KindCharacter, true
	case KindNPC:
		return KindNPC, true
	}
	return "", false
}

// Character is a stored record. System holds the raw, possibly partial or
// legacy document exactly as persisted.
type Character struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	RealmID   string         `json:"realm_id"`
	Name      string         `json:"name"`
	Kind      Kind           `json:"kind"`
	System    map[string]any `json:"system"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsOwnedBy reports whether userID may modify the character.
func (c *Character) IsOwnedBy(userID string) bool {
	return c != nil && c.OwnerID != "" && c.OwnerID == userID
}

// View pairs a record with its normalized document.
type View struct {
	*Character
	Sheet *Document
}

// NewView normalizes the record's document.
func NewView(c *Character) *View {
	return &View{Character: c, Sheet: Normalize(c.System)}
}

// DisplayName is the record name, falling back to the profile's personal name.
func (v *View) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	if v.Sheet.Profile.PersonalName != "" {
		return v.Sheet.Profile.PersonalName
	}
	return "Unnamed"
}
