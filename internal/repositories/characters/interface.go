package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
)

// Repository persists character records. The sheet document is stored as-is;
// callers normalize on read.
type Repository interface {
	// Create stores a new character
	Create(ctx context.Context, character *sheet.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*sheet.Character, error)

	// GetByOwner retrieves all characters for a specific owner
	GetByOwner(ctx context.Context, ownerID string) ([]*sheet.Character, error)

	// GetByOwnerAndRealm retrieves all characters for a specific owner in a realm
	GetByOwnerAndRealm(ctx context.Context, ownerID, realmID string) ([]*sheet.Character, error)

	// ListIDs returns the IDs of every stored character
	ListIDs(ctx context.Context) ([]string, error)

	// Write applies dotted-path updates to the character's document
	Write(ctx context.Context, id string, updates map[string]any) error

	// Replace overwrites the character's whole document
	Replace(ctx context.Context, id string, system map[string]any) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error
}

// TimeProvider supplies record timestamps.
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall-clock TimeProvider.
func SystemClock() TimeProvider { return systemClock{} }
