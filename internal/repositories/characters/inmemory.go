package characters

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
)

// InMemoryRepository keeps encoded records in a map. Useful for tests and
// local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
	clock   TimeProvider
}

// NewInMemoryRepository creates an empty in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return NewInMemoryRepositoryWithClock(SystemClock())
}

// NewInMemoryRepositoryWithClock creates an in-memory repository that stamps
// records with clock.
func NewInMemoryRepositoryWithClock(clock TimeProvider) *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string][]byte),
		clock:   clock,
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(ctx context.Context, char *sheet.Character) error {
	if err := validateNew(char, r.clock.Now()); err != nil {
		return err
	}

	data, err := encodeRecord(char)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[char.ID]; exists {
		return alreadyExists(char.ID)
	}
	r.records[char.ID] = data
	return nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*sheet.Character, error) {
	if id == "" {
		return nil, sheeterr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	data, exists := r.records[id]
	r.mu.RUnlock()

	if !exists {
		return nil, notFound(id)
	}
	return decodeRecord(data)
}

// GetByOwner retrieves all characters for a specific owner
func (r *InMemoryRepository) GetByOwner(ctx context.Context, ownerID string) ([]*sheet.Character, error) {
	if ownerID == "" {
		return nil, sheeterr.InvalidArgument("owner ID is required")
	}
	return r.filter(func(owner, _ string) bool { return owner == ownerID })
}

// GetByOwnerAndRealm retrieves all characters for a specific owner in a realm
func (r *InMemoryRepository) GetByOwnerAndRealm(ctx context.Context, ownerID, realmID string) ([]*sheet.Character, error) {
	if ownerID == "" {
		return nil, sheeterr.InvalidArgument("owner ID is required")
	}
	return r.filter(func(owner, realm string) bool { return owner == ownerID && realm == realmID })
}

func (r *InMemoryRepository) filter(match func(ownerID, realmID string) bool) ([]*sheet.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*sheet.Character
	for _, data := range r.records {
		if !match(recordOwner(data)) {
			continue
		}
		char, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		result = append(result, char)
	}
	sortByName(result)
	return result, nil
}

// ListIDs returns every stored ID in sorted order
func (r *InMemoryRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Write applies dotted-path updates to the character's document
func (r *InMemoryRepository) Write(ctx context.Context, id string, updates map[string]any) error {
	return r.update(id, func(data []byte) ([]byte, error) {
		return ApplyUpdates(data, updates, r.clock.Now())
	})
}

// Replace overwrites the character's whole document
func (r *InMemoryRepository) Replace(ctx context.Context, id string, system map[string]any) error {
	return r.update(id, func(data []byte) ([]byte, error) {
		return ReplaceSystem(data, system, r.clock.Now())
	})
}

func (r *InMemoryRepository) update(id string, mutate func([]byte) ([]byte, error)) error {
	if id == "" {
		return sheeterr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.records[id]
	if !exists {
		return notFound(id)
	}

	next, err := mutate(data)
	if err != nil {
		return err
	}
	r.records[id] = next
	return nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return sheeterr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return notFound(id)
	}
	delete(r.records, id)
	return nil
}
