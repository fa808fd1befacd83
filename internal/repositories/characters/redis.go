package characters

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// maxWriteAttempts bounds optimistic-lock retries on a contended record.
const maxWriteAttempts = 3

// redisRepo stores each character as one JSON value with set indexes per
// owner and per owner+realm.
type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = SystemClock()
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: cfg.TimeProvider,
	}
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

func (r *redisRepo) allCharactersKey() string {
	return "characters"
}

func (r *redisRepo) ownerCharactersKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

func (r *redisRepo) ownerRealmCharactersKey(ownerID, realmID string) string {
	return fmt.Sprintf("owner:%s:realm:%s:characters", ownerID, realmID)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, char *sheet.Character) error {
	if err := validateNew(char, r.timeProvider.Now()); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return alreadyExists(char.ID)
	}

	data, err := encodeRecord(char)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), string(data), 0)
	pipe.SAdd(ctx, r.allCharactersKey(), char.ID)
	pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
	pipe.SAdd(ctx, r.ownerRealmCharactersKey(char.OwnerID, char.RealmID), char.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*sheet.Character, error) {
	if id == "" {
		return nil, sheeterr.InvalidArgument("character ID is required")
	}

	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return decodeRecord(data)
}

// GetByOwner retrieves all characters for a specific owner
func (r *redisRepo) GetByOwner(ctx context.Context, ownerID string) ([]*sheet.Character, error) {
	if ownerID == "" {
		return nil, sheeterr.InvalidArgument("owner ID is required")
	}
	return r.loadSet(ctx, r.ownerCharactersKey(ownerID))
}

// GetByOwnerAndRealm retrieves all characters for a specific owner in a realm
func (r *redisRepo) GetByOwnerAndRealm(ctx context.Context, ownerID, realmID string) ([]*sheet.Character, error) {
	if ownerID == "" {
		return nil, sheeterr.InvalidArgument("owner ID is required")
	}
	return r.loadSet(ctx, r.ownerRealmCharactersKey(ownerID, realmID))
}

// loadSet fetches every character in an index set concurrently. IDs whose
// record has gone missing are skipped.
func (r *redisRepo) loadSet(ctx context.Context, setKey string) ([]*sheet.Character, error) {
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	loaded := make([]*sheet.Character, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			char, err := r.Get(gctx, id)
			if sheeterr.IsNotFound(err) {
				log.Printf("[Redis] Index %s references missing character %s", setKey, id)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get character %s: %w", id, err)
			}
			loaded[i] = char
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*sheet.Character, 0, len(loaded))
	for _, char := range loaded {
		if char != nil {
			result = append(result, char)
		}
	}
	sortByName(result)
	return result, nil
}

// ListIDs returns every stored ID in sorted order
func (r *redisRepo) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.allCharactersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Write applies dotted-path updates to the character's document
func (r *redisRepo) Write(ctx context.Context, id string, updates map[string]any) error {
	for path := range updates {
		if err := ValidatePath(path); err != nil {
			return err
		}
	}
	return r.update(ctx, id, func(data []byte) ([]byte, error) {
		return ApplyUpdates(data, updates, r.timeProvider.Now())
	})
}

// Replace overwrites the character's whole document
func (r *redisRepo) Replace(ctx context.Context, id string, system map[string]any) error {
	return r.update(ctx, id, func(data []byte) ([]byte, error) {
		return ReplaceSystem(data, system, r.timeProvider.Now())
	})
}

// update runs a read-modify-write of one record under WATCH so a concurrent
// writer forces a retry instead of a lost update.
func (r *redisRepo) update(ctx context.Context, id string, mutate func([]byte) ([]byte, error)) error {
	if id == "" {
		return sheeterr.InvalidArgument("character ID is required")
	}
	key := r.key(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return notFound(id)
		}
		if err != nil {
			return fmt.Errorf("failed to get character: %w", err)
		}

		next, err := mutate(data)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, string(next), 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			log.Printf("[Redis] Write to %s lost a race (attempt %d/%d)", key, attempt, maxWriteAttempts)
			continue
		}
		if err != nil {
			var coded *sheeterr.Error
			if errors.As(err, &coded) {
				return err
			}
			return fmt.Errorf("failed to update character: %w", err)
		}
		return nil
	}

	return sheeterr.Conflictf("character %s is being edited elsewhere, try again", id).
		WithMeta("character_id", id)
}

// Delete removes a character
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	char, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.allCharactersKey(), id)
	pipe.SRem(ctx, r.ownerCharactersKey(char.OwnerID), id)
	pipe.SRem(ctx, r.ownerRealmCharactersKey(char.OwnerID, char.RealmID), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}
