package services

import (
	"context"
	"fmt"
	"log"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	"github.com/KirkDiggler/pgte-bot/internal/config"
	"github.com/KirkDiggler/pgte-bot/internal/dice"
	"github.com/KirkDiggler/pgte-bot/internal/repositories/characters"
	characterService "github.com/KirkDiggler/pgte-bot/internal/services/character"
	"github.com/KirkDiggler/pgte-bot/internal/uuid"
	"github.com/redis/go-redis/v9"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	CharacterRepository characters.Repository
	DiceRoller          dice.Roller
	ChatSink            chat.Sink
	IDGenerator         uuid.Generator
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	// Use in-memory repository if none provided
	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	charService := characterService.NewService(&characterService.ServiceConfig{
		Repository:  charRepo,
		DiceRoller:  cfg.DiceRoller,
		Sink:        cfg.ChatSink,
		IDGenerator: cfg.IDGenerator,
	})

	return &Provider{
		CharacterService: charService,
	}
}

// OpenRepository connects the configured character store. The returned close
// function releases its connections.
func OpenRepository(ctx context.Context, cfg *config.StorageConfig) (characters.Repository, func() error, error) {
	noop := func() error { return nil }
	if cfg == nil {
		return characters.NewInMemoryRepository(), noop, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Printf("[Storage] Using Redis at %s (db %d)", opts.Addr, opts.DB)
		return characters.NewRedis(client), client.Close, nil

	case config.BackendSQLite:
		repo, err := characters.OpenSQLite(cfg.SQLitePath, characters.SystemClock())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite store: %w", err)
		}
		log.Printf("[Storage] Using SQLite at %s", cfg.SQLitePath)
		return repo, repo.Close, nil
	}

	log.Println("[Storage] Using in-memory store; characters are lost on restart")
	return characters.NewInMemoryRepository(), noop, nil
}
