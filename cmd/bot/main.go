package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/KirkDiggler/pgte-bot/internal/chat"
	"github.com/KirkDiggler/pgte-bot/internal/config"
	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
	"github.com/KirkDiggler/pgte-bot/internal/discord/middleware"
	"github.com/KirkDiggler/pgte-bot/internal/discord/routers"
	"github.com/KirkDiggler/pgte-bot/internal/services"
	"github.com/KirkDiggler/pgte-bot/internal/telemetry"
	"github.com/KirkDiggler/pgte-bot/internal/uuid"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Bot Token: %s", maskToken(cfg.Discord.Token))
	log.Printf("Application ID: %s", cfg.Discord.AppID)
	if cfg.Discord.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.Discord.GuildID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Printf("Failed to set up tracing, continuing without it: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("Failed to flush traces: %v", err)
		}
	}()

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	// Connect the character store
	repo, closeRepo, err := services.OpenRepository(ctx, &cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open character store: %v", err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Printf("Failed to close character store: %v", err)
		}
	}()

	serviceProvider := services.NewProvider(&services.ProviderConfig{
		CharacterRepository: repo,
		ChatSink:            chat.NewDiscordSink(dg),
	})

	rateLimitStore, closeLimiter := openRateLimitStore(ctx, cfg)
	defer closeLimiter()

	pipeline := core.NewPipeline()
	pipeline.Use(
		middleware.RecoveryMiddleware(),
		middleware.TracingMiddleware(otel.GetTracerProvider()),
		middleware.RequestIDMiddleware(uuid.NewGoogleUUIDGenerator()),
		middleware.LoggingMiddleware(nil),
		middleware.ErrorMiddleware(nil),
		middleware.AuthorizationMiddleware(&middleware.AuthConfig{
			UserBlacklist: cfg.Discord.BlockedUsers,
			RequiredRoles: cfg.Discord.AllowedRoles,
		}),
		middleware.RateLimitMiddleware(&middleware.RateLimitConfig{
			PerMinute: cfg.RateLimit.PerMinute,
			Store:     rateLimitStore,
		}),
		// A modal must be the first response, so edits and submits are never deferred
		middleware.SmartDeferMiddleware(
			middleware.DeferSkipRule{Domain: routers.CommandName, Action: "edit"},
			middleware.DeferSkipRule{Domain: routers.CommandName, Action: "aspect"},
		),
	)

	routers.NewSheetRouter(pipeline, serviceProvider)

	// Register interaction handler
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if err := pipeline.Execute(ctx, s, i); err != nil {
			log.Printf("[Discord] Failed to handle interaction %s: %v", i.ID, err)
		}
	})

	// Open connection to Discord
	if err := dg.Open(); err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}
	defer func() {
		if err := dg.Close(); err != nil {
			log.Printf("Failed to close Discord connection: %v", err)
		}
	}()

	// Use empty string for global commands, or set a guild ID for testing
	if err := routers.RegisterCommands(dg, cfg.Discord.AppID, cfg.Discord.GuildID); err != nil {
		log.Printf("Failed to register commands: %v", err)
		return
	}

	if cfg.Discord.GuildID != "" {
		log.Printf("Registered commands for guild: %s", cfg.Discord.GuildID)
	} else {
		log.Println("Registered global commands (may take up to 1 hour to propagate)")
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	<-ctx.Done()

	fmt.Println("Shutting down...")
}

// openRateLimitStore shares rate limits through Redis when the sheets are
// stored there, so several bot processes enforce one budget per user.
func openRateLimitStore(ctx context.Context, cfg *config.Config) (middleware.RateLimitStore, func()) {
	local := middleware.NewTokenBucketStore(cfg.RateLimit.PerMinute, cfg.RateLimit.PerMinute)
	noop := func() {}

	if cfg.Storage.Backend != config.BackendRedis {
		return local, noop
	}

	opts, err := redis.ParseURL(cfg.Storage.RedisURL)
	if err != nil {
		log.Printf("Failed to parse Redis URL for rate limiting: %v", err)
		return local, noop
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable for rate limiting, using in-process limits: %v", err)
		_ = client.Close()
		return local, noop
	}

	log.Println("Using Redis for rate limiting")
	return middleware.NewRedisRateLimitStore(client, cfg.RateLimit.PerMinute, time.Minute), func() {
		if err := client.Close(); err != nil {
			log.Printf("Failed to close Redis connection: %v", err)
		}
	}
}

func maskToken(token string) string {
	if len(token) < 12 {
		return "****"
	}
	return token[:8] + "..." + token[len(token)-4:]
}
