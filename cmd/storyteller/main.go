package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ravenshollow/grimoire/internal/chance"
	"github.com/ravenshollow/grimoire/internal/common/clock"
	"github.com/ravenshollow/grimoire/internal/common/uuid"
	"github.com/ravenshollow/grimoire/internal/handlers/discord"
	"github.com/ravenshollow/grimoire/internal/handlers/platformws"
	"github.com/ravenshollow/grimoire/internal/repositories/archive"
	"github.com/ravenshollow/grimoire/internal/repositories/snapshot"
	"github.com/ravenshollow/grimoire/internal/services/night"
	"github.com/ravenshollow/grimoire/internal/services/storyteller"
	"github.com/ravenshollow/grimoire/internal/tracker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	// Initialize repositories
	snapshotRepo, err := snapshot.NewRedis(&snapshot.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("failed to create snapshot repository", zap.Error(err))
	}

	archiveRepo, err := archive.NewSQLite(&archive.Config{
		Path: getEnv("ARCHIVE_PATH", "grimoire.db"),
	})
	if err != nil {
		logger.Fatal("failed to create archive repository", zap.Error(err))
	}
	defer archiveRepo.Close()

	// Shared machinery
	sampler := chance.New(&chance.Config{})
	track := tracker.New()
	clk := &clock.DefaultClock{}
	ids := uuid.New()

	// Decision engine
	engine, err := storyteller.New(&storyteller.Config{
		Sampler: sampler,
		Tracker: track,
		Clock:   clk,
		UUID:    ids,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("failed to create storyteller engine", zap.Error(err))
	}

	// Discord surface
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		logger.Fatal("DISCORD_TOKEN environment variable is required")
	}
	tableChannelID := getEnv("TABLE_CHANNEL_ID", "")
	if tableChannelID == "" {
		logger.Fatal("TABLE_CHANNEL_ID environment variable is required")
	}

	bot, err := discord.New(&discord.Config{
		Token:          discordToken,
		TableChannelID: tableChannelID,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("failed to create Discord bot", zap.Error(err))
	}

	notifier, err := discord.NewNotifier(&discord.NotifierConfig{Bot: bot})
	if err != nil {
		logger.Fatal("failed to create notifier", zap.Error(err))
	}
	input, err := discord.NewInput(&discord.InputConfig{Bot: bot, UUID: ids})
	if err != nil {
		logger.Fatal("failed to create input collector", zap.Error(err))
	}

	// Night machine
	machine, err := night.New(&night.Config{
		Repository:  snapshotRepo,
		Archive:     archiveRepo,
		Engine:      engine,
		PlayerInput: input,
		Notifier:    notifier,
		Tracker:     track,
		Sampler:     sampler,
		Clock:       clk,
		UUID:        ids,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to create night machine", zap.Error(err))
	}

	// Platform mirror is optional: without a URL the adjudicator runs
	// standalone on Discord.
	if platformURL := getEnv("PLATFORM_WS_URL", ""); platformURL != "" {
		sync, err := platformws.New(ctx, &platformws.Config{
			URL:     platformURL,
			Service: machine,
			Logger:  logger,
		})
		if err != nil {
			logger.Fatal("failed to connect to platform", zap.Error(err))
		}
		defer sync.Close()
		machine.AttachSync(sync)
		logger.Info("platform sync connected", zap.String("url", platformURL))
	}

	if err := bot.Start(); err != nil {
		logger.Fatal("failed to start Discord bot", zap.Error(err))
	}
	logger.Info("storyteller is at the table")

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	if err := bot.Stop(); err != nil {
		logger.Warn("error stopping bot", zap.Error(err))
	}
	logger.Info("storyteller has left the table")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
