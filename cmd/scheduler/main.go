package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/assocosmetologie/backend/internal/config"
	"github.com/assocosmetologie/backend/internal/logger"
	"github.com/assocosmetologie/backend/internal/tasks"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting association scheduler")

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Test Redis connection
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Create Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	client := tasks.NewClient(asynqClient, logger.Logger)

	next, err := tasks.NextRun(cfg.Scheduler.MarkPastCron, time.Now())
	if err != nil {
		logger.Logger.Fatal("Invalid schedule", zap.String("cron", cfg.Scheduler.MarkPastCron), zap.Error(err))
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Scheduler.MarkPastCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.EnqueueMarkPast(ctx); err != nil {
			logger.Logger.Error("Failed to enqueue mark-past task", zap.Error(err))
		}
	}); err != nil {
		logger.Logger.Fatal("Failed to schedule mark-past task", zap.Error(err))
	}

	c.Start()
	logger.Logger.Info("Scheduler started",
		zap.String("cron", cfg.Scheduler.MarkPastCron),
		zap.Time("next_run", next),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logger.Logger.Info("Scheduler exited")
}
