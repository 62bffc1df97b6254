package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/planwise/engine/pkg/config"
	"github.com/planwise/engine/pkg/database"
	"github.com/planwise/engine/pkg/logger"

	"github.com/planwise/engine/internal/queue/tasks"
	"github.com/planwise/engine/internal/repository"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if !cfg.RedisEnabled() {
		log.Fatal("REDIS_ADDR is required for the worker")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	_ = rdb.Close()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.AsynqConcurrency,
	})

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{})
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	handler := tasks.NewPurgeTaskHandler(repository.NewPurgeRepository(db), cfg.PurgeAfter)
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePurge, handler.HandlePurge)

	// Periodic purge picks up anything the request path failed to enqueue.
	scheduler := asynq.NewScheduler(redisOpt, nil)
	task, err := tasks.NewPurgeTask("scheduled", "")
	if err != nil {
		log.Fatal("build scheduled purge task", zap.Error(err))
	}
	if _, err := scheduler.Register(cfg.PurgeCron, task); err != nil {
		log.Fatal("register purge schedule", zap.Error(err), zap.String("cron", cfg.PurgeCron))
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("asynq worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Info("purge scheduler starting", zap.String("cron", cfg.PurgeCron))
		if err := scheduler.Run(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("worker stopped with error", zap.Error(err))
	}

	scheduler.Shutdown()
	srv.Shutdown()
}
