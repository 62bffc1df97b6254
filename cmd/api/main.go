package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/planwise/engine/internal/api"
	"github.com/planwise/engine/internal/api/handlers"
	mw "github.com/planwise/engine/internal/api/middleware"
	"github.com/planwise/engine/internal/api/validators"
	"github.com/planwise/engine/internal/auth"
	"github.com/planwise/engine/internal/repository"
	"github.com/planwise/engine/internal/services"
	"github.com/planwise/engine/pkg/config"
	"github.com/planwise/engine/pkg/database"
	"github.com/planwise/engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting Planwise Engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)
	if cfg.InsecureSecret {
		log.Warn("JWT_SECRET not set, using development default (INSECURE for production)")
	}

	// Connect to database
	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{Verbose: cfg.AppEnv == "development"})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.AppEnv == "development" || cfg.AppEnv == "test" {
		if err := repository.Migrate(db); err != nil {
			log.Fatal("auto migration failed", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	intentionRepo := repository.NewIntentionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	subprojectRepo := repository.NewSubprojectRepository(db)
	issueRepo := repository.NewIssueRepository(db)

	authn := auth.NewAuthenticator(
		userRepo,
		auth.NewHasher(cfg.BcryptCost),
		auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL),
	)

	checks := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	// Redis backs the purge queue and the shared rate limiter when configured.
	var queue services.Enqueuer
	memLimiter := mw.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer memLimiter.Stop()
	var limiter mw.Limiter = memLimiter

	if cfg.RedisEnabled() {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer asynqClient.Close()
		queue = asynqClient

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis not reachable at startup", zap.Error(err))
		}
		limiter = mw.NewRedisLimiterRPS(rdb, cfg.RateLimitRPS, memLimiter)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Info("REDIS_ADDR not set, purges run only on the worker schedule")
	}

	clientIP, err := mw.NewClientIP(cfg.TrustedProxyList())
	if err != nil {
		log.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}

	// Initialize services
	accountSvc := services.NewAccountService(userRepo, authn)
	intentionSvc := services.NewIntentionService(intentionRepo, queue)
	projectSvc := services.NewProjectService(intentionRepo, projectRepo, queue)
	subprojectSvc := services.NewSubprojectService(projectRepo, subprojectRepo)
	issueSvc := services.NewIssueService(projectRepo, issueRepo, userRepo)

	// Initialize handlers
	v := validators.New()

	router := api.NewRouter(api.Dependencies{
		Verifier:           authn,
		Limiter:            limiter,
		ClientIP:           clientIP,
		CORSOrigins:        cfg.CORSOriginList(),
		HealthHandler:      handlers.NewHealthHandler(checks),
		AuthHandler:        handlers.NewAuthHandler(accountSvc, v, cfg.CookieSecure, authn.TokenTTL()),
		IntentionsHandler:  handlers.NewIntentionsHandler(intentionSvc, v),
		ProjectsHandler:    handlers.NewProjectsHandler(projectSvc, v),
		SubprojectsHandler: handlers.NewSubprojectsHandler(subprojectSvc, v),
		IssuesHandler:      handlers.NewIssuesHandler(issueSvc, v),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
