// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/store-ratings/internal/admin"
	"github.com/carterperez-dev/store-ratings/internal/auth"
	"github.com/carterperez-dev/store-ratings/internal/config"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/dashboard"
	"github.com/carterperez-dev/store-ratings/internal/health"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/server"
	"github.com/carterperez-dev/store-ratings/internal/store"
	"github.com/carterperez-dev/store-ratings/internal/user"
)

const drainDelay = 5 * time.Second

func newServeCommand(configPath *string) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

//nolint:funlen // bootstrap code is inherently verbose
func serve(parent context.Context, configPath string, autoMigrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, logCloser := core.NewLogger(cfg.Log)
	defer logCloser.Close() //nolint:errcheck // flushed on exit
	slog.SetDefault(logger)
	core.SetExposeErrors(cfg.IsDevelopment())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
	} else if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized", "endpoint", cfg.Otel.Endpoint)
	}

	database, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close() //nolint:errcheck // shutdown path logs its own errors
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if autoMigrate {
		if err := migrate(ctx, database, logger); err != nil {
			return err
		}
	}

	cache, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer cache.Close() //nolint:errcheck // shutdown path logs its own errors
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := user.NewRepository(database.DB)
	storeRepo := store.NewRepository(database.DB)
	ratingRepo := rating.NewRepository(database.DB)
	authRepo := auth.NewRepository(database.DB)

	userSvc := user.NewService(userRepo)
	ratingSvc := rating.NewService(ratingRepo, storeRepo)
	storeSvc := store.NewService(storeRepo, userSvc, ratingSvc, logger)
	dashSvc := dashboard.NewService(ratingSvc, storeSvc, userSvc)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, cache)

	purge, err := auth.NewPurgeJob(authRepo, cfg.Jobs.TokenPurgeSchedule, logger)
	if err != nil {
		return err
	}
	purge.Start()

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: database},
		health.Dependency{Name: "redis", Checker: cache},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Stats:      dashSvc,
		DB:         database,
		DBStats:    database.Stats,
		Redis:      cache,
		RedisStats: cache.PoolStats,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()
	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.MaxBodySize(cfg.Server.MaxBodyBytes))
	router.Use(
		middleware.NewRateLimiter(cache.Client, middleware.RateLimitConfig{
			Limit:    middleware.PerMinute(cfg.RateLimit.Requests, cfg.RateLimit.Burst),
			FailOpen: true,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin
	submitLimiter := middleware.RoleLimiter(cache.Client, cfg.RateLimit.Submissions)

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator)

		userHandler := user.NewHandler(userSvc)
		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		storeHandler := store.NewHandler(storeSvc)
		storeHandler.RegisterRoutes(r, authenticator)
		storeHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		rating.NewHandler(ratingSvc).RegisterRoutes(r, authenticator, submitLimiter)
		dashboard.NewHandler(dashSvc).RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	healthHandler.SetReady(false)

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := purge.Stop(shutdownCtx); err != nil {
		logger.Error("token purge stop error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}
