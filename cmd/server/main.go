package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"

	"github.com/simaogato/compound-backend/internal/adapter/cache"
	grpcadapter "github.com/simaogato/compound-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/compound-backend/internal/adapter/http"
	"github.com/simaogato/compound-backend/internal/adapter/repository/memory"
	"github.com/simaogato/compound-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/compound-backend/internal/config"
	"github.com/simaogato/compound-backend/internal/domain"
	"github.com/simaogato/compound-backend/internal/logging"
	"github.com/simaogato/compound-backend/internal/usecase/preferences"
	"github.com/simaogato/compound-backend/internal/usecase/projection"
	"github.com/simaogato/compound-backend/internal/usecase/seeder"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load configuration
	cfg := config.Load()

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	appLogger := logging.WithComponent(logger, logging.ComponentApp)

	if err := cfg.Validate(); err != nil {
		appLogger.Error("invalid configuration", logging.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	// 2. Initialize Repositories
	prefsRepo, closeRepo, err := newPreferencesRepository(cfg, logger)
	if err != nil {
		appLogger.Error("failed to set up preferences storage", logging.FieldError, err)
		os.Exit(1)
	}
	defer closeRepo()

	resultCache, closeCache := newResultCache(ctx, cfg, logger)
	defer closeCache()

	// 3. Initialize Services (Use Cases)
	projectionService := projection.NewProjectionService(resultCache, cfg.CacheTTL, logger)
	preferencesService := preferences.NewPreferencesService(prefsRepo, logger)

	// Initialize Defaults Seeder and run it
	if err := seeder.NewDefaultsSeeder(prefsRepo).Seed(ctx); err != nil {
		appLogger.Error("failed to seed default preferences", logging.FieldError, err)
		os.Exit(1)
	}
	appLogger.Info("default preferences seeded")

	// 4. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterProjectionServiceServer(grpcServer, grpcadapter.NewServer(projectionService, preferencesService))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		appLogger.Error("failed to listen", logging.FieldError, err, "addr", cfg.GRPCAddr)
		os.Exit(1)
	}

	go func() {
		appLogger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Error("gRPC server stopped unexpectedly", logging.FieldError, err)
			os.Exit(1)
		}
	}()

	// 5. Start HTTP Server
	rateLimiter := httpadapter.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpadapter.NewRouter(
		httpadapter.NewHandler(projectionService, preferencesService),
		httpadapter.RouterConfig{
			APIToken:       cfg.APIToken,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Limiter:        rateLimiter,
			Logger:         logger,
		},
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server stopped unexpectedly", logging.FieldError, err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	waitForShutdown(appLogger, grpcServer, httpServer)
}

// newPreferencesRepository picks the storage backend and returns its cleanup func
func newPreferencesRepository(cfg *config.Config, logger *slog.Logger) (domain.PreferencesRepository, func(), error) {
	storageLogger := logging.WithComponent(logger, logging.ComponentStorage)

	if cfg.PreferencesBackend != "postgres" {
		storageLogger.Info("using in-memory preferences storage")
		return memory.NewPreferencesRepository(), func() {}, nil
	}

	// Connect first so a server that is still starting is waited for
	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		return nil, nil, err
	}

	if err := postgres.RunMigrations(cfg.DBConnStr); err != nil {
		db.Close()
		return nil, nil, err
	}
	storageLogger.Info("using postgres preferences storage")

	return postgres.NewPreferencesRepository(db), func() {
		if err := db.Close(); err != nil {
			storageLogger.Warn("failed to close database", logging.FieldError, err)
		}
	}, nil
}

// newResultCache picks the cache backend; an unreachable Redis falls back to memory
func newResultCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.ResultCache, func()) {
	cacheLogger := logging.WithComponent(logger, logging.ComponentCache)

	switch cfg.CacheBackend {
	case "none":
		cacheLogger.Info("result cache disabled")
		return nil, func() {}
	case "redis":
		rc := cache.NewRedisCache(cfg.RedisAddr)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			cacheLogger.Warn("redis unreachable, using in-memory cache",
				logging.FieldError, err, "addr", cfg.RedisAddr)
			_ = rc.Close()
			return newMemoryCache(cfg, logger)
		}

		cacheLogger.Info("using redis result cache", "addr", cfg.RedisAddr)
		return rc, func() {
			if err := rc.Close(); err != nil {
				cacheLogger.Warn("failed to close redis client", logging.FieldError, err)
			}
		}
	default:
		cacheLogger.Info("using in-memory result cache", "max_entries", cfg.CacheMaxEntries)
		return newMemoryCache(cfg, logger)
	}
}

// newMemoryCache builds the in-memory cache and starts its expiry sweep
func newMemoryCache(cfg *config.Config, logger *slog.Logger) (domain.ResultCache, func()) {
	mc := cache.NewMemoryCacheWithLimit(cfg.CacheMaxEntries)

	manager := cache.NewManager(logger)
	manager.Register(mc)
	manager.StartCleanup(cfg.CacheCleanupInterval)

	return mc, manager.Stop
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(logger *slog.Logger, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("HTTP server shutdown failed", logging.FieldError, err)
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}
