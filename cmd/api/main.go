// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	redis_a "github.com/smartgrocer/grocery-be/internal/adapters/redis_adapter"
	"github.com/smartgrocer/grocery-be/internal/adapters/remote"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
	"github.com/smartgrocer/grocery-be/internal/core/services"
	"github.com/smartgrocer/grocery-be/internal/handlers"
	"github.com/smartgrocer/grocery-be/internal/handlers/middleware"
	"github.com/smartgrocer/grocery-be/internal/pkg/config"
	"github.com/smartgrocer/grocery-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting smart grocery inventory system",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("remote_base_url", cfg.Remote.BaseURL),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Initial reachability check decides whether the store mirrors the
	// remote service or falls back to the seeded local copy.
	mode := deps.inventoryService.Probe(ctx)
	slogger.Info("inventory store initialized", slog.String("mode", string(mode)))

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	redisClient      *redis.Client
	redisCache       ports.CacheRepository
	asynqClient      *asynq.Client
	remoteClient     *remote.Client
	inventoryService *services.InventoryService
	cartService      *services.CartService
	itemsHandler     *handlers.ItemsHandler
	cartHandler      *handlers.CartHandler
	healthHandler    *handlers.HealthHandler
	dashboardHandler *handlers.DashboardHandler
	exportHandler    *handlers.ExportHandler
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Remote inventory client
	logger.Info("configuring remote inventory client",
		slog.String("base_url", cfg.Remote.BaseURL),
		slog.Duration("timeout", cfg.Remote.Timeout),
	)
	deps.remoteClient = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, logger)

	// Redis client for the dashboard cache and task queue. The API keeps
	// serving without it.
	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddress(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
	})

	var cache ports.CacheRepository
	var asynqClient *asynq.Client
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without cache and task queue",
			slog.String("error", err.Error()))
		redisClient.Close()
	} else {
		deps.redisClient = redisClient
		if cfg.Cache.Enabled {
			cache = redis_a.NewCache(redisClient, cfg.Cache.TTL, logger)
			deps.redisCache = cache
		}

		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		})
		deps.asynqClient = asynqClient
	}

	// Core services
	var tasks services.TaskEnqueuer
	if asynqClient != nil {
		tasks = asynqClient
	}
	deps.inventoryService = services.NewInventoryService(deps.remoteClient, cache, tasks, logger)
	deps.cartService = services.NewCartService(deps.inventoryService, logger)

	// Handlers
	deps.itemsHandler = handlers.NewItemsHandler(deps.inventoryService, logger)
	deps.cartHandler = handlers.NewCartHandler(deps.cartService, logger)
	deps.healthHandler = handlers.NewHealthHandler(deps.inventoryService, deps.remoteClient, deps.redisClient, cfg, logger)
	deps.dashboardHandler = handlers.NewDashboardHandler(deps.inventoryService, cache, cfg.Cache.TTL, logger)
	deps.exportHandler = handlers.NewExportHandler(deps.inventoryService, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux

	if cfg.App.Environment != "test" {
		handler = middleware.Logger(logger)(handler)
		handler = middleware.Recovery(logger)(handler)
		handler = middleware.RequestID(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	registerRoutes(mux, deps, cfg)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	api := "/api"

	// Health and readiness endpoints
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET "+api+"/health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	}

	// Item endpoints
	mux.HandleFunc("GET "+api+"/items", deps.itemsHandler.ListItems)
	mux.HandleFunc("GET "+api+"/items/{id}", deps.itemsHandler.GetItem)
	mux.HandleFunc("POST "+api+"/items", deps.itemsHandler.CreateItem)
	mux.HandleFunc("PUT "+api+"/items/{id}", deps.itemsHandler.UpdateItem)
	mux.HandleFunc("DELETE "+api+"/items/{id}", deps.itemsHandler.DeleteItem)

	// Search endpoints
	mux.HandleFunc("GET "+api+"/search/name/{query}", deps.itemsHandler.SearchByName)
	mux.HandleFunc("GET "+api+"/search/category/{category}", deps.itemsHandler.SearchByCategory)

	// Report endpoints
	mux.HandleFunc("GET "+api+"/low-stock", deps.itemsHandler.LowStock)
	mux.HandleFunc("GET "+api+"/expiry/{days}", deps.itemsHandler.Expiring)

	// Cart and billing endpoints
	mux.HandleFunc("GET "+api+"/cart", deps.cartHandler.GetCart)
	mux.HandleFunc("POST "+api+"/cart/items", deps.cartHandler.AddLine)
	mux.HandleFunc("DELETE "+api+"/cart/items/{index}", deps.cartHandler.RemoveLine)
	mux.HandleFunc("DELETE "+api+"/cart", deps.cartHandler.ClearCart)
	mux.HandleFunc("GET "+api+"/bill", deps.cartHandler.GetBill)
	mux.HandleFunc("POST "+api+"/purchase", deps.cartHandler.Purchase)

	// Dashboard and export endpoints
	mux.HandleFunc("GET "+api+"/dashboard", deps.dashboardHandler.GetDashboard)
	mux.HandleFunc("GET "+api+"/export/excel", deps.exportHandler.ExportExcel)
}
