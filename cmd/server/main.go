package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/pharmasync/backend/internal/application/sync"
	"github.com/pharmasync/backend/internal/domain/sync"
	"github.com/pharmasync/backend/internal/infrastructure/billing"
	"github.com/pharmasync/backend/internal/infrastructure/cache"
	"github.com/pharmasync/backend/internal/infrastructure/config"
	"github.com/pharmasync/backend/internal/infrastructure/logger"
	"github.com/pharmasync/backend/internal/infrastructure/persistence"
	"github.com/pharmasync/backend/internal/infrastructure/scheduler"
	"github.com/pharmasync/backend/internal/infrastructure/tiendanube"
	"github.com/pharmasync/backend/internal/interfaces/http/handler"
	"github.com/pharmasync/backend/internal/interfaces/http/middleware"
	"github.com/pharmasync/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting PharmaSync order sync service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with GORM logger bridged to zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)

	// Select the store platform adapter. The sandbox serves deterministic
	// orders and needs no credentials.
	var platform sync.StorePlatform
	if cfg.Store.Sandbox {
		platform = tiendanube.NewSandbox()
		log.Info("Using sandbox store platform")
	} else {
		client, err := tiendanube.NewClient(&tiendanube.Config{
			StoreID:               cfg.Store.StoreID,
			AccessToken:           cfg.Store.AccessToken,
			APIBaseURL:            cfg.Store.APIBaseURL,
			UserAgent:             cfg.Store.UserAgent,
			TimeoutSeconds:        cfg.Store.TimeoutSeconds,
			ConnectTimeoutSeconds: cfg.Store.ConnectTimeoutSeconds,
		})
		if err != nil {
			log.Fatal("Failed to create store API client", zap.Error(err))
		}
		platform = client
		log.Info("Using Tienda Nube store platform",
			zap.String("store_id", cfg.Store.StoreID),
			zap.String("base_url", cfg.Store.APIBaseURL),
		)
	}

	// Billing gateway
	billingGateway := billing.NewStaticForwarder(log)

	// Run lock: Redis when available so concurrent replicas exclude each
	// other, in-memory otherwise.
	var runLock sync.RunLock
	if cfg.Redis.Enabled {
		redisLock, err := cache.NewRedisRunLock(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		runLock = redisLock
		log.Info("Using Redis run lock",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		runLock = cache.NewInMemoryRunLock()
		log.Info("Using in-memory run lock")
	}

	// Sync orchestrator
	orchestrator := syncapp.NewOrchestrator(platform, billingGateway, orderRepo, syncRunRepo, runLock, log,
		syncapp.WithRunLockTTL(cfg.Sync.RunLockTTL))

	// Periodic incremental sync (if enabled)
	if cfg.Sync.SchedulerEnabled {
		schedulerConfig := scheduler.Config{
			Enabled:    true,
			Interval:   cfg.Sync.SchedulerInterval,
			RunTimeout: cfg.Sync.RunLockTTL,
		}
		incrementalScheduler, err := scheduler.NewIncrementalScheduler(schedulerConfig, orchestrator, log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := incrementalScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			if err := incrementalScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()
		log.Info("Incremental sync scheduler started",
			zap.Duration("interval", cfg.Sync.SchedulerInterval),
			zap.Duration("run_timeout", cfg.Sync.RunLockTTL),
		)
	}

	// Initialize HTTP handlers
	syncHandler := handler.NewSyncHandler(orchestrator)
	orderHandler := handler.NewOrderHandler(orderRepo, orchestrator)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Timeout - Propagate a request deadline
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(maxRequestBodyBytes))

	// Bound handler work by the same deadline the server enforces on writes
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(syncHandler).
		Register(orderHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// maxRequestBodyBytes caps sync trigger payloads; they carry at most a
// timestamp, so 1 MiB is generous.
const maxRequestBodyBytes = 1 << 20

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
