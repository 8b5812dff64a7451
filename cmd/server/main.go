package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	ledgerapp "github.com/sourcingops/backend/internal/application/ledger"
	sourcingapp "github.com/sourcingops/backend/internal/application/sourcing"
	"github.com/sourcingops/backend/internal/infrastructure/auth"
	"github.com/sourcingops/backend/internal/infrastructure/cache"
	"github.com/sourcingops/backend/internal/infrastructure/config"
	"github.com/sourcingops/backend/internal/infrastructure/export"
	"github.com/sourcingops/backend/internal/infrastructure/importer"
	"github.com/sourcingops/backend/internal/infrastructure/logger"
	"github.com/sourcingops/backend/internal/infrastructure/persistence"
	"github.com/sourcingops/backend/internal/infrastructure/storage"
	"github.com/sourcingops/backend/internal/interfaces/http/handler"
	"github.com/sourcingops/backend/internal/interfaces/http/middleware"
	"github.com/sourcingops/backend/internal/interfaces/http/router"
)

// version is stamped at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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
		_ = log.Sync()
	}()

	log.Info("Starting sourcing ops backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis is only dialed when the snapshot cache is configured to use it
	var redisClient *redis.Client
	if cfg.Cache.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		cancel()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache.Backend, cfg.Cache.TTL, redisClient, log)
	if err != nil {
		log.Fatal("Failed to build snapshot cache", zap.Error(err))
	}

	// Receipt object storage; the stub keeps local development working
	// without an S3 endpoint.
	var receiptStorage ledgerapp.ReceiptStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Could not ensure receipt bucket", zap.Error(err))
		}
		cancel()
		receiptStorage = s3Storage
	} else {
		log.Warn("No storage bucket configured, using stub receipt storage")
		receiptStorage = storage.NewStubObjectStorage()
	}

	// Repositories
	lineRepo := persistence.NewGormOrderLineRepository(db.DB)
	snapshotRepo := persistence.NewGormVerificationRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)

	// Application services
	lineService := sourcingapp.NewOrderLineService(lineRepo)
	reconciliationService := sourcingapp.NewReconciliationService(lineRepo, snapshotRepo,
		sourcingapp.WithSnapshotCache(snapshotCache))
	snapshotService := sourcingapp.NewSnapshotService(snapshotRepo, deliveryRepo, lineRepo, snapshotCache, log)
	ledgerService := ledgerapp.NewService(ledgerRepo)
	receiptService := ledgerapp.NewReceiptService(receiptStorage)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)
	credentialChecker := auth.NewCredentialChecker(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthWithConfig(jwtConfig))

	excelImporter := importer.NewExcelImporter()
	excelExporter := export.NewExcelExporter()

	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(version, db))
	r.Register(handler.NewAuthHandler(credentialChecker, jwtService))
	r.Register(handler.NewOrderLineHandler(lineService, reconciliationService, excelImporter, excelExporter))
	r.Register(handler.NewReconciliationHandler(reconciliationService))
	r.Register(handler.NewSnapshotHandler(snapshotService, excelImporter))
	r.Register(handler.NewLedgerHandler(ledgerService, receiptService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if closer, ok := snapshotCache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	log.Info("Server exited gracefully")
}
