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

	accessapp "github.com/storefront/backend/internal/application/access"
	integrationapp "github.com/storefront/backend/internal/application/integration"
	"github.com/storefront/backend/internal/application/notify"
	orderapp "github.com/storefront/backend/internal/application/order"
	webhookapp "github.com/storefront/backend/internal/application/webhook"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/ecommerce"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	eventLogRepo := persistence.NewGormEventLogRepository(db.DB)
	shopRepo := persistence.NewGormShopRepository(db.DB)
	grantRepo := persistence.NewGormGrantRepository(db.DB)
	syncRecordRepo := persistence.NewGormSyncRecordRepository(db.DB)
	productMappingRepo := persistence.NewGormProductMappingRepository(db.DB)

	// Webhook dedupe store: Redis when reachable, in-memory otherwise
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Remote storefront clients, one per configured platform. Each client
	// serves backfill reads, and doubles as the outbound status relay.
	storefronts := make(map[order.Platform]integration.RemoteStorefront)
	relays := make([]webhookapp.Relay, 0, 2)
	for platform, sc := range map[order.Platform]config.StorefrontConfig{
		order.PlatformMarketplace: cfg.Storefronts.Marketplace,
		order.PlatformOutlet:      cfg.Storefronts.Outlet,
	} {
		if sc.BaseURL == "" {
			log.Warn("no storefront configured", zap.String("platform", platform.String()))
			continue
		}
		client, err := ecommerce.NewClient(ecommerce.ClientConfig{
			Platform:     platform,
			BaseURL:      sc.BaseURL,
			Timeout:      sc.Timeout,
			ServiceToken: sc.ServiceToken,
		})
		if err != nil {
			log.Fatal("Failed to create storefront client",
				zap.String("platform", platform.String()), zap.Error(err))
		}
		storefronts[platform] = client
		relays = append(relays, client)
	}

	// Application services
	accessService := accessapp.NewService(shopRepo, grantRepo, log)

	streamHandler := handler.NewEventStreamHandler(accessService,
		handler.WithStreamLogger(log),
		handler.WithStreamHeartbeat(cfg.Stream.HeartbeatInterval),
		handler.WithStreamClientBuffer(cfg.Stream.ClientBuffer),
	)
	if err := streamHandler.Start(); err != nil {
		log.Fatal("Failed to start event stream", zap.Error(err))
	}
	defer streamHandler.Stop()

	notifier := notify.NewNotifier(streamHandler, log)
	lifecycleService := orderapp.NewLifecycleService(
		orderRepo, eventLogRepo, accessService, shopRepo, notifier, log)

	ingressService := webhookapp.NewIngressService(
		orderRepo, lifecycleService, idempotencyStore,
		shared.IdempotencyConfig{
			Enabled: cfg.Webhook.IdempotencyEnabled,
			TTL:     cfg.Webhook.IdempotencyTTL,
		},
		relays, log)

	syncService := integrationapp.NewSyncService(
		storefronts, lifecycleService, orderRepo, syncRecordRepo, productMappingRepo,
		integrationapp.RetryPolicy{
			MaxAttempts: cfg.Sync.RetryMaxAttempts,
			BaseDelay:   cfg.Sync.RetryBaseDelay,
		},
		log)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.New(router.Handlers{
		Orders:       handler.NewOrderHandler(lifecycleService),
		Shops:        handler.NewShopHandler(accessService),
		Webhooks:     handler.NewWebhookHandler(ingressService),
		Integrations: handler.NewIntegrationHandler(syncService, accessService, cfg.Sync.RunTimeout, log),
		Events:       streamHandler,
		System:       handler.NewSystemHandler(db),
	}, router.Options{
		Config: cfg,
		Logger: log,
		JWT:    jwtService,
	})

	// WriteTimeout stays 0 so long-lived event streams are not cut off
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

	log.Info("Server exited gracefully")
}
