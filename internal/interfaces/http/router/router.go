package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// webhook deliveries burst on storefront retries; the bucket is sized so
// a redelivery storm backs off without starving first deliveries
const (
	webhookRateLimit  = 300
	webhookRateWindow = time.Minute
)

// Handlers bundles the HTTP surface of the application
type Handlers struct {
	Orders       *handler.OrderHandler
	Shops        *handler.ShopHandler
	Webhooks     *handler.WebhookHandler
	Integrations *handler.IntegrationHandler
	Events       *handler.EventStreamHandler
	System       *handler.SystemHandler
}

// Options carries the cross-cutting collaborators the router wires into
// its middleware chain
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	JWT    *auth.JWTService
}

// New assembles the gin engine: middleware chain, system probes, and the
// versioned API surface. Everything under /api/v1 requires a bearer
// token; webhook ingress authenticates with the same verifier because
// storefront connectors hold service identities.
func New(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	dto.RegisterValidations()

	engine := gin.New()
	if opts.Config != nil && len(opts.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(opts.Config.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(corsConfig(opts.Config)))
	if opts.Config != nil && opts.Config.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.Config.HTTP.MaxBodySize))
	}
	if opts.JWT != nil {
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig(opts.JWT, log)))
	}

	registerSystem(engine, h.System)
	registerAPI(engine.Group("/api/v1"), h)

	return engine
}

// corsConfig layers config.toml values over the defaults
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if cfg == nil {
		return cors
	}
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return cors
}

func jwtConfig(jwtService *auth.JWTService, log *zap.Logger) middleware.JWTMiddlewareConfig {
	cfg := middleware.DefaultJWTConfig(jwtService)
	cfg.Logger = log
	return cfg
}

// registerSystem mounts the unauthenticated probes
func registerSystem(engine *gin.Engine, system *handler.SystemHandler) {
	if system == nil {
		return
	}
	engine.GET("/health", system.Health)
	engine.GET("/healthz", system.Health)
	engine.GET("/ready", system.Ready)
	engine.GET("/api/v1/health", system.Health)
}

// registerAPI mounts the authenticated surface on the versioned group
func registerAPI(api *gin.RouterGroup, h Handlers) {
	if h.Orders != nil {
		orders := api.Group("/orders")
		orders.POST("", h.Orders.Create)
		orders.GET("", h.Orders.List)
		orders.GET("/:id", h.Orders.Get)
		orders.PATCH("/:id/status", h.Orders.Transition)
		orders.GET("/:id/events", h.Orders.ListEvents)

		api.GET("/purchases", h.Orders.ListPurchases)
	}

	if h.Shops != nil {
		shops := api.Group("/shops")
		shops.POST("", h.Shops.Create)
		shops.GET("", h.Shops.List)
		shops.GET("/:id", h.Shops.Get)
		shops.POST("/:id/access", h.Shops.Grant)
		shops.DELETE("/:id/access/:userId", h.Shops.Revoke)
	}

	if h.Webhooks != nil {
		limiter := middleware.NewRateLimiter(webhookRateLimit, webhookRateWindow)
		api.POST("/webhooks/orders", middleware.WebhookRateLimit(limiter), h.Webhooks.OrderEvent)
	}

	if h.Events != nil {
		api.GET("/events/stream", h.Events.Stream)
	}

	if h.Integrations != nil {
		integrations := api.Group("/integrations/:platform")
		integrations.POST("/sync", h.Integrations.TriggerSync)
		integrations.GET("/sync", h.Integrations.GetSyncState)
	}
}
