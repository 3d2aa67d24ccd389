// Package router assembles the gin engine: middleware chain and routes.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/storeops/backend/docs"
	"github.com/storeops/backend/internal/infrastructure/auth"
	"github.com/storeops/backend/internal/infrastructure/config"
	"github.com/storeops/backend/internal/infrastructure/logger"
	"github.com/storeops/backend/internal/infrastructure/telemetry"
	"github.com/storeops/backend/internal/interfaces/http/handler"
	"github.com/storeops/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers the router mounts.
type Handlers struct {
	System        *handler.SystemHandler
	Product       *handler.ProductHandler
	ProductImport *handler.ProductImportHandler
	Locator       *handler.LocatorHandler
	Returns       *handler.ReturnsHandler
	Stats         *handler.StatsHandler
}

// Dependencies carries the infrastructure the middleware chain needs.
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	MeterProvider  *telemetry.MeterProvider
	TracingEnabled bool
}

// New builds the gin engine with the full middleware chain and all routes
func New(deps Dependencies, handlers Handlers) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(deps.Logger))
	if deps.TracingEnabled {
		engine.Use(middleware.Tracing(deps.Config.Telemetry.ServiceName))
	}
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.Use(middleware.BodyLimit(deps.Config.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(deps.MeterProvider))

	jwtCfg := middleware.DefaultJWTConfig(deps.JWTService)
	jwtCfg.TokenBlacklist = deps.TokenBlacklist
	jwtCfg.Logger = deps.Logger
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtCfg)
	engine.Use(jwtMiddleware)
	if deps.TracingEnabled {
		engine.Use(middleware.TraceEnrichment())
	}

	if deps.Config.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(
			deps.Config.HTTP.RateLimitRequests,
			deps.Config.HTTP.RateLimitWindow,
		)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", handlers.System.Health)
	engine.GET("/ready", handlers.System.Ready)

	swaggerCfg := middleware.SwaggerConfig{
		Enabled:     deps.Config.Swagger.Enabled,
		RequireAuth: deps.Config.Swagger.RequireAuth,
		AllowedIPs:  deps.Config.Swagger.AllowedIPs,
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(swaggerCfg, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group("/api/v1")
	api.GET("/health", handlers.System.Health)

	catalog := api.Group("/catalog")
	{
		products := catalog.Group("/products")
		products.POST("", handlers.Product.Create)
		products.GET("", handlers.Product.List)
		products.POST("/check-device-id", handlers.Product.CheckDeviceID)
		products.POST("/import", handlers.ProductImport.Upload)
		products.GET("/import/:id", handlers.ProductImport.Status)
		products.POST("/import/:id/abort", handlers.ProductImport.Abort)
		products.GET("/:id", handlers.Product.Get)
		products.PUT("/:id", handlers.Product.Update)
		products.DELETE("/:id", handlers.Product.Delete)
		products.POST("/:id/restock", handlers.Product.Restock)
		products.POST("/:id/units", handlers.Product.AppendUnits)
		products.GET("/:id/inventory", handlers.Product.Inventory)
	}

	returnsGroup := api.Group("/returns")
	{
		returnsGroup.POST("", handlers.Returns.Create)
		returnsGroup.GET("", handlers.Returns.List)
		returnsGroup.POST("/delete", handlers.Returns.Delete)
		returnsGroup.GET("/stats", handlers.Stats.Summary)
		returnsGroup.GET("/locate/receipt", handlers.Locator.ByReceipt)
		returnsGroup.GET("/locate/device", handlers.Locator.ByDevice)
		returnsGroup.GET("/:id", handlers.Returns.Get)
		returnsGroup.PUT("/:id", handlers.Returns.Update)
	}

	return engine
}
