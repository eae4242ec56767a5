package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/moonboard/backend/internal/config"
	"github.com/moonboard/backend/internal/http/handlers"
	"github.com/moonboard/backend/internal/http/middleware"
	"github.com/moonboard/backend/internal/relay"
	"github.com/moonboard/backend/internal/service"

	_ "github.com/moonboard/backend/docs"
)

func Router(cfg config.Config, dashboard service.Dashboard, forwarder relay.Forwarder, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Dashboard: dashboard,
		Relay:     forwarder,
		Validator: validator.New(),
		Logger:    logger,

		RefreshTimeout: cfg.FetchTimeout + 5*time.Second,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/dashboard", h.DashboardView)
		api.GET("/metrics", h.Metrics)
		api.GET("/records", h.Records)
		api.GET("/export.xlsx", h.Export)
		api.GET("/schema", h.Schema)
		api.GET("/runs/latest", h.RunsLatest)
		api.POST("/chat", h.Chat)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/refresh", h.Refresh)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
