package delivery

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MariamShamia2002/amana-marketing/internal/delivery/middleware"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics) *HTTPRouter {
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Timeout(30 * time.Second))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/", r.handlers.GetAPIInfo)
		v1.GET("", r.handlers.GetAPIInfo)

		// View endpoints
		views := v1.Group("/views")
		{
			views.GET("/overview", r.handlers.GetOverview)
			views.GET("/weekly", r.handlers.GetWeekly)
			views.GET("/demographics", r.handlers.GetDemographics)
			views.GET("/devices", r.handlers.GetDevices)
			views.GET("/regions", r.handlers.GetRegions)

			views.POST("/overview/refresh", r.handlers.RefreshView("overview"))
			views.POST("/weekly/refresh", r.handlers.RefreshView("weekly"))
			views.POST("/demographics/refresh", r.handlers.RefreshView("demographics"))
			views.POST("/devices/refresh", r.handlers.RefreshView("devices"))
			views.POST("/regions/refresh", r.handlers.RefreshView("regions"))
		}

		// Export endpoints
		export := v1.Group("/export")
		{
			export.POST("/run", r.handlers.ExportRun)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
