package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/trails-backend-go/internal/config"
	"github.com/jengzang/trails-backend-go/internal/handler"
	"github.com/jengzang/trails-backend-go/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Trails  *handler.TrailHandler
	Imports *handler.ImportHandler
}

// SetupRouter builds the gin engine with middleware and all routes
func SetupRouter(cfg *config.Config, log *zap.Logger, h Handlers, limiter *middleware.RateLimiter) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trails Backend API is running",
		})
	})

	auth := middleware.JWT(cfg.JWTSecret)

	// API routes
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(limiter))
	{
		api.POST("/analyze", h.Trails.Analyze)

		trails := api.Group("/trails")
		{
			trails.GET("", h.Trails.ListTrails)
			trails.GET("/:name", h.Trails.GetTrail)
			trails.GET("/:name/path", h.Trails.GetTrailPath)
			trails.GET("/:name/export", h.Trails.ExportTrail)
			trails.POST("", auth, h.Trails.CreateTrail)
			trails.DELETE("/:name", auth, h.Trails.DeleteTrail)
		}

		imports := api.Group("/imports")
		{
			imports.POST("", auth, h.Imports.StartImport)
			imports.GET("/:id", h.Imports.GetImport)
		}
	}

	return r
}
