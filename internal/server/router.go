package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/solstice-backend/internal/handlers"
	"github.com/yungbote/solstice-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware   *middleware.AuthMiddleware
	ParseHandler     *handlers.ParseHandler
	RoutineHandler   *handlers.RoutineHandler
	RecommendHandler *handlers.RecommendHandler
	ContentHandler   *handlers.ContentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Parsing
	protected.POST("/parse", cfg.ParseHandler.Parse)
	protected.POST("/cue", cfg.ParseHandler.SuggestCues)
	// Routines
	protected.POST("/routines", cfg.RoutineHandler.Save)
	protected.GET("/routines", cfg.RoutineHandler.List)
	protected.GET("/routines/:id", cfg.RoutineHandler.Get)
	protected.DELETE("/routines/:id", cfg.RoutineHandler.Delete)
	protected.POST("/routines/:id/reorder", cfg.RoutineHandler.Reorder)
	protected.POST("/routines/generate", cfg.RoutineHandler.Generate)
	// Recommendations
	protected.POST("/recommend", cfg.RecommendHandler.Recommend)
	// Content collection
	protected.POST("/connections/:platform/sync", cfg.ContentHandler.Sync)
	protected.GET("/content", cfg.ContentHandler.ListCollection)

	return router
}
