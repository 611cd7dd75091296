package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", handler.Metrics)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Classification endpoint
		v1.POST("/classify", handler.Classify) // POST /api/v1/classify

		// Conversation endpoints
		conversations := v1.Group("/conversations")
		{
			conversations.GET("/:id/result", handler.GetLastResult)        // GET /api/v1/conversations/:id/result
			conversations.GET("/:id/history", handler.GetHistory)          // GET /api/v1/conversations/:id/history
			conversations.GET("/:id/explanation", handler.GetExplanation)  // GET /api/v1/conversations/:id/explanation
			conversations.GET("/:id/prevention", handler.GetPrevention)    // GET /api/v1/conversations/:id/prevention
		}

		// Rules inspection endpoint
		v1.GET("/rules", handler.ListRules) // GET /api/v1/rules

		// Statistics endpoint
		v1.GET("/stats", handler.GetStats) // GET /api/v1/stats
	}
}
