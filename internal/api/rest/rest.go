package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Write operations
		v1.POST("/assets", handler.MintAsset)
		v1.POST("/assets/:id/purchase", handler.PurchaseAsset)

		// Read-only projections
		v1.GET("/assets/:id/price", handler.GetPrice)
		v1.GET("/assets/:id/history", handler.GetHistory)
		v1.GET("/assets/:id/owner", handler.GetOwner)
		v1.GET("/assets/:id/royalties", handler.GetRoyaltyPreview)
		v1.GET("/assets/:id/royalties/total", handler.GetTotalRoyalties)
	}
}
