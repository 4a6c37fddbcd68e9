package api

import (
	"github.com/MaleyDenis/infoBro/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP boundary: CORS for the web client, request
// metrics, health endpoints and the /api routes.
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Prometheus())

	router.GET("/health", healthCheck)
	router.GET("/ready", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/news", handler.GetNewsList)
		apiGroup.GET("/news/:id", handler.GetNewsByID)
		apiGroup.POST("/connectors/run/:source_id", handler.RunConnector)
		apiGroup.POST("/connectors/run-all", handler.RunAllConnectors)
	}

	return router
}

func healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy", "service": "infobro"})
}
