// Package api serves the journal over HTTP with gin.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route behind request id, logging and recovery middleware.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()

	router.Use(RequestID())
	router.Use(Logger())
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/", h.Welcome)

		logsGroup := api.Group("/logs")
		{
			logsGroup.POST("/", h.CreateLog)
			logsGroup.GET("/", h.ListLogs)
			logsGroup.GET("/:id", h.GetLog)
			logsGroup.DELETE("/:id", h.DeleteLog)
		}

		api.GET("/tags/", h.ListTags)
		api.GET("/stats/", h.GetStats)

		ai := api.Group("/ai")
		{
			ai.GET("/suggestions/", h.GetSuggestion)
			ai.GET("/mood-insights/", h.GetMoodInsight)
		}
	}

	return router
}
