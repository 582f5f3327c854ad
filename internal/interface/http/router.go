package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sardonia/theveil/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLoggingMiddleware(handler.logger),
		corsMiddleware(nil),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/model/load", handler.InitModel)
		api.GET("/model/status", handler.ModelStatus)
		api.GET("/model/events", handler.ModelEvents)
		api.POST("/readings", handler.GenerateReading)
		api.POST("/readings/stream", handler.GenerateReadingStream)
		api.POST("/dashboard", handler.GenerateDashboard)
		api.GET("/readings/history", handler.ReadingHistory)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
