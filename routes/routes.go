package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KLR136/Controle-API/config"
	"github.com/KLR136/Controle-API/store"
)

// SetupRoutes is the single entry point that wires up every route group.
func SetupRoutes(r *gin.Engine, st *store.Store, cfg config.Config) {
	// User routes (JWT-protected)
	SetupUserRoutes(r, st, cfg)

	// Order routes (JWT-protected)
	SetupOrderRoutes(r, st, cfg)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, st, cfg)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
