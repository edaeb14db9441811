package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KLR136/Controle-API/config"
	orderControllers "github.com/KLR136/Controle-API/controllers/order"
	"github.com/KLR136/Controle-API/middleware"
	"github.com/KLR136/Controle-API/store"
)

// SetupAdminRoutes registers the "/admin/*" endpoints. Requires the API key.
func SetupAdminRoutes(r *gin.Engine, st *store.Store, cfg config.Config) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(cfg.AdminAPIKey))
	{
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(st))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(st))
			orderAdmin.GET("/stats", orderControllers.OrderStatsHandler(st))
			orderAdmin.GET("/top-products", orderControllers.TopProductsHandler(st))
			orderAdmin.GET("/export-excel", orderControllers.ExportOrdersToExcel(st))

			// websocket feed of placed orders and status changes
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
		}
	}
}
