package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KLR136/Controle-API/config"
	orderControllers "github.com/KLR136/Controle-API/controllers/order"
	"github.com/KLR136/Controle-API/middleware"
	"github.com/KLR136/Controle-API/store"
)

// SetupOrderRoutes registers the "/orders/*" endpoints. Requires a JWT.
func SetupOrderRoutes(r *gin.Engine, st *store.Store, cfg config.Config) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// Place a new order from the active cart
		orders.POST("", orderControllers.PlaceOrderHandler(st))

		// The caller's own orders
		orders.GET("", orderControllers.GetUserOrdersHandler(st))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(st))
	}
}
