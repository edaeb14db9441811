package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/KLR136/Controle-API/config"
	cartControllers "github.com/KLR136/Controle-API/controllers/cart"
	"github.com/KLR136/Controle-API/middleware"
	"github.com/KLR136/Controle-API/store"
)

// SetupUserRoutes registers the "/user/*" endpoints. Requires a JWT.
func SetupUserRoutes(r *gin.Engine, st *store.Store, cfg config.Config) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(st))
			cartGroup.POST("/items", cartControllers.AddCartItem(st))
			cartGroup.PUT("/items/:product_id", cartControllers.UpdateCartItem(st))
			cartGroup.DELETE("/items/:product_id", cartControllers.DeleteCartItem(st))
			cartGroup.DELETE("", cartControllers.ClearUserCart(st))
		}
	}
}
