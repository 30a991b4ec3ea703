package routes

import (
	"github.com/Kariqs/neon-store-api/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, c *controllers.CartController) {
	cart := server.Group("/cart")
	{
		cart.GET("", c.GetCart)
		cart.POST("", c.AddCartItem)
		cart.DELETE("", c.ClearCart)
		cart.PATCH("/:itemId", c.UpdateCartItem)
		cart.DELETE("/:itemId", c.RemoveCartItem)
	}
	server.POST("/pricing/preview", controllers.PreviewPrice)
}
