package routes

import (
	"github.com/Kariqs/neon-store-api/controllers"
	"github.com/gin-gonic/gin"
)

func CheckoutRoutes(server *gin.Engine, c *controllers.CheckoutController, confirmation *controllers.ConfirmationController) {
	checkout := server.Group("/checkout")
	{
		checkout.POST("", c.PlaceOrder)
		checkout.GET("/:checkoutId", c.GetPaymentSession)
		checkout.POST("/:checkoutId/payment", c.CompletePayment)
		checkout.POST("/:checkoutId/dismiss", c.DismissPayment)
	}
	server.GET("/order-confirmation/:orderId", confirmation.GetOrderConfirmation)
}

func PaymentRoutes(server *gin.Engine, c *controllers.PaymentController) {
	payments := server.Group("/payments")
	{
		payments.POST("/orders", c.CreatePaymentOrder)
		payments.POST("/verify", c.VerifyPayment)
	}
}
