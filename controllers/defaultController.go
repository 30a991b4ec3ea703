package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Neon Store API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

CART
- GET "/cart" - Get the session cart
- POST "/cart" - Add a catalog or custom item
- PATCH "/cart/:itemId" - Set item quantity (0 removes)
- DELETE "/cart/:itemId" - Remove item
- DELETE "/cart" - Clear cart

PRICING
- POST "/pricing/preview" - Price a custom sign configuration

CHECKOUT
- POST "/checkout" - Place an order (cash-on-delivery or online)
- GET "/checkout/:checkoutId" - Get the open payment window
- POST "/checkout/:checkoutId/payment" - Report the payment result
- POST "/checkout/:checkoutId/dismiss" - Report the payment window closed
- GET "/order-confirmation/:orderId" - Read the last order summary

PAYMENTS
- POST "/payments/orders" - Create a gateway order
- POST "/payments/verify" - Verify a payment signature

ADMIN
- GET "/admin/checkouts/pending" - List unfinished checkouts
- POST "/admin/checkouts/reconcile" - Finish unfinished checkouts

- GET "/metrics" - Prometheus metrics`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
