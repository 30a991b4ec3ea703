package controllers

import (
	"log"
	"net/http"

	"github.com/Kariqs/neon-store-api/checkout"
	"github.com/Kariqs/neon-store-api/gateway"
	"github.com/Kariqs/neon-store-api/middlewares"
	"github.com/gin-gonic/gin"
)

// PaymentController serves the server half of the payment flow. The key
// secret never leaves it.
type PaymentController struct {
	Backend gateway.Backend
}

func (c *PaymentController) CreatePaymentOrder(ctx *gin.Context) {
	var req gateway.OrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	order, err := c.Backend.CreateOrder(ctx.Request.Context(), req)
	if err != nil {
		log.Printf("Payment order for %s failed: %v", req.Receipt, err)
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to initiate payment")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"id":       order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
	})
}

func (c *PaymentController) VerifyPayment(ctx *gin.Context) {
	var req gateway.VerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	ok, err := c.Backend.Verify(ctx.Request.Context(), req)
	if err != nil {
		log.Printf("Payment verification for %s failed: %v", req.GatewayOrderID, err)
		sendJSONResponse(ctx, http.StatusBadGateway, gin.H{"success": false, "message": "Verification unavailable"})
		return
	}
	if !ok {
		log.Printf("Payment %s for order %s has an invalid signature", req.GatewayPaymentID, req.GatewayOrderID)
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": ok})
}

type ConfirmationController struct {
	Summaries *checkout.LastOrderStore
}

// GetOrderConfirmation reads the session's last order summary once. Without
// a matching summary only the order id is returned.
func (c *ConfirmationController) GetOrderConfirmation(ctx *gin.Context) {
	orderID := ctx.Param("orderId")
	summary, ok := c.Summaries.Take(middlewares.SessionID(ctx))
	if !ok || summary.DisplayOrderID != orderID {
		sendJSONResponse(ctx, http.StatusOK, gin.H{"orderId": orderID})
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orderId": orderID,
		"summary": summary,
	})
}
