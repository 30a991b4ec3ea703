package controllers

import (
	"net/http"

	"github.com/Kariqs/neon-store-api/models"
	"github.com/Kariqs/neon-store-api/pricing"
	"github.com/gin-gonic/gin"
)

type pricePreviewRequest struct {
	Config   models.CustomConfig `json:"config" binding:"required"`
	Quantity int                 `json:"quantity"`
}

// PreviewPrice prices a custom sign configuration without touching the cart.
func PreviewPrice(ctx *gin.Context) {
	var req pricePreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"breakdown":   pricing.PriceCustom(req.Config, req.Quantity),
		"deliveryFee": pricing.DeliveryFee,
		"sizes":       pricing.Sizes(),
	})
}
