package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Kariqs/neon-store-api/cart"
	"github.com/Kariqs/neon-store-api/middlewares"
	"github.com/Kariqs/neon-store-api/models"
	"github.com/Kariqs/neon-store-api/pricing"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	Carts *cart.Registry
}

type addCartItemRequest struct {
	ID            string                `json:"id"`
	Kind          models.LineItemKind   `json:"kind" binding:"required,oneof=catalog custom"`
	Name          string                `json:"name"`
	UnitPrice     int64                 `json:"unitPrice" binding:"min=0"`
	Image         string                `json:"image"`
	Quantity      int                   `json:"quantity" binding:"required,min=1"`
	ProductConfig *models.ProductConfig `json:"productConfig"`
	CustomConfig  *models.CustomConfig  `json:"customConfig"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (c *CartController) store(ctx *gin.Context) *cart.Store {
	return c.Carts.Get(middlewares.SessionID(ctx))
}

func (c *CartController) GetCart(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": c.store(ctx).Snapshot()})
}

func (c *CartController) AddCartItem(ctx *gin.Context) {
	var req addCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Println("Bind error:", err)
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	item := models.CartLineItem{
		ID:            req.ID,
		Kind:          req.Kind,
		Name:          req.Name,
		UnitPrice:     req.UnitPrice,
		Image:         req.Image,
		Quantity:      req.Quantity,
		ProductConfig: req.ProductConfig,
		CustomConfig:  req.CustomConfig,
	}
	if item.Kind == models.KindCustom {
		if item.CustomConfig == nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "customConfig is required for custom items")
			return
		}
		// Custom signs are always priced server side; new rows get a fresh id.
		item.ID = ""
		item.UnitPrice = pricing.PriceCustom(*item.CustomConfig, 1).UnitTotal
		if item.Name == "" {
			item.Name = "Custom Neon Sign"
		}
		if item.CustomConfig.BackingShape == "" {
			item.CustomConfig.BackingShape = pricing.BackingRectangle
		}
	} else if item.Name == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, "name is required for catalog items")
		return
	}
	// Catalog prices come from the client as-is: there is no product catalog
	// on this side to look them up in. A price lookup belongs here once one exists.

	added, err := c.store(ctx).AddItem(item)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unable to add item to cart", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": added.Name + " added to cart",
		"item":    added,
		"cart":    c.store(ctx).Snapshot(),
	})
}

func (c *CartController) UpdateCartItem(ctx *gin.Context) {
	var req updateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}

	if err := c.store(ctx).UpdateQuantity(ctx.Param("itemId"), *req.Quantity); err != nil {
		c.cartError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": c.store(ctx).Snapshot()})
}

func (c *CartController) RemoveCartItem(ctx *gin.Context) {
	if err := c.store(ctx).RemoveItem(ctx.Param("itemId")); err != nil {
		c.cartError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": c.store(ctx).Snapshot()})
}

func (c *CartController) ClearCart(ctx *gin.Context) {
	c.store(ctx).Clear()
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (c *CartController) cartError(ctx *gin.Context, err error) {
	if errors.Is(err, cart.ErrItemNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgItemNotFound)
		return
	}
	log.Println("Cart error:", err)
	sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
}
