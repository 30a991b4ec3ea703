package controllers

import (
	"log"
	"net/http"

	"github.com/Kariqs/neon-store-api/checkout"
	"github.com/Kariqs/neon-store-api/middlewares"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Reconciler *checkout.Reconciler
}

func (c *AdminController) ReconcileCheckouts(ctx *gin.Context) {
	repaired, err := c.Reconciler.RunOnce(ctx.Request.Context())
	if err != nil {
		log.Println("Reconcile error:", err)
		respondWithError(ctx, http.StatusInternalServerError, "Unable to reconcile checkouts", err)
		return
	}
	log.Printf("Reconcile run by %s repaired %d checkouts", middlewares.Actor(ctx), repaired)
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message":  "Reconcile run finished.",
		"repaired": repaired,
	})
}

func (c *AdminController) GetPendingCheckouts(ctx *gin.Context) {
	intents, err := c.Reconciler.Pending(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch pending checkouts", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"checkouts": intents,
		"count":     len(intents),
	})
}
