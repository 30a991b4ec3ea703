package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Kariqs/neon-store-api/cart"
	"github.com/Kariqs/neon-store-api/checkout"
	"github.com/Kariqs/neon-store-api/gateway"
	"github.com/Kariqs/neon-store-api/middlewares"
	"github.com/Kariqs/neon-store-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var kindStatus = map[checkout.Kind]int{
	checkout.KindValidation:         http.StatusBadRequest,
	checkout.KindGatewayUnreachable: http.StatusBadGateway,
	checkout.KindPaymentFailed:      http.StatusPaymentRequired,
	checkout.KindPaymentCancelled:   http.StatusConflict,
	checkout.KindVerificationFailed: http.StatusPaymentRequired,
	checkout.KindPersistence:        http.StatusInternalServerError,
}

type submission struct {
	conf *checkout.Confirmation
	err  error
}

// CheckoutController runs checkouts. An online checkout keeps running in the
// background while the customer is in the payment window; the payment and
// dismiss endpoints hand the outcome to it and wait for the result.
type CheckoutController struct {
	orchestrator  *checkout.Orchestrator
	carts         *cart.Registry
	widget        *gateway.HostedWidget
	widgetTimeout time.Duration

	mu      sync.Mutex
	pending map[string]chan submission
}

func NewCheckoutController(o *checkout.Orchestrator, carts *cart.Registry, widget *gateway.HostedWidget, widgetTimeout time.Duration) *CheckoutController {
	return &CheckoutController{
		orchestrator:  o,
		carts:         carts,
		widget:        widget,
		widgetTimeout: widgetTimeout,
		pending:       make(map[string]chan submission),
	}
}

func (c *CheckoutController) PlaceOrder(ctx *gin.Context) {
	var req checkout.Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	if uuid.Validate(req.CheckoutID) != nil {
		req.CheckoutID = uuid.NewString()
	}

	sessionID := middlewares.SessionID(ctx)
	store := c.carts.Get(sessionID)

	if req.PaymentMethod != models.PaymentOnline {
		conf, err := c.orchestrator.Submit(ctx.Request.Context(), store, sessionID, req)
		c.respond(ctx, conf, err)
		return
	}

	result := make(chan submission, 1)
	if !c.register(req.CheckoutID, result) {
		sendErrorResponse(ctx, http.StatusConflict, "A payment is already in progress for this checkout")
		return
	}
	opened := c.widget.Watch(req.CheckoutID)

	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), c.widgetTimeout)
		defer cancel()
		conf, err := c.orchestrator.Submit(runCtx, store, sessionID, req)
		result <- submission{conf: conf, err: err}
		// Uncollected results are dropped after a grace period.
		time.AfterFunc(c.widgetTimeout, func() { c.forget(req.CheckoutID, result) })
	}()

	select {
	case session := <-opened:
		sendJSONResponse(ctx, http.StatusAccepted, gin.H{
			"message":    "Complete the payment to place your order.",
			"checkoutId": req.CheckoutID,
			"widget":     session,
		})
	case res := <-result:
		c.widget.Unwatch(req.CheckoutID)
		c.forget(req.CheckoutID, result)
		c.respond(ctx, res.conf, res.err)
	case <-ctx.Request.Context().Done():
		c.widget.Unwatch(req.CheckoutID)
	}
}

// GetPaymentSession returns the open payment window for a checkout, for
// clients that reload while paying.
func (c *CheckoutController) GetPaymentSession(ctx *gin.Context) {
	session, ok := c.widget.Session(ctx.Param("checkoutId"))
	if !ok {
		sendErrorResponse(ctx, http.StatusNotFound, msgNoPendingCheckout)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"widget": session})
}

type paymentOutcomeRequest struct {
	Status           gateway.OutcomeStatus `json:"status" binding:"omitempty,oneof=succeeded failed"`
	GatewayOrderID   string                `json:"gatewayOrderId"`
	GatewayPaymentID string                `json:"gatewayPaymentId"`
	GatewaySignature string                `json:"gatewaySignature"`
	Message          string                `json:"message"`
}

func (c *CheckoutController) CompletePayment(ctx *gin.Context) {
	var req paymentOutcomeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, err)
		return
	}
	if req.Status == "" {
		req.Status = gateway.OutcomeSucceeded
	}
	c.resolve(ctx, gateway.WidgetOutcome{
		Status:           req.Status,
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		GatewaySignature: req.GatewaySignature,
		Message:          req.Message,
	})
}

func (c *CheckoutController) DismissPayment(ctx *gin.Context) {
	c.resolve(ctx, gateway.WidgetOutcome{Status: gateway.OutcomeDismissed})
}

func (c *CheckoutController) resolve(ctx *gin.Context, outcome gateway.WidgetOutcome) {
	checkoutID := ctx.Param("checkoutId")
	result, ok := c.lookup(checkoutID)
	if !ok {
		sendErrorResponse(ctx, http.StatusNotFound, msgNoPendingCheckout)
		return
	}

	// The window may already have closed on timeout; the result is then
	// waiting regardless.
	if err := c.widget.Resolve(checkoutID, outcome); err != nil {
		log.Printf("checkout %s: resolve %s: %v", checkoutID, outcome.Status, err)
	}

	select {
	case res := <-result:
		c.forget(checkoutID, result)
		c.respond(ctx, res.conf, res.err)
	case <-ctx.Request.Context().Done():
	}
}

func (c *CheckoutController) respond(ctx *gin.Context, conf *checkout.Confirmation, err error) {
	if err == nil {
		sendJSONResponse(ctx, http.StatusCreated, gin.H{
			"message": "Order placed successfully.",
			"order":   conf,
		})
		return
	}

	var ce *checkout.Error
	if !errors.As(err, &ce) {
		log.Println("Checkout error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	body := gin.H{"message": ce.Message, "kind": ce.Kind}
	if len(ce.Fields) > 0 {
		body["fields"] = ce.Fields
	}
	status, ok := kindStatus[ce.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	sendJSONResponse(ctx, status, body)
}

func (c *CheckoutController) register(checkoutID string, result chan submission) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[checkoutID]; busy {
		return false
	}
	c.pending[checkoutID] = result
	return true
}

func (c *CheckoutController) lookup(checkoutID string) (chan submission, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.pending[checkoutID]
	return result, ok
}

func (c *CheckoutController) forget(checkoutID string, result chan submission) {
	c.mu.Lock()
	if c.pending[checkoutID] == result {
		delete(c.pending, checkoutID)
	}
	c.mu.Unlock()
}
