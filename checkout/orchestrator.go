package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Kariqs/neon-store-api/cart"
	"github.com/Kariqs/neon-store-api/composer"
	"github.com/Kariqs/neon-store-api/gateway"
	"github.com/Kariqs/neon-store-api/metrics"
	"github.com/Kariqs/neon-store-api/models"
	"github.com/Kariqs/neon-store-api/persistence"
	"github.com/Kariqs/neon-store-api/pricing"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Payer interface {
	Pay(ctx context.Context, req gateway.PayRequest) (*gateway.Confirmation, error)
}

// PreviewUploader stores a custom sign preview and returns its public URL.
type PreviewUploader interface {
	Upload(ctx context.Context, key, dataURI string) (string, error)
}

type Notifier interface {
	OrderPlaced(ctx context.Context, email string, summary models.LastOrderSummary) error
}

const DefaultWriteTimeout = 30 * time.Second

type Confirmation struct {
	OrderID        string `json:"orderId"`
	DisplayOrderID string `json:"displayOrderId"`
	GrandTotal     int64  `json:"grandTotal"`
	RedirectPath   string `json:"redirectPath"`
}

type Deps struct {
	Payer     Payer
	Composer  *composer.Composer
	DB        persistence.Client
	Summaries *LastOrderStore
	Currency  string

	// WriteTimeout bounds the order writes once they start. They do not
	// inherit the caller's deadline.
	WriteTimeout time.Duration

	// Optional.
	Previews PreviewUploader
	Notifier Notifier
	Metrics  *metrics.CheckoutMetrics
}

type Orchestrator struct {
	deps     Deps
	validate *validator.Validate
}

func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Currency == "" {
		deps.Currency = "INR"
	}
	if deps.WriteTimeout <= 0 {
		deps.WriteTimeout = DefaultWriteTimeout
	}
	return &Orchestrator{deps: deps, validate: NewValidator()}
}

func ConfirmationPath(displayID string) string {
	return "/order-confirmation/" + displayID
}

// Submit runs one checkout to completion. On any error the cart is left as
// it was and no summary is stored.
func (o *Orchestrator) Submit(ctx context.Context, store *cart.Store, sessionID string, req Request) (*Confirmation, error) {
	start := time.Now()
	if req.CheckoutID == "" {
		req.CheckoutID = uuid.NewString()
	}

	conf, err := o.submit(ctx, store, sessionID, req)

	outcome := "placed"
	if err != nil {
		outcome = string(KindOf(err))
		log.Printf("checkout %s (%s) failed: %v", req.CheckoutID, req.PaymentMethod, err)
	} else {
		log.Printf("checkout %s placed order %s (%s)", req.CheckoutID, conf.DisplayOrderID, req.PaymentMethod)
	}
	if m := o.deps.Metrics; m != nil {
		m.Outcomes.WithLabelValues(string(req.PaymentMethod), outcome).Inc()
		m.LatencyMS.WithLabelValues(string(req.PaymentMethod)).Observe(float64(time.Since(start).Milliseconds()))
	}
	return conf, err
}

func (o *Orchestrator) submit(ctx context.Context, store *cart.Store, sessionID string, req Request) (*Confirmation, error) {
	snap := store.Snapshot()
	if err := Validate(o.validate, req, snap); err != nil {
		return nil, err
	}

	// A checkout whose writes failed earlier is finished before anything new
	// is charged or composed.
	pending, err := o.pendingIntent(ctx, sessionID)
	if err != nil {
		return nil, persistenceError(req.CheckoutID, err)
	}
	if pending != nil {
		return o.resume(ctx, store, sessionID, pending, snap)
	}
	if err := o.checkUnused(ctx, req.CheckoutID); err != nil {
		return nil, err
	}

	amount := snap.TotalPrice + pricing.DeliveryFee
	paymentStatus := models.PaymentStatusPending
	var payment gateway.Confirmation
	if req.PaymentMethod == models.PaymentOnline {
		conf, err := o.deps.Payer.Pay(ctx, gateway.PayRequest{
			Receipt:  req.CheckoutID,
			Amount:   amount,
			Currency: o.deps.Currency,
			Prefill: gateway.Prefill{
				Name:  req.Customer.Name,
				Email: req.Customer.Email,
				Phone: req.Customer.Phone,
			},
		})
		if err != nil {
			return nil, paymentError(req.CheckoutID, err)
		}
		if conf.Amount != amount || conf.Currency != o.deps.Currency {
			return nil, paymentError(req.CheckoutID, &gateway.PaymentError{
				Reason: gateway.ReasonVerificationFailed,
				Msg:    fmt.Sprintf("paid %d %s, expected %d %s", conf.Amount, conf.Currency, amount, o.deps.Currency),
			})
		}
		payment = *conf
		paymentStatus = models.PaymentStatusPaid
	}

	// Money may have moved; from here on the caller's deadline no longer applies.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.deps.WriteTimeout)
	defer cancel()

	snap = o.uploadPreviews(writeCtx, req.CheckoutID, snap)

	comp, err := o.deps.Composer.Compose(snap, req.Customer, req.Delivery, req.PaymentMethod, paymentStatus)
	if err != nil {
		return nil, persistenceError(req.CheckoutID, err)
	}
	if !comp.Reconciles() {
		log.Printf("checkout %s: rows total %d differs from cart total %d", req.CheckoutID, comp.PersistedTotal(), comp.GrandTotal)
	}
	comp.Attach(req.CheckoutID, payment.GatewayOrderID, payment.GatewayPaymentID)

	intent, err := newIntent(req.CheckoutID, sessionID, comp, req.PaymentMethod, paymentStatus, req.Customer, req.Delivery)
	if err != nil {
		return nil, persistenceError(req.CheckoutID, err)
	}
	if err := o.deps.DB.Insert(writeCtx, models.TableCheckoutIntents, intent); err != nil {
		return nil, persistenceError(req.CheckoutID, fmt.Errorf("failed to record checkout intent: %w", err))
	}
	if err := writeOrders(writeCtx, o.deps.DB, intent, comp); err != nil {
		return nil, persistenceError(req.CheckoutID, err)
	}

	summary := models.LastOrderSummary{
		DisplayOrderID:  comp.DisplayID,
		TotalAmount:     comp.GrandTotal,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.Delivery.ShippingAddress(),
		CustomerName:    req.Customer.Name,
	}
	return o.finish(writeCtx, store, sessionID, req.Customer.Email, summary, comp, true), nil
}

// pendingIntent returns the session's unfinished checkout, if any.
func (o *Orchestrator) pendingIntent(ctx context.Context, sessionID string) (*models.CheckoutIntent, error) {
	var intents []models.CheckoutIntent
	err := o.deps.DB.Select(ctx, models.TableCheckoutIntents, map[string]any{
		"session_id": sessionID,
		"status":     models.IntentPending,
	}, &intents)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pending checkout: %w", err)
	}
	if len(intents) == 0 {
		return nil, nil
	}
	return &intents[0], nil
}

// checkUnused rejects a checkout id that already has an intent, so a
// replayed id can never be paired with a different cart.
func (o *Orchestrator) checkUnused(ctx context.Context, checkoutID string) error {
	var intents []models.CheckoutIntent
	if err := o.deps.DB.Select(ctx, models.TableCheckoutIntents, map[string]any{"id": checkoutID}, &intents); err != nil {
		return persistenceError(checkoutID, fmt.Errorf("failed to look up checkout: %w", err))
	}
	if len(intents) > 0 {
		return &Error{Kind: KindValidation, Message: "This checkout was already submitted.", Fields: map[string]string{"checkoutId": "already used"}}
	}
	return nil
}

// resume finishes a pending intent instead of placing a second order. The
// cart is cleared only if it still holds what that intent was composed from.
func (o *Orchestrator) resume(ctx context.Context, store *cart.Store, sessionID string, intent *models.CheckoutIntent, snap models.CartSnapshot) (*Confirmation, error) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.deps.WriteTimeout)
	defer cancel()

	comp, err := intentComposition(intent)
	if err != nil {
		return nil, persistenceError(intent.ID, err)
	}
	if err := writeOrders(writeCtx, o.deps.DB, intent, comp); err != nil {
		return nil, persistenceError(intent.ID, err)
	}
	log.Printf("checkout %s resumed for session %s (order %s)", intent.ID, sessionID, intent.DisplayID)

	sameCart := snap.TotalPrice+pricing.DeliveryFee == comp.GrandTotal && snap.TotalItems == composedItems(comp)
	summary := models.LastOrderSummary{
		DisplayOrderID:  comp.DisplayID,
		TotalAmount:     comp.GrandTotal,
		PaymentMethod:   models.PaymentMethod(intent.PaymentMethod),
		ShippingAddress: intent.ShippingAddress,
		CustomerName:    intent.CustomerName,
	}
	return o.finish(writeCtx, store, sessionID, intent.CustomerEmail, summary, comp, sameCart), nil
}

func (o *Orchestrator) finish(ctx context.Context, store *cart.Store, sessionID, email string, summary models.LastOrderSummary, comp *composer.Composition, clearCart bool) *Confirmation {
	o.deps.Summaries.Put(sessionID, summary)
	if clearCart {
		store.Clear()
	}

	if o.deps.Notifier != nil {
		if err := o.deps.Notifier.OrderPlaced(ctx, email, summary); err != nil {
			log.Printf("order %s: confirmation email not sent: %v", comp.DisplayID, err)
		}
	}

	return &Confirmation{
		OrderID:        comp.OrderID,
		DisplayOrderID: comp.DisplayID,
		GrandTotal:     comp.GrandTotal,
		RedirectPath:   ConfirmationPath(comp.DisplayID),
	}
}

func composedItems(comp *composer.Composition) int {
	n := 0
	for _, item := range comp.OrderItems {
		n += item.Quantity
	}
	for _, co := range comp.CustomOrders {
		n += co.Quantity
	}
	return n
}

// uploadPreviews replaces inline preview images with stored URLs. A failed
// upload only loses the preview.
func (o *Orchestrator) uploadPreviews(ctx context.Context, checkoutID string, snap models.CartSnapshot) models.CartSnapshot {
	if o.deps.Previews == nil {
		return snap
	}
	for i, item := range snap.Items {
		if !item.IsCustom() || item.CustomConfig.PreviewImageDataURI == "" {
			continue
		}
		cfg := *item.CustomConfig
		url, err := o.deps.Previews.Upload(ctx, fmt.Sprintf("previews/%s/%d", checkoutID, i), cfg.PreviewImageDataURI)
		if err != nil {
			log.Printf("checkout %s: preview upload for %s failed: %v", checkoutID, item.ID, err)
			continue
		}
		cfg.PreviewImageURL = url
		cfg.PreviewImageDataURI = ""
		snap.Items[i].CustomConfig = &cfg
	}
	return snap
}
