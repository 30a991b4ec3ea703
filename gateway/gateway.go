// Package gateway drives one online payment attempt: it creates the order at
// the payment provider, hands it to the hosted widget, and verifies what the
// widget reports before anything is treated as paid.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
)

type State string

const (
	StateIdle           State = "idle"
	StateAwaitingWidget State = "awaiting-widget"
	StateVerifying      State = "verifying"
	StateConfirmed      State = "confirmed"
	StateFailed         State = "failed"
	StateCancelled      State = "cancelled"
)

func (s State) IsTerminal() bool {
	return s == StateConfirmed || s == StateFailed || s == StateCancelled
}

type Reason string

const (
	ReasonUnreachable        Reason = "gateway-unreachable"
	ReasonPaymentFailed      Reason = "payment-failed"
	ReasonVerificationFailed Reason = "verification-failed"
	ReasonCancelled          Reason = "user-cancelled"
)

// PaymentError is the only error Pay returns.
type PaymentError struct {
	Reason Reason
	Msg    string
	Err    error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Msg)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the rejection reason from an error returned by Pay.
func ReasonOf(err error) (Reason, bool) {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe.Reason, true
	}
	return "", false
}

type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"contact"`
}

type PayRequest struct {
	Receipt  string
	Amount   int64
	Currency string
	Prefill  Prefill
}

type Confirmation struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
}

type OrderRequest struct {
	Amount   int64  `json:"amount" binding:"required,min=1"`
	Currency string `json:"currency" binding:"required"`
	Receipt  string `json:"receipt" binding:"required"`
}

type RemoteOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type VerifyRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required"`
	GatewaySignature string `json:"gatewaySignature" binding:"required"`
}

// Backend is the server side of the payment flow: order creation and
// signature verification both need the provider secret.
type Backend interface {
	CreateOrder(ctx context.Context, req OrderRequest) (RemoteOrder, error)
	Verify(ctx context.Context, req VerifyRequest) (bool, error)
}

type Adapter struct {
	backend Backend
	widget  Widget
	keyID   string

	// OnTransition, when set, is called on every state change.
	OnTransition func(receipt string, from, to State)
}

func NewAdapter(backend Backend, widget Widget, keyID string) *Adapter {
	return &Adapter{backend: backend, widget: widget, keyID: keyID}
}

type attempt struct {
	receipt string
	state   State
	adapter *Adapter
}

func (a *attempt) moveTo(next State) {
	log.Printf("payment %s: %s -> %s", a.receipt, a.state, next)
	if a.adapter.OnTransition != nil {
		a.adapter.OnTransition(a.receipt, a.state, next)
	}
	a.state = next
}

func (a *attempt) reject(next State, reason Reason, msg string, err error) error {
	a.moveTo(next)
	return &PaymentError{Reason: reason, Msg: msg, Err: err}
}

// Pay blocks until the attempt reaches a terminal state. Cancelling ctx while
// the widget is open counts as the customer dismissing it.
func (a *Adapter) Pay(ctx context.Context, req PayRequest) (*Confirmation, error) {
	att := &attempt{receipt: req.Receipt, state: StateIdle, adapter: a}

	remote, err := a.backend.CreateOrder(ctx, OrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, att.reject(StateFailed, ReasonUnreachable, "could not create payment order", err)
	}
	att.moveTo(StateAwaitingWidget)

	outcome, err := a.widget.Open(ctx, WidgetSession{
		CheckoutID:     req.Receipt,
		KeyID:          a.keyID,
		GatewayOrderID: remote.ID,
		Amount:         remote.Amount,
		Currency:       remote.Currency,
		Prefill:        req.Prefill,
	})
	if err != nil {
		return nil, att.reject(StateCancelled, ReasonCancelled, "payment window closed", err)
	}

	switch outcome.Status {
	case OutcomeDismissed:
		return nil, att.reject(StateCancelled, ReasonCancelled, "payment window closed", nil)
	case OutcomeFailed:
		msg := outcome.Message
		if msg == "" {
			msg = "payment failed"
		}
		return nil, att.reject(StateFailed, ReasonPaymentFailed, msg, nil)
	case OutcomeSucceeded:
	default:
		return nil, att.reject(StateFailed, ReasonPaymentFailed, fmt.Sprintf("unknown widget outcome %q", outcome.Status), nil)
	}

	att.moveTo(StateVerifying)
	// The signature is checked against the order we created, not the one
	// the widget echoes back.
	ok, err := a.backend.Verify(ctx, VerifyRequest{
		GatewayOrderID:   remote.ID,
		GatewayPaymentID: outcome.GatewayPaymentID,
		GatewaySignature: outcome.GatewaySignature,
	})
	if err != nil {
		return nil, att.reject(StateFailed, ReasonVerificationFailed, "payment could not be verified", err)
	}
	if !ok || outcome.GatewayOrderID != remote.ID {
		return nil, att.reject(StateFailed, ReasonVerificationFailed, "payment signature mismatch", nil)
	}

	att.moveTo(StateConfirmed)
	return &Confirmation{
		GatewayOrderID:   remote.ID,
		GatewayPaymentID: outcome.GatewayPaymentID,
		Amount:           remote.Amount,
		Currency:         remote.Currency,
	}, nil
}
