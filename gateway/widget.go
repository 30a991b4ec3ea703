package gateway

import (
	"context"
	"errors"
	"sync"
)

type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeDismissed OutcomeStatus = "dismissed"
)

var (
	ErrNoOpenWidget   = errors.New("no payment window open for this checkout")
	ErrWidgetResolved = errors.New("payment window already resolved")
)

// WidgetSession is everything the browser needs to open the hosted checkout.
type WidgetSession struct {
	CheckoutID     string  `json:"checkoutId"`
	KeyID          string  `json:"keyId"`
	GatewayOrderID string  `json:"gatewayOrderId"`
	Amount         int64   `json:"amount"`
	Currency       string  `json:"currency"`
	Prefill        Prefill `json:"prefill"`
}

// WidgetOutcome is what the hosted checkout reported back.
type WidgetOutcome struct {
	Status           OutcomeStatus `json:"status"`
	GatewayOrderID   string        `json:"gatewayOrderId"`
	GatewayPaymentID string        `json:"gatewayPaymentId"`
	GatewaySignature string        `json:"gatewaySignature"`
	Message          string        `json:"message"`
}

type Widget interface {
	Open(ctx context.Context, session WidgetSession) (WidgetOutcome, error)
}

type openWidget struct {
	session WidgetSession
	outcome chan WidgetOutcome
}

// HostedWidget bridges the browser-hosted payment window. Open parks until
// the browser posts the outcome through Resolve.
type HostedWidget struct {
	mu       sync.Mutex
	open     map[string]*openWidget
	watchers map[string]chan WidgetSession
}

func NewHostedWidget() *HostedWidget {
	return &HostedWidget{
		open:     make(map[string]*openWidget),
		watchers: make(map[string]chan WidgetSession),
	}
}

// Watch returns a channel that receives the session once the widget for
// checkoutID is opened.
func (w *HostedWidget) Watch(checkoutID string) <-chan WidgetSession {
	ch := make(chan WidgetSession, 1)
	w.mu.Lock()
	w.watchers[checkoutID] = ch
	w.mu.Unlock()
	return ch
}

func (w *HostedWidget) Unwatch(checkoutID string) {
	w.mu.Lock()
	delete(w.watchers, checkoutID)
	w.mu.Unlock()
}

func (w *HostedWidget) Open(ctx context.Context, session WidgetSession) (WidgetOutcome, error) {
	ow := &openWidget{session: session, outcome: make(chan WidgetOutcome, 1)}

	w.mu.Lock()
	w.open[session.CheckoutID] = ow
	if ch, ok := w.watchers[session.CheckoutID]; ok {
		ch <- session
		delete(w.watchers, session.CheckoutID)
	}
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		if w.open[session.CheckoutID] == ow {
			delete(w.open, session.CheckoutID)
		}
		w.mu.Unlock()
	}()

	select {
	case outcome := <-ow.outcome:
		return outcome, nil
	case <-ctx.Done():
		return WidgetOutcome{}, ctx.Err()
	}
}

// Session returns the open session for checkoutID, if any.
func (w *HostedWidget) Session(checkoutID string) (WidgetSession, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ow, ok := w.open[checkoutID]
	if !ok {
		return WidgetSession{}, false
	}
	return ow.session, true
}

func (w *HostedWidget) Resolve(checkoutID string, outcome WidgetOutcome) error {
	w.mu.Lock()
	ow, ok := w.open[checkoutID]
	if ok {
		delete(w.open, checkoutID)
	}
	w.mu.Unlock()

	if !ok {
		return ErrNoOpenWidget
	}
	select {
	case ow.outcome <- outcome:
		return nil
	default:
		return ErrWidgetResolved
	}
}
