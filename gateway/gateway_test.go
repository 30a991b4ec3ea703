package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "rzp_test_secret"

type fakeBackend struct {
	orderErr  error
	verifyErr error
	created   []OrderRequest
	verified  []VerifyRequest
}

func (b *fakeBackend) CreateOrder(_ context.Context, req OrderRequest) (RemoteOrder, error) {
	b.created = append(b.created, req)
	if b.orderErr != nil {
		return RemoteOrder{}, b.orderErr
	}
	return RemoteOrder{ID: "order_" + req.Receipt, Amount: req.Amount, Currency: req.Currency}, nil
}

func (b *fakeBackend) Verify(_ context.Context, req VerifyRequest) (bool, error) {
	b.verified = append(b.verified, req)
	if b.verifyErr != nil {
		return false, b.verifyErr
	}
	return VerifySignature(testSecret, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature), nil
}

type scriptedWidget struct {
	outcome func(WidgetSession) WidgetOutcome
	err     error
	opened  []WidgetSession
}

func (w *scriptedWidget) Open(_ context.Context, s WidgetSession) (WidgetOutcome, error) {
	w.opened = append(w.opened, s)
	if w.err != nil {
		return WidgetOutcome{}, w.err
	}
	return w.outcome(s), nil
}

func paid(s WidgetSession) WidgetOutcome {
	return WidgetOutcome{
		Status:           OutcomeSucceeded,
		GatewayOrderID:   s.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		GatewaySignature: Sign(testSecret, s.GatewayOrderID, "pay_1"),
	}
}

func request() PayRequest {
	return PayRequest{Receipt: "chk-1", Amount: 2400, Currency: "INR", Prefill: Prefill{Name: "Asha"}}
}

func recordStates(a *Adapter) *[]State {
	var states []State
	a.OnTransition = func(_ string, _, to State) { states = append(states, to) }
	return &states
}

func TestPay_Confirmed(t *testing.T) {
	backend := &fakeBackend{}
	widget := &scriptedWidget{outcome: paid}
	adapter := NewAdapter(backend, widget, "rzp_key")
	states := recordStates(adapter)

	conf, err := adapter.Pay(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, "order_chk-1", conf.GatewayOrderID)
	assert.Equal(t, "pay_1", conf.GatewayPaymentID)
	assert.Equal(t, int64(2400), conf.Amount)
	assert.Equal(t, []State{StateAwaitingWidget, StateVerifying, StateConfirmed}, *states)
	require.Len(t, widget.opened, 1)
	assert.Equal(t, "rzp_key", widget.opened[0].KeyID)
	assert.Equal(t, "Asha", widget.opened[0].Prefill.Name)
}

func TestPay_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		backend   *fakeBackend
		widget    *scriptedWidget
		reason    Reason
		lastState State
	}{
		{
			name:      "order creation fails",
			backend:   &fakeBackend{orderErr: errors.New("connection refused")},
			widget:    &scriptedWidget{outcome: paid},
			reason:    ReasonUnreachable,
			lastState: StateFailed,
		},
		{
			name:    "widget reports failure",
			backend: &fakeBackend{},
			widget: &scriptedWidget{outcome: func(WidgetSession) WidgetOutcome {
				return WidgetOutcome{Status: OutcomeFailed, Message: "card declined"}
			}},
			reason:    ReasonPaymentFailed,
			lastState: StateFailed,
		},
		{
			name:    "customer closes widget",
			backend: &fakeBackend{},
			widget: &scriptedWidget{outcome: func(WidgetSession) WidgetOutcome {
				return WidgetOutcome{Status: OutcomeDismissed}
			}},
			reason:    ReasonCancelled,
			lastState: StateCancelled,
		},
		{
			name:      "widget times out",
			backend:   &fakeBackend{},
			widget:    &scriptedWidget{err: context.DeadlineExceeded},
			reason:    ReasonCancelled,
			lastState: StateCancelled,
		},
		{
			name:    "bad signature",
			backend: &fakeBackend{},
			widget: &scriptedWidget{outcome: func(s WidgetSession) WidgetOutcome {
				o := paid(s)
				o.GatewaySignature = "forged"
				return o
			}},
			reason:    ReasonVerificationFailed,
			lastState: StateFailed,
		},
		{
			name:    "signature for another order",
			backend: &fakeBackend{},
			widget: &scriptedWidget{outcome: func(s WidgetSession) WidgetOutcome {
				s.GatewayOrderID = "order_other"
				return paid(s)
			}},
			reason:    ReasonVerificationFailed,
			lastState: StateFailed,
		},
		{
			name:      "verification endpoint down",
			backend:   &fakeBackend{verifyErr: errors.New("timeout")},
			widget:    &scriptedWidget{outcome: paid},
			reason:    ReasonVerificationFailed,
			lastState: StateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewAdapter(tt.backend, tt.widget, "rzp_key")
			states := recordStates(adapter)

			conf, err := adapter.Pay(context.Background(), request())

			assert.Nil(t, conf)
			reason, ok := ReasonOf(err)
			require.True(t, ok, "expected PaymentError, got %v", err)
			assert.Equal(t, tt.reason, reason)
			require.NotEmpty(t, *states)
			assert.Equal(t, tt.lastState, (*states)[len(*states)-1])
			assert.True(t, tt.lastState.IsTerminal())
		})
	}
}

func TestPay_FailureMessageSurfaces(t *testing.T) {
	widget := &scriptedWidget{outcome: func(WidgetSession) WidgetOutcome {
		return WidgetOutcome{Status: OutcomeFailed, Message: "insufficient funds"}
	}}
	_, err := NewAdapter(&fakeBackend{}, widget, "k").Pay(context.Background(), request())
	assert.ErrorContains(t, err, "insufficient funds")
}

func TestPay_WithHostedWidget(t *testing.T) {
	widget := NewHostedWidget()
	adapter := NewAdapter(&fakeBackend{}, widget, "rzp_key")
	opened := widget.Watch("chk-1")

	done := make(chan error, 1)
	go func() {
		_, err := adapter.Pay(context.Background(), request())
		done <- err
	}()

	var session WidgetSession
	select {
	case session = <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("widget was never opened")
	}
	require.NoError(t, widget.Resolve("chk-1", paid(session)))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("payment did not finish")
	}
}

func TestPay_ContextCancelWhileWidgetOpen(t *testing.T) {
	widget := NewHostedWidget()
	adapter := NewAdapter(&fakeBackend{}, widget, "rzp_key")
	opened := widget.Watch("chk-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := adapter.Pay(ctx, request())
		done <- err
	}()

	<-opened
	cancel()

	err := <-done
	reason, _ := ReasonOf(err)
	assert.Equal(t, ReasonCancelled, reason)
	assert.ErrorIs(t, err, context.Canceled)
}
