package checkout

import (
	"errors"
	"fmt"

	"github.com/Kariqs/neon-store-api/gateway"
)

type Kind string

const (
	KindValidation         Kind = "validation"
	KindGatewayUnreachable Kind = "gateway-unreachable"
	KindPaymentFailed      Kind = "payment-failed"
	KindPaymentCancelled   Kind = "payment-cancelled"
	KindVerificationFailed Kind = "verification-failed"
	KindPersistence        Kind = "persistence"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Error is the single error type Submit returns. Message is safe to show
// to the customer.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

func paymentError(checkoutID string, err error) *Error {
	reason, _ := gateway.ReasonOf(err)
	switch reason {
	case gateway.ReasonUnreachable:
		return &Error{Kind: KindGatewayUnreachable, Message: "Payment service is unavailable right now. Please try again.", Err: err}
	case gateway.ReasonCancelled:
		return &Error{Kind: KindPaymentCancelled, Message: "Payment was cancelled. Your cart has been kept.", Err: err}
	case gateway.ReasonVerificationFailed:
		return &Error{
			Kind:    KindVerificationFailed,
			Message: fmt.Sprintf("We could not verify your payment. If money was deducted, contact support with reference %s.", checkoutID),
			Err:     err,
		}
	default:
		msg := "Payment failed."
		var pe *gateway.PaymentError
		if errors.As(err, &pe) && pe.Msg != "" {
			msg = "Payment failed: " + pe.Msg
		}
		return &Error{Kind: KindPaymentFailed, Message: msg, Err: err}
	}
}

func persistenceError(checkoutID string, err error) *Error {
	return &Error{
		Kind:    KindPersistence,
		Message: fmt.Sprintf("Your order could not be recorded. Contact support with reference %s.", checkoutID),
		Err:     err,
	}
}
