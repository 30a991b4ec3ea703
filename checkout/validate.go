package checkout

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Kariqs/neon-store-api/models"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern   = regexp.MustCompile(`^(\+91[\- ]?)?[6-9][0-9]{9}$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// Request is one checkout submission.
type Request struct {
	CheckoutID    string               `json:"checkoutId"`
	Customer      models.CustomerInfo  `json:"customer" validate:"required"`
	Delivery      models.DeliveryInfo  `json:"delivery" validate:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"required,oneof=online cash-on-delivery"`
}

func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

var fieldMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"phone":    "must be a 10 digit mobile number",
	"pincode":  "must be a 6 digit pincode",
	"oneof":    "is not a supported option",
}

// Validate checks the form and the cart before anything leaves the process.
func Validate(v *validator.Validate, req Request, snap models.CartSnapshot) error {
	fields := map[string]string{}

	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &Error{Kind: KindValidation, Message: "Invalid checkout details.", Err: err}
		}
		for _, fe := range verrs {
			msg, ok := fieldMessages[fe.Tag()]
			if !ok {
				msg = "is invalid"
			}
			fields[fieldKey(fe.Namespace())] = msg
		}
	}
	if len(snap.Items) == 0 {
		fields["cart"] = ErrEmptyCart.Error()
	}

	if len(fields) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Message: "Please correct the highlighted fields.", Fields: fields}
}

// fieldKey turns "Request.Customer.Email" into "customer.email".
func fieldKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}
