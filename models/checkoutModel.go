package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type PaymentMethod string

const (
	PaymentOnline         PaymentMethod = "online"
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
)

type CustomerInfo struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
}

type DeliveryInfo struct {
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	Landmark     string `json:"landmark"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,pincode"`
	Country      string `json:"country"`
}

// ShippingAddress joins the non-empty address fields with ", " in a fixed order.
func (d DeliveryInfo) ShippingAddress() string {
	parts := []string{d.AddressLine1, d.AddressLine2, d.Landmark, d.City, d.State, d.Pincode, d.Country}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// LastOrderSummary is what the confirmation page reads once after checkout.
type LastOrderSummary struct {
	DisplayOrderID  string        `json:"displayOrderId"`
	TotalAmount     int64         `json:"totalAmount"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	ShippingAddress string        `json:"shippingAddress"`
	CustomerName    string        `json:"customerName"`
}

const (
	IntentPending   = "pending"
	IntentCompleted = "completed"
)

// CheckoutIntent records a checkout before its order rows are written so a
// half-finished checkout can be found and replayed.
type CheckoutIntent struct {
	ID              string         `json:"id" gorm:"primaryKey;type:char(36)"`
	SessionID       string         `json:"sessionId" gorm:"index;size:36"`
	OrderID         string         `json:"orderId" gorm:"type:char(36)"`
	DisplayID       string         `json:"displayId" gorm:"size:16"`
	Status          string         `json:"status" gorm:"index"`
	CatalogWritten  bool           `json:"catalogWritten"`
	CustomWritten   bool           `json:"customWritten"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaymentStatus   string         `json:"paymentStatus"`
	CustomerName    string         `json:"customerName"`
	CustomerEmail   string         `json:"customerEmail"`
	ShippingAddress string         `json:"shippingAddress"`
	Payload         datatypes.JSON `json:"payload"`
	Attempts        int            `json:"attempts"`
	LastError       string         `json:"lastError"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}
