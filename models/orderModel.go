package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TableOrders           = "orders"
	TableOrderItems       = "order_items"
	TableCustomNeonOrders = "custom_neon_orders"
	TableCheckoutIntents  = "checkout_intents"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"

	OrderStatusPlaced = "placed"
)

type Order struct {
	ID               string         `json:"id" gorm:"primaryKey;type:char(36)"`
	DisplayID        string         `json:"displayId" gorm:"index;size:16"`
	CheckoutID       string         `json:"checkoutId" gorm:"index;type:char(36)"`
	CustomerName     string         `json:"customerName"`
	CustomerEmail    string         `json:"customerEmail"`
	CustomerPhone    string         `json:"customerPhone"`
	ShippingAddress  string         `json:"shippingAddress"`
	Subtotal         int64          `json:"subtotal"`
	DeliveryFee      int64          `json:"deliveryFee"`
	TotalAmount      int64          `json:"totalAmount"`
	PaymentMethod    string         `json:"paymentMethod"`
	PaymentStatus    string         `json:"paymentStatus"`
	Status           string         `json:"status"`
	GatewayOrderID   string         `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string         `json:"gatewayPaymentId,omitempty"`
	OrderItems       []OrderItem    `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

type OrderItem struct {
	gorm.Model
	OrderID        string         `json:"orderId" gorm:"type:char(36);index"`
	ProductID      *int           `json:"productId,omitempty"`
	ProductName    string         `json:"productName"`
	Quantity       int            `json:"quantity"`
	UnitPrice      int64          `json:"unitPrice"`
	Image          string         `json:"image"`
	ConfigSnapshot datatypes.JSON `json:"configSnapshot"`
}

// CustomNeonOrder is written once per custom line item. Rows of one checkout
// share a CheckoutID but have no parent order row.
type CustomNeonOrder struct {
	ID               string         `json:"id" gorm:"primaryKey;type:char(36)"`
	CheckoutID       string         `json:"checkoutId" gorm:"index;type:char(36)"`
	DisplayID        string         `json:"displayId" gorm:"index;size:16"`
	CustomerName     string         `json:"customerName"`
	CustomerEmail    string         `json:"customerEmail"`
	CustomerPhone    string         `json:"customerPhone"`
	ShippingAddress  string         `json:"shippingAddress"`
	Text             string         `json:"text"`
	Font             string         `json:"font"`
	Color            string         `json:"color"`
	Size             string         `json:"size"`
	HasDimmer        bool           `json:"hasDimmer"`
	BackingShape     string         `json:"backingShape"`
	PreviewImageURL  string         `json:"previewImageUrl,omitempty"`
	BasePrice        int64          `json:"basePrice"`
	CharacterPrice   int64          `json:"characterPrice"`
	DimmerPrice      int64          `json:"dimmerPrice"`
	BackingPrice     int64          `json:"backingPrice"`
	Quantity         int            `json:"quantity"`
	TotalAmount      int64          `json:"totalAmount"`
	PaymentMethod    string         `json:"paymentMethod"`
	PaymentStatus    string         `json:"paymentStatus"`
	Status           string         `json:"status"`
	GatewayPaymentID string         `json:"gatewayPaymentId,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
