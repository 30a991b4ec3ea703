// Package composer turns a cart snapshot into the rows written for an order.
package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Kariqs/neon-store-api/models"
	"github.com/Kariqs/neon-store-api/pricing"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const DisplayIDPrefix = "NEON-"

// IDGenerator returns a fresh order id. It must be backed by a
// cryptographically strong source.
type IDGenerator func() (uuid.UUID, error)

type Composition struct {
	OrderID      string                   `json:"orderId"`
	DisplayID    string                   `json:"displayId"`
	Order        *models.Order            `json:"order,omitempty"`
	OrderItems   []models.OrderItem       `json:"orderItems"`
	CustomOrders []models.CustomNeonOrder `json:"customOrders"`
	GrandTotal   int64                    `json:"grandTotal"`
}

type Composer struct {
	newID IDGenerator
}

func New(newID IDGenerator) *Composer {
	if newID == nil {
		newID = uuid.NewRandom
	}
	return &Composer{newID: newID}
}

// DisplayID derives the customer facing order number from the order uuid.
func DisplayID(id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return DisplayIDPrefix + strings.ToUpper(hex[:8])
}

func (c *Composer) Compose(
	snap models.CartSnapshot,
	customer models.CustomerInfo,
	delivery models.DeliveryInfo,
	method models.PaymentMethod,
	paymentStatus string) (*Composition, error) {

	id, err := c.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	comp := &Composition{
		OrderID:    id.String(),
		DisplayID:  DisplayID(id),
		GrandTotal: snap.TotalPrice + pricing.DeliveryFee,
	}
	address := delivery.ShippingAddress()

	var catalog, custom []models.CartLineItem
	for _, item := range snap.Items {
		if item.IsCustom() {
			custom = append(custom, item)
		} else {
			catalog = append(catalog, item)
		}
	}

	if len(catalog) > 0 {
		order := &models.Order{
			ID:              comp.OrderID,
			DisplayID:       comp.DisplayID,
			CustomerName:    customer.Name,
			CustomerEmail:   customer.Email,
			CustomerPhone:   customer.Phone,
			ShippingAddress: address,
			DeliveryFee:     pricing.DeliveryFee,
			PaymentMethod:   string(method),
			PaymentStatus:   paymentStatus,
			Status:          models.OrderStatusPlaced,
		}
		for _, item := range catalog {
			order.Subtotal += item.LineTotal()
			row, err := orderItem(comp.OrderID, item)
			if err != nil {
				return nil, err
			}
			comp.OrderItems = append(comp.OrderItems, row)
		}
		order.TotalAmount = order.Subtotal + order.DeliveryFee
		comp.Order = order
	}

	for i, item := range custom {
		cfg := item.CustomConfig
		price := pricing.PriceCustom(*cfg, item.Quantity)
		comp.CustomOrders = append(comp.CustomOrders, models.CustomNeonOrder{
			ID:              uuid.NewSHA1(id, []byte(fmt.Sprintf("custom-%d", i))).String(),
			DisplayID:       comp.DisplayID,
			CustomerName:    customer.Name,
			CustomerEmail:   customer.Email,
			CustomerPhone:   customer.Phone,
			ShippingAddress: address,
			Text:            cfg.Text,
			Font:            cfg.Font,
			Color:           cfg.Color,
			Size:            cfg.Size,
			HasDimmer:       cfg.HasDimmer,
			BackingShape:    cfg.BackingShape,
			PreviewImageURL: cfg.PreviewImageURL,
			BasePrice:       price.BasePrice,
			CharacterPrice:  price.CharacterPrice,
			DimmerPrice:     price.DimmerPrice,
			BackingPrice:    price.BackingPrice,
			Quantity:        item.Quantity,
			TotalAmount:     price.Total,
			PaymentMethod:   string(method),
			PaymentStatus:   paymentStatus,
			Status:          models.OrderStatusPlaced,
		})
	}

	return comp, nil
}

func orderItem(orderID string, item models.CartLineItem) (models.OrderItem, error) {
	row := models.OrderItem{
		OrderID:     orderID,
		ProductName: item.Name,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Image:       item.Image,
	}
	snapshot := map[string]any{}
	if pc := item.ProductConfig; pc != nil {
		if pc.ProductID != 0 {
			productID := pc.ProductID
			row.ProductID = &productID
			snapshot["productId"] = pc.ProductID
		}
		if pc.SizeLabel != "" {
			snapshot["size"] = pc.SizeLabel
		}
		if pc.Color != "" {
			snapshot["color"] = pc.Color
		}
		if len(pc.AddOns) > 0 {
			snapshot["addOns"] = pc.AddOns
		}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return row, fmt.Errorf("failed to marshal config snapshot: %w", err)
	}
	row.ConfigSnapshot = datatypes.JSON(data)
	return row, nil
}

// Attach stamps the checkout and gateway references onto every row.
func (c *Composition) Attach(checkoutID, gatewayOrderID, gatewayPaymentID string) {
	if c.Order != nil {
		c.Order.CheckoutID = checkoutID
		c.Order.GatewayOrderID = gatewayOrderID
		c.Order.GatewayPaymentID = gatewayPaymentID
	}
	for i := range c.CustomOrders {
		c.CustomOrders[i].CheckoutID = checkoutID
		c.CustomOrders[i].GatewayPaymentID = gatewayPaymentID
	}
}

// PersistedTotal sums what the written rows will charge.
func (c *Composition) PersistedTotal() int64 {
	var total int64
	if c.Order != nil {
		total += c.Order.TotalAmount
	}
	for _, co := range c.CustomOrders {
		total += co.TotalAmount
	}
	return total
}

// Reconciles reports whether the rows add up to the total shown to the
// customer. It can only differ when a custom item was carted at a price the
// pricing engine no longer produces.
func (c *Composition) Reconciles() bool {
	if c.Order == nil && len(c.CustomOrders) > 0 {
		return c.PersistedTotal()+pricing.DeliveryFee == c.GrandTotal
	}
	return c.PersistedTotal() == c.GrandTotal
}
