package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Kariqs/neon-store-api/composer"
	"github.com/Kariqs/neon-store-api/models"
	"github.com/Kariqs/neon-store-api/persistence"
)

func newIntent(checkoutID, sessionID string, comp *composer.Composition, method models.PaymentMethod, paymentStatus string,
	customer models.CustomerInfo, delivery models.DeliveryInfo) (*models.CheckoutIntent, error) {
	payload, err := json.Marshal(comp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal composition: %w", err)
	}
	return &models.CheckoutIntent{
		ID:              checkoutID,
		SessionID:       sessionID,
		OrderID:         comp.OrderID,
		DisplayID:       comp.DisplayID,
		Status:          models.IntentPending,
		PaymentMethod:   string(method),
		PaymentStatus:   paymentStatus,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		ShippingAddress: delivery.ShippingAddress(),
		Payload:         payload,
	}, nil
}

func intentComposition(intent *models.CheckoutIntent) (*composer.Composition, error) {
	var comp composer.Composition
	if err := json.Unmarshal(intent.Payload, &comp); err != nil {
		return nil, fmt.Errorf("failed to decode checkout payload: %w", err)
	}
	return &comp, nil
}

func markIntent(ctx context.Context, db persistence.Client, id string, values map[string]any) error {
	_, err := db.Update(ctx, models.TableCheckoutIntents, map[string]any{"id": id}, values)
	return err
}

// writeOrders performs whichever of the two order writes the intent has not
// recorded yet, then completes the intent. The catalog write goes first.
func writeOrders(ctx context.Context, db persistence.Client, intent *models.CheckoutIntent, comp *composer.Composition) error {
	if !intent.CatalogWritten {
		if comp.Order != nil {
			if err := insertCatalogOrder(ctx, db, comp); err != nil {
				return fmt.Errorf("failed to write order %s: %w", comp.OrderID, err)
			}
		}
		if err := markIntent(ctx, db, intent.ID, map[string]any{"catalog_written": true}); err != nil {
			return fmt.Errorf("failed to mark catalog written: %w", err)
		}
		intent.CatalogWritten = true
	}

	if !intent.CustomWritten {
		if len(comp.CustomOrders) > 0 {
			rows := make([]models.CustomNeonOrder, len(comp.CustomOrders))
			copy(rows, comp.CustomOrders)
			if err := db.Insert(ctx, models.TableCustomNeonOrders, &rows); err != nil {
				return fmt.Errorf("failed to write custom orders for %s: %w", comp.OrderID, err)
			}
		}
		if err := markIntent(ctx, db, intent.ID, map[string]any{"custom_written": true}); err != nil {
			return fmt.Errorf("failed to mark custom written: %w", err)
		}
		intent.CustomWritten = true
	}

	if err := markIntent(ctx, db, intent.ID, map[string]any{"status": models.IntentCompleted}); err != nil {
		return fmt.Errorf("failed to complete checkout intent: %w", err)
	}
	intent.Status = models.IntentCompleted
	return nil
}

// insertCatalogOrder writes the order with its items. Items have
// autoincrement keys, so an order that already exists is left alone.
func insertCatalogOrder(ctx context.Context, db persistence.Client, comp *composer.Composition) error {
	var existing []models.Order
	if err := db.Select(ctx, models.TableOrders, map[string]any{"id": comp.OrderID}, &existing); err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	order := *comp.Order
	order.OrderItems = make([]models.OrderItem, len(comp.OrderItems))
	copy(order.OrderItems, comp.OrderItems)
	return db.Insert(ctx, models.TableOrders, &order)
}
