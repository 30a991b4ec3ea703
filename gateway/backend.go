package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (RemoteOrder, error)
}

// LocalBackend serves the payment endpoints in-process.
type LocalBackend struct {
	Orders OrderCreator
	Secret string
}

func (b *LocalBackend) CreateOrder(ctx context.Context, req OrderRequest) (RemoteOrder, error) {
	return b.Orders.CreateOrder(ctx, req)
}

func (b *LocalBackend) Verify(_ context.Context, req VerifyRequest) (bool, error) {
	return VerifySignature(b.Secret, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature), nil
}

// HTTPBackend talks to the order-creation and verification endpoints over HTTP.
type HTTPBackend struct {
	client *resty.Client
}

func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &HTTPBackend{client: client}
}

func (b *HTTPBackend) CreateOrder(ctx context.Context, req OrderRequest) (RemoteOrder, error) {
	resp, err := b.client.R().SetContext(ctx).SetBody(req).Post("/payments/orders")
	if err != nil {
		return RemoteOrder{}, err
	}
	if resp.StatusCode() != 200 {
		return RemoteOrder{}, fmt.Errorf("order creation failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var order RemoteOrder
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return RemoteOrder{}, fmt.Errorf("failed to parse order response: %w", err)
	}
	if order.ID == "" {
		return RemoteOrder{}, fmt.Errorf("order id not found in response: %s", string(resp.Body()))
	}
	return order, nil
}

func (b *HTTPBackend) Verify(ctx context.Context, req VerifyRequest) (bool, error) {
	resp, err := b.client.R().SetContext(ctx).SetBody(req).Post("/payments/verify")
	if err != nil {
		return false, err
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return false, fmt.Errorf("failed to parse verification response: %w", err)
	}
	return resp.StatusCode() == 200 && result.Success, nil
}
