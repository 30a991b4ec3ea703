package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultRazorpayURL = "https://api.razorpay.com"

// OrderCacheTTL is how long a created order is reused for an identical request.
const OrderCacheTTL = 30 * time.Minute

type orderKey struct {
	receipt  string
	amount   int64
	currency string
}

type cachedOrder struct {
	order   RemoteOrder
	created time.Time
}

// RazorpayClient creates orders at the provider. A retried request for the
// same receipt, amount and currency reuses the order it already opened.
type RazorpayClient struct {
	client *resty.Client

	mu     sync.Mutex
	orders map[orderKey]cachedOrder
	now    func() time.Time
}

func NewRazorpayClient(baseURL, keyID, keySecret string, timeout time.Duration) *RazorpayClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RazorpayClient{client: client, orders: make(map[orderKey]cachedOrder), now: time.Now}
}

// CreateOrder takes the amount in rupees; the provider works in paise.
func (c *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (RemoteOrder, error) {
	key := orderKey{receipt: req.Receipt, amount: req.Amount, currency: req.Currency}
	if order, ok := c.cached(key); ok {
		return order, nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"amount":   req.Amount * 100,
			"currency": req.Currency,
			"receipt":  req.Receipt,
		}).
		Post("/v1/orders")
	if err != nil {
		return RemoteOrder{}, fmt.Errorf("razorpay order request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return RemoteOrder{}, fmt.Errorf("razorpay order request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var body struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return RemoteOrder{}, fmt.Errorf("failed to parse order response: %w", err)
	}
	if body.ID == "" {
		return RemoteOrder{}, fmt.Errorf("order id not found in response: %s", string(resp.Body()))
	}

	order := RemoteOrder{ID: body.ID, Amount: body.Amount / 100, Currency: body.Currency}
	c.mu.Lock()
	c.orders[key] = cachedOrder{order: order, created: c.now()}
	c.mu.Unlock()
	return order, nil
}

// cached looks up key and drops expired entries on the way.
func (c *RazorpayClient) cached(key orderKey) (RemoteOrder, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, v := range c.orders {
		if now.Sub(v.created) > OrderCacheTTL {
			delete(c.orders, k)
		}
	}
	entry, ok := c.orders[key]
	return entry.order, ok
}
