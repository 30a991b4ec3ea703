package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Kariqs/neon-store-api/gateway"
	"github.com/Kariqs/neon-store-api/models"
)

// memoryDB implements persistence.Client over in-memory tables.
type memoryDB struct {
	mu           sync.Mutex
	intents      map[string]*models.CheckoutIntent
	orders       []models.Order
	customOrders []models.CustomNeonOrder
	insertFail   map[string]error
	updateFail   map[string]error
	now          func() time.Time
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		intents:    map[string]*models.CheckoutIntent{},
		insertFail: map[string]error{},
		updateFail: map[string]error{},
		now:        time.Now,
	}
}

func (m *memoryDB) Insert(_ context.Context, table string, rows any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.insertFail[table]; err != nil {
		return err
	}
	switch r := rows.(type) {
	case *models.CheckoutIntent:
		intent := *r
		if intent.CreatedAt.IsZero() {
			intent.CreatedAt = m.now()
		}
		m.intents[intent.ID] = &intent
	case *models.Order:
		for _, o := range m.orders {
			if o.ID == r.ID {
				return nil
			}
		}
		m.orders = append(m.orders, *r)
	case *[]models.CustomNeonOrder:
		for _, row := range *r {
			if !m.hasCustom(row.ID) {
				m.customOrders = append(m.customOrders, row)
			}
		}
	default:
		return fmt.Errorf("memoryDB: unsupported rows %T for %s", rows, table)
	}
	return nil
}

func (m *memoryDB) hasCustom(id string) bool {
	for _, c := range m.customOrders {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (m *memoryDB) Update(_ context.Context, table string, where map[string]any, values map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.updateFail[table]; err != nil {
		return 0, err
	}
	if table != models.TableCheckoutIntents {
		return 0, fmt.Errorf("memoryDB: update on %s not supported", table)
	}
	intent, ok := m.intents[where["id"].(string)]
	if !ok {
		return 0, nil
	}
	for k, v := range values {
		switch k {
		case "catalog_written":
			intent.CatalogWritten = v.(bool)
		case "custom_written":
			intent.CustomWritten = v.(bool)
		case "status":
			intent.Status = v.(string)
		case "attempts":
			intent.Attempts = v.(int)
		case "last_error":
			intent.LastError = v.(string)
		default:
			return 0, fmt.Errorf("memoryDB: unknown column %s", k)
		}
	}
	return 1, nil
}

func (m *memoryDB) Select(_ context.Context, table string, where map[string]any, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch d := dest.(type) {
	case *[]models.Order:
		for _, o := range m.orders {
			if o.ID == where["id"] {
				*d = append(*d, o)
			}
		}
	case *[]models.CheckoutIntent:
		for _, i := range m.intents {
			if intentMatches(i, where) {
				*d = append(*d, *i)
			}
		}
	default:
		return fmt.Errorf("memoryDB: unsupported select %T on %s", dest, table)
	}
	return nil
}

func intentMatches(i *models.CheckoutIntent, where map[string]any) bool {
	for k, v := range where {
		var got string
		switch k {
		case "id":
			got = i.ID
		case "status":
			got = i.Status
		case "session_id":
			got = i.SessionID
		default:
			return false
		}
		if got != v {
			return false
		}
	}
	return true
}

// ctxDB fails every call whose context is already done.
type ctxDB struct {
	*memoryDB
}

func (d ctxDB) Insert(ctx context.Context, table string, rows any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.memoryDB.Insert(ctx, table, rows)
}

func (d ctxDB) Update(ctx context.Context, table string, where map[string]any, values map[string]any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return d.memoryDB.Update(ctx, table, where, values)
}

func (d ctxDB) Select(ctx context.Context, table string, where map[string]any, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.memoryDB.Select(ctx, table, where, dest)
}

func (m *memoryDB) orderItemCount() int {
	n := 0
	for _, o := range m.orders {
		n += len(o.OrderItems)
	}
	return n
}

func (m *memoryDB) empty() bool {
	return len(m.intents) == 0 && len(m.orders) == 0 && len(m.customOrders) == 0
}

// fakePayer confirms whatever was asked unless conf sets an amount.
type fakePayer struct {
	conf     *gateway.Confirmation
	err      error
	requests []gateway.PayRequest
	onPay    func()
}

func (p *fakePayer) Pay(_ context.Context, req gateway.PayRequest) (*gateway.Confirmation, error) {
	p.requests = append(p.requests, req)
	if p.onPay != nil {
		p.onPay()
	}
	if p.err != nil {
		return nil, p.err
	}
	conf := *p.conf
	if conf.Amount == 0 {
		conf.Amount, conf.Currency = req.Amount, req.Currency
	}
	return &conf, nil
}

type fakeUploader struct {
	fail bool
	keys []string
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string) (string, error) {
	u.keys = append(u.keys, key)
	if u.fail {
		return "", errors.New("s3 unavailable")
	}
	return "https://cdn.example.com/" + key + ".png", nil
}

type fakeNotifier struct {
	sent []models.LastOrderSummary
	err  error
}

func (n *fakeNotifier) OrderPlaced(_ context.Context, _ string, s models.LastOrderSummary) error {
	n.sent = append(n.sent, s)
	return n.err
}
