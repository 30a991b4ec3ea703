package cart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Kariqs/neon-store-api/models"
)

var (
	ErrInvalidItem  = errors.New("invalid cart item")
	ErrItemNotFound = errors.New("cart item not found")
)

// Store holds the line items of one shopping session.
type Store struct {
	mu    sync.Mutex
	items []models.CartLineItem
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

func (s *Store) AddItem(item models.CartLineItem) (models.CartLineItem, error) {
	if item.Quantity < 1 || item.UnitPrice < 0 {
		return item, fmt.Errorf("%w: quantity must be >= 1 and price >= 0", ErrInvalidItem)
	}
	if item.Kind == models.KindCustom && item.CustomConfig == nil {
		return item, fmt.Errorf("%w: custom item without configuration", ErrInvalidItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		if item.Kind != models.KindCustom {
			return item, fmt.Errorf("%w: catalog item without id", ErrInvalidItem)
		}
		// Two identical configurations still become separate rows.
		stamp := s.now().UnixNano()
		item.ID = fmt.Sprintf("custom-%d", stamp)
		for s.indexOf(item.ID) >= 0 {
			stamp++
			item.ID = fmt.Sprintf("custom-%d", stamp)
		}
	}

	if i := s.indexOf(item.ID); i >= 0 {
		s.items[i].Quantity += item.Quantity
		return s.items[i], nil
	}
	s.items = append(s.items, item)
	return item, nil
}

// UpdateQuantity sets the quantity of an item; zero or less removes it.
func (s *Store) UpdateQuantity(id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrItemNotFound
	}
	if quantity <= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return nil
	}
	s.items[i].Quantity = quantity
	return nil
}

func (s *Store) RemoveItem(id string) error {
	return s.UpdateQuantity(id, 0)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Snapshot copies the items and derives the totals from them.
func (s *Store) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.CartSnapshot{Items: make([]models.CartLineItem, len(s.items))}
	copy(snap.Items, s.items)
	for _, item := range snap.Items {
		snap.TotalItems += item.Quantity
		snap.TotalPrice += item.LineTotal()
	}
	return snap
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// Registry hands out one Store per session id. Sessions not touched for a
// while are dropped by Sweep.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*registryEntry
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*registryEntry), now: time.Now}
}

func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.stores[sessionID]
	if !ok {
		entry = &registryEntry{store: NewStore()}
		r.stores[sessionID] = entry
	}
	entry.lastSeen = r.now()
	return entry.store
}

// Sweep drops every session idle for longer than idle and returns how many
// went.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	dropped := 0
	for id, entry := range r.stores {
		if entry.lastSeen.Before(cutoff) {
			delete(r.stores, id)
			dropped++
		}
	}
	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
