package cart

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Kariqs/neon-store-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogItem(id string, price int64, qty int) models.CartLineItem {
	return models.CartLineItem{ID: id, Kind: models.KindCatalog, Name: "Sign " + id, UnitPrice: price, Quantity: qty}
}

func customItem(price int64, qty int) models.CartLineItem {
	return models.CartLineItem{
		Kind:      models.KindCustom,
		Name:      "Custom Neon",
		UnitPrice: price,
		Quantity:  qty,
		CustomConfig: &models.CustomConfig{
			Text: "Hello", Font: "Barcelony", Color: "pink", Size: "Medium",
		},
	}
}

func assertTotals(t *testing.T, snap models.CartSnapshot) {
	t.Helper()
	var qty int
	var price int64
	for _, it := range snap.Items {
		qty += it.Quantity
		price += it.UnitPrice * int64(it.Quantity)
	}
	assert.Equal(t, qty, snap.TotalItems)
	assert.Equal(t, price, snap.TotalPrice)
}

func TestAddItem_MergesByID(t *testing.T) {
	s := NewStore()
	_, err := s.AddItem(catalogItem("p1", 1200, 1))
	require.NoError(t, err)
	merged, err := s.AddItem(catalogItem("p1", 1200, 2))
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, 3, snap.TotalItems)
	assert.Equal(t, int64(3600), snap.TotalPrice)
}

func TestAddItem_CustomItemsAreDistinctRows(t *testing.T) {
	s := NewStore()
	tick := time.Unix(1700000000, 0)
	s.now = func() time.Time { return tick }

	a, err := s.AddItem(customItem(1949, 1))
	require.NoError(t, err)
	b, err := s.AddItem(customItem(1949, 1))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.Snapshot().Items, 2)
}

func TestAddItem_RejectsInvalid(t *testing.T) {
	s := NewStore()
	_, err := s.AddItem(catalogItem("p1", 100, 0))
	assert.ErrorIs(t, err, ErrInvalidItem)
	_, err = s.AddItem(catalogItem("p1", -1, 1))
	assert.ErrorIs(t, err, ErrInvalidItem)
	_, err = s.AddItem(models.CartLineItem{Kind: models.KindCustom, Name: "x", Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidItem)
	assert.Empty(t, s.Snapshot().Items)
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	s := NewStore()
	_, _ = s.AddItem(catalogItem("p1", 100, 2))
	_, _ = s.AddItem(catalogItem("p2", 50, 1))

	require.NoError(t, s.UpdateQuantity("p1", 0))
	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "p2", snap.Items[0].ID)

	require.NoError(t, s.UpdateQuantity("p2", -3))
	assert.Empty(t, s.Snapshot().Items)
	assert.ErrorIs(t, s.UpdateQuantity("p2", 1), ErrItemNotFound)
}

func TestUpdateQuantity_Idempotent(t *testing.T) {
	s := NewStore()
	_, _ = s.AddItem(catalogItem("p1", 100, 1))

	require.NoError(t, s.UpdateQuantity("p1", 4))
	once := s.Snapshot()
	require.NoError(t, s.UpdateQuantity("p1", 4))
	assert.Equal(t, once, s.Snapshot())
}

func TestTotalsHoldAfterRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewStore()
	ids := []string{"a", "b", "c", "d"}

	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(3) {
		case 0:
			_, _ = s.AddItem(catalogItem(id, int64(rng.Intn(5000)), 1+rng.Intn(3)))
		case 1:
			_ = s.UpdateQuantity(id, rng.Intn(6)-1)
		case 2:
			_ = s.RemoveItem(id)
		}
		assertTotals(t, s.Snapshot())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	_, _ = s.AddItem(catalogItem("p1", 100, 1))
	snap := s.Snapshot()
	snap.Items[0].Quantity = 99
	assert.Equal(t, 1, s.Snapshot().Items[0].Quantity)
}

func TestClear(t *testing.T) {
	s := NewStore()
	_, _ = s.AddItem(catalogItem("p1", 100, 1))
	s.Clear()
	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.TotalPrice)
}

func TestRegistry_IsolatesSessions(t *testing.T) {
	r := NewRegistry()
	_, _ = r.Get("s1").AddItem(catalogItem("p1", 100, 1))

	assert.Len(t, r.Get("s1").Snapshot().Items, 1)
	assert.Empty(t, r.Get("s2").Snapshot().Items)
	assert.Same(t, r.Get("s1"), r.Get("s1"))

}

func TestRegistry_SweepDropsIdleSessions(t *testing.T) {
	r := NewRegistry()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	_, _ = r.Get("idle").AddItem(catalogItem("p1", 100, 1))
	now = now.Add(50 * time.Minute)
	_, _ = r.Get("active").AddItem(catalogItem("p2", 200, 1))
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, r.Sweep(time.Hour))
	assert.Equal(t, 1, r.Len())
	assert.Len(t, r.Get("active").Snapshot().Items, 1)
	assert.Empty(t, r.Get("idle").Snapshot().Items)
}
