package store

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KLR136/Controle-API/models"
)

func TestGetOrCreateActive(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	cart, err := st.Carts.GetOrCreateActive(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, cart.Active)
	assert.Equal(t, "user-1", cart.UserID)

	again, err := st.Carts.GetOrCreateActive(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID, "same user must get the same active cart")

	other, err := st.Carts.GetOrCreateActive(ctx, "user-2")
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, other.ID)
}

func TestGetOrCreateActiveConcurrent(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	const n = 8
	var (
		wg   sync.WaitGroup
		gate = make(chan struct{})
		ids  = make([]uint, n)
		errs = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-gate
			cart, err := st.Carts.GetOrCreateActive(ctx, "user-1")
			if err == nil {
				ids[i] = cart.ID
			}
			errs[i] = err
		}(i)
	}
	close(gate)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "every request must see the same cart")
	}

	var count int64
	require.NoError(t, st.db.Model(&models.Cart{}).
		Where("user_id = ? AND active", "user-1").
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "exactly one active cart per user")
}

func TestGetOrCreateActiveAfterRetirement(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	first, err := st.Carts.GetOrCreateActive(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, st.Carts.Retire(ctx, first.ID))

	second, err := st.Carts.GetOrCreateActive(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "a retired cart is history; a fresh one is created")
	assert.True(t, second.Active)
}

func TestAddItemMergesQuantities(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	p := createProduct(t, st, "Produit A", "10.00", 50)
	cart, err := st.Carts.GetOrCreateActive(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, st.Carts.AddItem(ctx, cart.ID, p.ID, 2))
	require.NoError(t, st.Carts.AddItem(ctx, cart.ID, p.ID, 3))

	var items []models.CartItem
	require.NoError(t, st.db.Find(&items, "cart_id = ?", cart.ID).Error)
	require.Len(t, items, 1, "re-adding a product must merge, not duplicate")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemValidation(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	p := createProduct(t, st, "Produit A", "10.00", 50)
	cart, err := st.Carts.GetOrCreateActive(ctx, "user-1")
	require.NoError(t, err)

	assert.ErrorIs(t, st.Carts.AddItem(ctx, cart.ID, p.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, st.Carts.AddItem(ctx, cart.ID, p.ID, -1), ErrInvalidQuantity)

	// unknown product
	assert.ErrorIs(t, st.Carts.AddItem(ctx, cart.ID, 9999, 1), ErrProductUnavailable)

	// deactivated product cannot enter a cart
	deactivateProduct(t, st, p.ID)
	assert.ErrorIs(t, st.Carts.AddItem(ctx, cart.ID, p.ID, 1), ErrProductUnavailable)
}

func TestRetiredCartIsImmutable(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	p := createProduct(t, st, "Produit A", "10.00", 50)
	cart := cartWithItems(t, st, "user-1", map[uint]int{p.ID: 1})
	require.NoError(t, st.Carts.Retire(ctx, cart.ID))

	assert.ErrorIs(t, st.Carts.AddItem(ctx, cart.ID, p.ID, 1), ErrCartRetired)
	assert.ErrorIs(t, st.Carts.SetItemQuantity(ctx, cart.ID, p.ID, 2), ErrCartRetired)
	assert.ErrorIs(t, st.Carts.RemoveItem(ctx, cart.ID, p.ID), ErrCartRetired)
	assert.ErrorIs(t, st.Carts.Clear(ctx, cart.ID), ErrCartRetired)

	// the line itself is untouched
	var items []models.CartItem
	require.NoError(t, st.db.Find(&items, "cart_id = ?", cart.ID).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRetireIsIdempotent(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	cart, err := st.Carts.GetOrCreateActive(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, st.Carts.Retire(ctx, cart.ID))
	require.NoError(t, st.Carts.Retire(ctx, cart.ID), "retiring twice is a no-op")
	assert.False(t, cartActive(t, st, cart.ID))
}

func TestSetRemoveClearItems(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	a := createProduct(t, st, "Produit A", "10.00", 50)
	b := createProduct(t, st, "Produit B", "5.00", 50)
	cart := cartWithItems(t, st, "user-1", map[uint]int{a.ID: 2, b.ID: 1})

	require.NoError(t, st.Carts.SetItemQuantity(ctx, cart.ID, a.ID, 7))
	var item models.CartItem
	require.NoError(t, st.db.First(&item, "cart_id = ? AND product_id = ?", cart.ID, a.ID).Error)
	assert.Equal(t, 7, item.Quantity)

	// editing a line that does not exist
	err := st.Carts.SetItemQuantity(ctx, cart.ID, 9999, 1)
	assert.True(t, IsNotFound(err))
	err = st.Carts.RemoveItem(ctx, cart.ID, 9999)
	assert.True(t, IsNotFound(err))

	require.NoError(t, st.Carts.RemoveItem(ctx, cart.ID, b.ID))
	require.NoError(t, st.Carts.Clear(ctx, cart.ID))

	var count int64
	require.NoError(t, st.db.Model(&models.CartItem{}).
		Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.True(t, cartActive(t, st, cart.ID), "clearing keeps the cart active")
}

func TestSnapshotJoinsLiveCatalog(t *testing.T) {
	st := openTestDB(t)
	ctx := context.Background()

	a := createProduct(t, st, "Produit A", "10.00", 5)
	b := createProduct(t, st, "Produit B", "4.50", 1)
	cart := cartWithItems(t, st, "user-1", map[uint]int{a.ID: 2, b.ID: 3})

	lines, err := st.Carts.Snapshot(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	byProduct := map[uint]CartLineView{}
	for _, l := range lines {
		byProduct[l.ProductID] = l
	}

	la := byProduct[a.ID]
	assert.True(t, la.Available)
	assert.Equal(t, 5, la.StockQuantity)
	assert.True(t, la.Subtotal.Equal(decimal.RequireFromString("20.00")))

	lb := byProduct[b.ID]
	assert.False(t, lb.Available, "requested 3, only 1 in stock")
	assert.Equal(t, 1, lb.StockQuantity)

	// snapshot reflects the live price, not a frozen one
	require.NoError(t, st.db.Model(&models.Product{}).
		Where("id = ?", a.ID).
		Update("price", decimal.RequireFromString("12.00")).Error)
	lines, err = st.Carts.Snapshot(ctx, cart.ID)
	require.NoError(t, err)
	for _, l := range lines {
		if l.ProductID == a.ID {
			assert.True(t, l.UnitPrice.Equal(decimal.RequireFromString("12.00")))
		}
	}
}
