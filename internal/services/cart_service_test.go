package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_Add(t *testing.T) {
	tests := []struct {
		name          string
		stock         int
		available     bool
		productID     func(p domain.Product) uint64
		qty           int
		expectedError error
		expectedMsg   string
	}{
		{name: "adds new line", stock: 5, available: true, qty: 2},
		{name: "unknown product", stock: 5, available: true, qty: 1,
			productID: func(domain.Product) uint64 { return 9999 }, expectedError: domain.ErrNotFound, expectedMsg: "Product not found"},
		{name: "missing product id", stock: 5, available: true, qty: 1,
			productID: func(domain.Product) uint64 { return 0 }, expectedError: domain.ErrInvalidInput},
		{name: "zero quantity", stock: 5, available: true, qty: 0, expectedError: domain.ErrInvalidInput},
		{name: "more than stock", stock: 1, available: true, qty: 2, expectedError: domain.ErrOutOfStock},
		{name: "unavailable", stock: 5, available: false, qty: 1, expectedError: domain.ErrOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.seedProduct(t, "Mouse", "10.50", tt.stock)
			if !tt.available {
				p.Available = false
				require.NoError(t, f.store.Products().Save(context.Background(), &p))
			}
			pid := p.ID
			if tt.productID != nil {
				pid = tt.productID(p)
			}

			item, cv, err := f.carts.Add(context.Background(), alice.UserID, pid, tt.qty)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.expectedMsg != "" {
					assert.EqualError(t, err, tt.expectedMsg)
				}
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.qty, item.Quantity)
			assert.Equal(t, "Mouse", item.Product.Name)
			assert.Equal(t, tt.qty, cv.TotalItems)
			assert.True(t, dec("21.00").Equal(cv.TotalPrice))
		})
	}
}

func TestCartService_AddSameProductMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Lamp", "20", 2)

	first, _, err := f.carts.Add(ctx, alice.UserID, p.ID, 1)
	require.NoError(t, err)
	second, cv, err := f.carts.Add(ctx, alice.UserID, p.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, cv.Items, 1)
	assert.Equal(t, 2, cv.Items[0].Quantity)
	assert.Equal(t, 2, cv.TotalItems)

	_, _, err = f.carts.Add(ctx, alice.UserID, p.ID, 1)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.EqualError(t, err, "Cannot add more. Only 2 in stock")
}

func TestCartService_ConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Pen", "1", 100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.carts.Add(context.Background(), alice.UserID, p.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cv, err := f.carts.View(context.Background(), alice.UserID)
	require.NoError(t, err)
	require.Len(t, cv.Items, 1)
	assert.Equal(t, 20, cv.Items[0].Quantity)
}

func TestCartService_ViewTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.carts.View(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0, empty.TotalItems)
	assert.True(t, empty.TotalPrice.IsZero())

	a := f.seedProduct(t, "A", "2.50", 10)
	b := f.seedProduct(t, "B", "0.10", 10)
	_, _, err = f.carts.Add(ctx, alice.UserID, a.ID, 3)
	require.NoError(t, err)
	_, _, err = f.carts.Add(ctx, alice.UserID, b.ID, 7)
	require.NoError(t, err)

	cv, err := f.carts.View(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, 10, cv.TotalItems)
	assert.True(t, dec("8.20").Equal(cv.TotalPrice), cv.TotalPrice.String())

	sum := dec("0")
	for _, it := range cv.Items {
		sum = sum.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.True(t, sum.Equal(cv.TotalPrice))

	// Totals follow the live price until checkout.
	a.Price = dec("3.00")
	require.NoError(t, f.store.Products().Save(ctx, &a))
	cv, err = f.carts.View(ctx, alice.UserID)
	require.NoError(t, err)
	assert.True(t, dec("9.70").Equal(cv.TotalPrice), cv.TotalPrice.String())
}

func TestCartService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Cup", "4", 5)
	item, _, err := f.carts.Add(ctx, alice.UserID, p.ID, 1)
	require.NoError(t, err)

	tests := []struct {
		name          string
		user          uint64
		itemID        uint64
		qty           int
		expectedError error
	}{
		{name: "valid", user: alice.UserID, itemID: item.ID, qty: 4},
		{name: "zero", user: alice.UserID, itemID: item.ID, qty: 0, expectedError: domain.ErrInvalidInput},
		{name: "above stock", user: alice.UserID, itemID: item.ID, qty: 6, expectedError: domain.ErrOutOfStock},
		{name: "someone else's item", user: bob.UserID, itemID: item.ID, qty: 2, expectedError: domain.ErrNotFound},
		{name: "missing item", user: alice.UserID, itemID: 4242, qty: 2, expectedError: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cv, err := f.carts.Update(ctx, tt.user, tt.itemID, tt.qty)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.qty, got.Quantity)
			assert.Equal(t, tt.qty, cv.TotalItems)
			assert.True(t, dec("16").Equal(cv.TotalPrice))
		})
	}
}

func TestCartService_RemoveAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Book", "12", 5)
	q := f.seedProduct(t, "Toy", "3", 5)
	item, _, err := f.carts.Add(ctx, alice.UserID, p.ID, 1)
	require.NoError(t, err)
	_, _, err = f.carts.Add(ctx, alice.UserID, q.ID, 2)
	require.NoError(t, err)

	_, _, err = f.carts.Remove(ctx, bob.UserID, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	removed, cv, err := f.carts.Remove(ctx, alice.UserID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Book", removed.Product.Name)
	assert.Equal(t, 2, cv.TotalItems)

	_, _, err = f.carts.Remove(ctx, alice.UserID, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.carts.Clear(ctx, alice.UserID))
	cv, err = f.carts.View(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, cv.Items)

	assert.NoError(t, f.carts.Clear(ctx, bob.UserID))
}

func TestCartService_FailedWriteLeavesCartUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Fan", "30", 5)
	_, _, err := f.carts.Add(ctx, alice.UserID, p.ID, 1)
	require.NoError(t, err)

	f.store.FailOn("Carts.UpdateQuantity", errors.New("disk full"))
	_, _, err = f.carts.Add(ctx, alice.UserID, p.ID, 1)
	assert.EqualError(t, err, "disk full")

	cv, err := f.carts.View(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, cv.TotalItems)
}
