package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestError(t *testing.T) {
	err := error(NewError(ErrOutOfStock, "Only 2 in stock"))
	assert.EqualError(t, err, "Only 2 in stock")
	assert.True(t, errors.Is(err, ErrOutOfStock))
	assert.False(t, errors.Is(err, ErrNotFound))

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, ErrOutOfStock, de.Kind)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in       string
		expected Category
		ok       bool
	}{
		{"electronics", CategoryElectronics, true},
		{" Books ", CategoryBooks, true},
		{"other", CategoryOther, true},
		{"", "", false},
		{"garden", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, ok := ParseCategory(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestNewProductFilter(t *testing.T) {
	f := NewProductFilter("  lamp ", "HOME", "price_high")
	assert.Equal(t, ProductFilter{Search: "lamp", Category: CategoryHome, Sort: SortPriceHigh}, f)

	f = NewProductFilter("", "nope", "cheapest")
	assert.Equal(t, ProductFilter{Sort: SortLatest}, f)
}

func TestProduct_CanSupply(t *testing.T) {
	p := Product{Stock: 3, Available: true}
	assert.True(t, p.CanSupply(3))
	assert.False(t, p.CanSupply(4))
	p.Available = false
	assert.False(t, p.CanSupply(1))
}

func TestNewCartView(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, Product: Product{Price: d("19.99")}},
		{Quantity: 1, Product: Product{Price: d("0.02")}},
		{Quantity: 3, Product: Product{Price: d("5")}},
	}
	v := NewCartView(7, items)
	assert.Equal(t, uint64(7), v.CartID)
	assert.Equal(t, 6, v.TotalItems)
	assert.Equal(t, "55.00", v.TotalPrice.StringFixed(2))

	empty := NewCartView(0, nil)
	assert.Equal(t, 0, empty.TotalItems)
	assert.True(t, empty.TotalPrice.IsZero())
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []int
		expected RatingSummary
	}{
		{"none", nil, RatingSummary{}},
		{"one", []int{2}, RatingSummary{Average: 2, Count: 1}},
		{"mean", []int{5, 3, 4}, RatingSummary{Average: 4, Count: 3}},
		{"fraction", []int{5, 4}, RatingSummary{Average: 4.5, Count: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reviews []Review
			for _, r := range tt.ratings {
				reviews = append(reviews, Review{Rating: r})
			}
			assert.Equal(t, tt.expected, Summarize(reviews))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled", " Shipped "} {
		_, ok := ParseOrderStatus(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "canceled", "lost"} {
		_, ok := ParseOrderStatus(s)
		assert.False(t, ok, s)
	}
}

func TestShippingDetails_Missing(t *testing.T) {
	full := ShippingDetails{FullName: "A", Email: "a@b.c", Phone: "1", Address: "x", City: "y", State: "z", Pincode: "1"}
	assert.Equal(t, "", full.Missing())

	noPhone := full
	noPhone.Phone = " "
	assert.Equal(t, "phone", noPhone.Missing())

	assert.Equal(t, "full_name", ShippingDetails{}.Missing())
}

func TestSnapshotCartItem(t *testing.T) {
	ci := CartItem{
		ProductID: 9,
		Quantity:  3,
		Product:   Product{ID: 9, Name: "Lamp", Image: "products/l.jpg", Price: d("12.34")},
	}
	oi := SnapshotCartItem(ci)
	require.NotNil(t, oi.ProductID)
	assert.Equal(t, uint64(9), *oi.ProductID)
	assert.Equal(t, "Lamp", oi.ProductName)
	assert.Equal(t, "products/l.jpg", oi.ProductImage)
	assert.Equal(t, 3, oi.Quantity)

	ci.Product.Price = d("99")
	ci.Product.Name = "Changed"
	assert.Equal(t, "12.34", oi.Price.StringFixed(2))
	assert.Equal(t, "Lamp", oi.ProductName)

	other := OrderItem{Price: d("0.50"), Quantity: 4}
	assert.Equal(t, "39.02", SumItems([]OrderItem{oi, other}).StringFixed(2))
}
