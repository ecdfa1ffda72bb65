package services

import (
	"context"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = domain.Identity{UserID: 101, Username: "alice"}
	bob   = domain.Identity{UserID: 102, Username: "bob"}
	admin = domain.Identity{UserID: 900, Username: "root", IsStaff: true}
)

type fixture struct {
	store     *mocks.MemStore
	publisher *mocks.MockPublisher
	emitter   *Emitter
	images    *mocks.MockImageStore

	catalog *CatalogService
	carts   *CartService
	orders  *OrderService
	reviews *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := mocks.NewMemStore()
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	emitter := NewEmitter(pub)
	images := new(mocks.MockImageStore)

	return &fixture{
		store:     store,
		publisher: pub,
		emitter:   emitter,
		images:    images,
		catalog:   NewCatalogService(store, images),
		carts:     NewCartService(store),
		orders:    NewOrderService(store, emitter),
		reviews:   NewReviewService(store),
	}
}

func (f *fixture) seedProduct(t *testing.T, name, price string, stock int) domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		Available:   true,
		Category:    domain.CategoryOther,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return *p
}

func (f *fixture) product(t *testing.T, id uint64) domain.Product {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return *p
}

var shipping = domain.ShippingDetails{
	FullName: "Alice Doe",
	Email:    "alice@example.com",
	Phone:    "9999999999",
	Address:  "1 Main St",
	City:     "Pune",
	State:    "MH",
	Pincode:  "411001",
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
