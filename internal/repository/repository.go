package repository

import (
	"context"

	"storefront/internal/domain"
)

// Finders return (nil, nil) when the row does not exist.

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Save(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uint64) (bool, error)
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	// FindForUpdate locks the product row until the surrounding transaction ends.
	FindForUpdate(ctx context.Context, id uint64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	// DecrementStock takes qty units only if at least qty are left and
	// reports whether it did.
	DecrementStock(ctx context.Context, id uint64, qty int) (bool, error)
	IncrementStock(ctx context.Context, id uint64, qty int) error
}

type CartRepository interface {
	// LockCart returns the user's cart, creating it if needed, and locks it.
	LockCart(ctx context.Context, userID uint64) (*domain.Cart, error)
	FindCart(ctx context.Context, userID uint64) (*domain.Cart, error)
	// Items returns the cart lines with their products loaded.
	Items(ctx context.Context, cartID uint64) ([]domain.CartItem, error)
	FindItem(ctx context.Context, itemID uint64) (*domain.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uint64) (*domain.CartItem, error)
	CreateItem(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, itemID uint64, qty int) error
	DeleteItem(ctx context.Context, itemID uint64) (bool, error)
	ClearItems(ctx context.Context, cartID uint64) error
}

type OrderRepository interface {
	// Save inserts the order together with its items.
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindForUpdate(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	// FindAll loads every order with its owner and items, newest first.
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error
}

type ReviewRepository interface {
	FindByProduct(ctx context.Context, productID uint64) ([]domain.Review, error)
	FindByID(ctx context.Context, id uint64) (*domain.Review, error)
	FindByProductAndUser(ctx context.Context, productID, userID uint64) (*domain.Review, error)
	Save(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id uint64) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Store groups the repositories over one connection. Inside Transaction,
// the Store passed to fn is bound to the transaction and every change is
// rolled back if fn returns an error.
type Store interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Reviews() ReviewRepository
	Users() UserRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
